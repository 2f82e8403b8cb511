// Package oracle implements the greedy hill-climb oracle selector of
// spec §4.6: given, per segment, a list of candidate hypothesis
// statistics and a corpus-level reward defined by their sum, it
// iteratively reassigns each segment's selection in a shuffled order to
// the locally best-reward candidate, for up to MaxRounds rounds or
// until a round makes no improvement. Ties at a segment's argmax are
// preserved in the returned selection; the running corpus aggregate
// advances using the first tying candidate so later segments see a
// deterministic S.
package oracle
