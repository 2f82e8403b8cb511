// Package kbest implements the lazy k-best derivation extractor of spec
// §4.3 (the Huang–Chiang algorithm): given a hypergraph, a goal node, a
// traversal functor that composes a derivation's yield from its edge and
// its tails' yields, a weight functor that scores a derivation from its
// edge and its tails' scores, and a duplicate filter that can suppress
// yield-equal derivations per node, successive calls with k=0,1,...
// return the k-th best derivation under the weight functor or report
// that the node's derivations are exhausted.
//
// Each node lazily maintains a max-heap of candidate derivations (ordered
// by weight, ties broken by the smaller cardinality of the back-index
// vector) and an ordered list of derivations already emitted. Extending
// the emitted list for node v past its current length recursively
// extends the emitted lists of v's tails as needed, so the whole
// hypergraph's k-best lists are populated on demand rather than
// exhaustively.
package kbest
