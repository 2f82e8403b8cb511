// Package rescore implements the feature-function applier of spec
// §4.4: given a hypergraph and a set of feature functions, it composes
// a new hypergraph whose nodes are (original_node, state_signature)
// pairs, applying each feature function along every edge and scoring
// the result against a weight vector.
//
// Exactly one application Mode is selected per call (spec §6's mutual
// exclusion of exact/prune/grow/grow-coarse/incremental): exact
// enumerates every combination of child states; cube-prune keeps the
// top Size entries per node via a lazy priority-queue expansion
// (optionally diversified or rejection-sampled); cube-grow and
// cube-grow-coarse rank the same expansion by a cheap estimate before
// committing to real feature application; incremental folds each
// edge's tails left to right, re-pruning the beam after every tail.
package rescore
