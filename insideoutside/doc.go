// Package insideoutside implements the generic semiring sum-product over a
// topologically sorted hypergraph: Inside (bottom-up), Outside (top-down),
// and Expectations (per-edge sufficient statistics for gradient computation)
// (spec §4.2). All three are parameterized over semiring.Semiring[T] so the
// same traversal code serves best-derivation (Tropical/Viterbi), marginal
// (Log), and gradient (Expectation) computations.
//
// Every function here requires its hypergraph to already be topologically
// sorted (hypergraph.Hypergraph.TopologicalSort): Inside walks nodes in id
// order, Outside walks them in reverse id order, and both rely on the
// invariant that every edge's tails have strictly smaller ids than its
// head.
package insideoutside
