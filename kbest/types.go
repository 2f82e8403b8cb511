package kbest

import (
	"errors"

	"github.com/cicada-go/forest/hypergraph"
)

// ErrExhausted reports that a node's k-best derivations are exhausted: k
// was requested beyond the number of derivations the hypergraph admits
// for that node. Spec §7 treats this as a normal end-of-iteration
// condition, never as a failure.
var ErrExhausted = errors.New("kbest: derivations exhausted")

// ErrInvalidGraph is returned when the goal node has no incoming edges
// reachable in the hypergraph or the goal itself is unset.
var ErrInvalidGraph = errors.New("kbest: invalid graph")

// TraversalFunc composes the yield of a derivation from its edge and the
// already-computed yields of its tails, in tail order.
type TraversalFunc[Y any] func(edge hypergraph.Edge, tailYields []Y) Y

// WeightFunc scores a derivation from its edge and the scores of the
// derivations chosen for each of its tails, in tail order. The function
// must be monotone non-decreasing in each tailScores entry for the
// k-best monotonicity property (spec §8) to hold: a node's own
// derivations must be produced in non-increasing weight order.
type WeightFunc func(edge hypergraph.Edge, tailScores []float64) float64

// DuplicateFilter reports whether the given yield at node v has already
// been emitted (by whatever notion of equality the caller cares about);
// a true result suppresses emission without halting the search, so the
// popped candidate is still used to advance the frontier (spec §4.3).
type DuplicateFilter[Y any] func(v int, yield Y) bool

// Derivation is one emitted k-best entry: the edge it roots at, the
// back-index vector into each tail's own k-best list, and cached yield
// and score values.
type Derivation[Y any] struct {
	Edge  hypergraph.Edge
	J     []int
	Yield Y
	Score float64
}
