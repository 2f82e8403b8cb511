package insideoutside

import (
	"errors"
	"fmt"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/semiring"
)

// ErrInvalidGraph is returned when a hypergraph has not been topologically
// sorted (a tail id is >= its head id).
var ErrInvalidGraph = errors.New("insideoutside: graph not topologically sorted")

// ErrSizeMismatch is returned when a caller-supplied slice disagrees in
// length with the hypergraph's node count.
var ErrSizeMismatch = errors.New("insideoutside: size mismatch")

// EdgeWeightFunc computes the semiring value contributed by an edge alone
// (independent of its tails' inside/outside values).
type EdgeWeightFunc[T any] func(e hypergraph.Edge) T

// Inside computes, for every node v in topological order, beta[v] = sum
// over incoming edges e of f(e) * product(beta[tail] for tail in tails(e))
// (spec §4.2); a node with no incoming edges is a leaf and gets One().
// Returns ErrInvalidGraph if any edge's tail id is >= its head id (the
// graph was not topologically sorted).
func Inside[T any](h *hypergraph.Hypergraph, sr semiring.Semiring[T], f EdgeWeightFunc[T]) ([]T, error) {
	n := h.NumNodes()
	beta := make([]T, n)
	for i := range beta {
		beta[i] = sr.Zero()
	}

	nodes := h.Nodes()
	edges := h.Edges()

	for _, node := range nodes {
		if len(node.Edges) == 0 {
			beta[node.ID] = sr.One()

			continue
		}
		acc := sr.Zero()
		for _, eid := range node.Edges {
			e := edges[eid]
			if e.Head <= maxTail(e.Tails) {
				return nil, fmt.Errorf("%w: edge %d head=%d tails=%v", ErrInvalidGraph, e.ID, e.Head, e.Tails)
			}
			term := f(e)
			for _, t := range e.Tails {
				term = sr.Mul(term, beta[t])
			}
			acc = sr.Add(acc, term)
		}
		beta[node.ID] = acc
	}

	return beta, nil
}

// Outside computes, for every node, alpha[v] using alpha[goal] = One() and,
// for nodes in reverse topological order, distributing each incoming edge's
// contribution to each of its tails (spec §4.2). beta must be the Inside
// result for the same hypergraph and weight functor.
func Outside[T any](h *hypergraph.Hypergraph, sr semiring.Semiring[T], f EdgeWeightFunc[T], beta []T) ([]T, error) {
	n := h.NumNodes()
	if len(beta) != n {
		return nil, ErrSizeMismatch
	}
	if !h.Valid() {
		return nil, hypergraph.ErrGoalUnset
	}

	alpha := make([]T, n)
	for i := range alpha {
		alpha[i] = sr.Zero()
	}
	alpha[h.Goal()] = sr.One()

	nodes := h.Nodes()
	edges := h.Edges()

	for i := n - 1; i >= 0; i-- {
		node := nodes[i]
		for _, eid := range node.Edges {
			e := edges[eid]
			fe := f(e)
			for pos, ti := range e.Tails {
				term := sr.Mul(alpha[node.ID], fe)
				for j, tj := range e.Tails {
					if j == pos {
						continue
					}
					term = sr.Mul(term, beta[tj])
				}
				alpha[ti] = sr.Add(alpha[ti], term)
			}
		}
	}

	return alpha, nil
}

// ExpectationFunc is the x-function of spec §4.2's edge-expectation
// aggregation: it produces the per-edge quantity to weight by
// alpha[head]*product(beta[tails]).
type ExpectationFunc[T any] func(e hypergraph.Edge) T

// Expectations computes, for every edge e, x[e] = f_x(e) * alpha[head] *
// product(beta[tails]), using a caller-supplied combine to accumulate into
// a result slice indexed by edge id. No normalization is performed (spec
// §4.2).
func Expectations[T any](
	h *hypergraph.Hypergraph,
	sr semiring.Semiring[T],
	fx ExpectationFunc[T],
	alpha, beta []T,
) ([]T, error) {
	n := h.NumNodes()
	if len(alpha) != n || len(beta) != n {
		return nil, ErrSizeMismatch
	}

	edges := h.Edges()
	out := make([]T, len(edges))
	for i := range out {
		out[i] = sr.Zero()
	}

	for _, e := range edges {
		val := sr.Mul(fx(e), alpha[e.Head])
		for _, t := range e.Tails {
			val = sr.Mul(val, beta[t])
		}
		out[e.ID] = val
	}

	return out, nil
}

func maxTail(tails []int) int {
	m := -1
	for _, t := range tails {
		if t > m {
			m = t
		}
	}

	return m
}
