package kbest

import (
	"container/heap"

	"github.com/cicada-go/forest/hypergraph"
)

// nodeState is the lazily grown per-node bookkeeping: the emitted
// derivation list D, the pending candidate max-heap cand, and the
// uniques set of (edge, j) pairs already pushed.
type nodeState[Y any] struct {
	D       []*Derivation[Y]
	cand    candHeap
	uniques map[jKey]struct{}
	seeded  bool
}

// Extractor is a lazy k-best derivation extractor over a single
// hypergraph (spec §4.3). Call Get repeatedly with k=0,1,... to walk
// the goal node's derivations in non-increasing weight order.
type Extractor[Y any] struct {
	h     *hypergraph.Hypergraph
	t     TraversalFunc[Y]
	w     WeightFunc
	phi   DuplicateFilter[Y]
	nodes map[int]*nodeState[Y]
}

// New builds an Extractor over h using the given traversal, weight, and
// duplicate-filter functors. phi may be nil, meaning no yields are ever
// suppressed.
func New[Y any](h *hypergraph.Hypergraph, t TraversalFunc[Y], w WeightFunc, phi DuplicateFilter[Y]) *Extractor[Y] {
	if phi == nil {
		phi = func(int, Y) bool { return false }
	}

	return &Extractor[Y]{
		h:     h,
		t:     t,
		w:     w,
		phi:   phi,
		nodes: make(map[int]*nodeState[Y]),
	}
}

// Get returns the k-th best derivation rooted at the extractor's goal
// node, or ErrExhausted once fewer than k+1 derivations exist.
func (x *Extractor[Y]) Get(k int) (*Derivation[Y], error) {
	if !x.h.Valid() {
		return nil, ErrInvalidGraph
	}
	if goal, err := x.h.Node(x.h.Goal()); err != nil || len(goal.Edges) == 0 {
		return nil, ErrInvalidGraph
	}

	return x.getKthBest(x.h.Goal(), k)
}

// GetAt is Get for an arbitrary node id, used internally for recursion
// into tails but also exposed for callers that want a sub-forest's
// k-best list directly.
func (x *Extractor[Y]) GetAt(node, k int) (*Derivation[Y], error) {
	return x.getKthBest(node, k)
}

func (x *Extractor[Y]) state(v int) *nodeState[Y] {
	st, ok := x.nodes[v]
	if !ok {
		st = &nodeState[Y]{uniques: make(map[jKey]struct{})}
		x.nodes[v] = st
	}

	return st
}

func (x *Extractor[Y]) getKthBest(v, k int) (*Derivation[Y], error) {
	st := x.state(v)
	if !st.seeded {
		x.seed(v)
		st.seeded = true
	}

	for len(st.D) <= k {
		if st.cand.Len() == 0 {
			return nil, ErrExhausted
		}
		c := heap.Pop(&st.cand).(*candidate)
		d, err := x.materialize(v, c)
		if err != nil {
			return nil, err
		}
		x.advance(v, c)
		if !x.phi(v, d.Yield) {
			st.D = append(st.D, d)
		}
	}

	return st.D[k], nil
}

// seed pushes the zero back-index-vector candidate for every incoming
// edge of v, in edge-id order (spec §4.3 determinism clause). A node with
// no incoming edges is a leaf: it gets exactly one derivation, with no
// edge (ID Invalid), the zero-value yield, and score 0 (the log-domain
// one).
func (x *Extractor[Y]) seed(v int) {
	st := x.state(v)
	node, err := x.h.Node(v)
	if err != nil {
		return
	}
	if len(node.Edges) == 0 {
		st.D = append(st.D, &Derivation[Y]{Edge: hypergraph.Edge{ID: hypergraph.Invalid, Head: v}})

		return
	}
	for _, eid := range node.Edges {
		e, err := x.h.Edge(eid)
		if err != nil {
			continue
		}
		j := make([]int, len(e.Tails))
		x.push(v, e.ID, j)
	}
}

// push computes the candidate's score (requiring every tail's j[i]-th
// derivation to already exist, recursively populating it if needed) and
// inserts it into v's candidate heap, provided (edge, j) was not
// already pushed.
func (x *Extractor[Y]) push(v, edgeID int, j []int) {
	st := x.state(v)
	key := keyOf(edgeID, j)
	if _, ok := st.uniques[key]; ok {
		return
	}

	e, err := x.h.Edge(edgeID)
	if err != nil {
		return
	}

	tailScores := make([]float64, len(e.Tails))
	for i, tailID := range e.Tails {
		td, err := x.getKthBest(tailID, j[i])
		if err != nil {
			return
		}
		tailScores[i] = td.Score
	}

	st.uniques[key] = struct{}{}
	jCopy := append([]int(nil), j...)
	heap.Push(&st.cand, &candidate{
		edgeID: edgeID,
		j:      jCopy,
		sumJ:   sumOf(jCopy),
		score:  x.w(e, tailScores),
	})
}

// advance pushes, for each tail position i, the candidate with j[i]
// incremented by one (spec §4.3 "Advance").
func (x *Extractor[Y]) advance(v int, c *candidate) {
	e, err := x.h.Edge(c.edgeID)
	if err != nil {
		return
	}
	for i := range e.Tails {
		j2 := append([]int(nil), c.j...)
		j2[i]++
		x.push(v, c.edgeID, j2)
	}
}

// materialize resolves a popped candidate into a Derivation, composing
// its yield via the traversal functor from its tails' cached yields.
func (x *Extractor[Y]) materialize(v int, c *candidate) (*Derivation[Y], error) {
	e, err := x.h.Edge(c.edgeID)
	if err != nil {
		return nil, err
	}

	tailYields := make([]Y, len(e.Tails))
	for i, tailID := range e.Tails {
		td, err := x.getKthBest(tailID, c.j[i])
		if err != nil {
			return nil, err
		}
		tailYields[i] = td.Yield
	}

	return &Derivation[Y]{
		Edge:  e,
		J:     c.j,
		Yield: x.t(e, tailYields),
		Score: c.score,
	}, nil
}
