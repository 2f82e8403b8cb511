package hypergraph

import "context"

// topoState tags a node's visitation state during TopologicalSort's DFS.
type topoState int

const (
	topoWhite topoState = iota
	topoGray
	topoBlack
)

// TopoOption configures TopologicalSort.
type TopoOption func(*topoOptions)

type topoOptions struct {
	ctx context.Context
}

// WithContext sets a cancellation context for TopologicalSort. A nil
// context is a no-op (Background is retained).
func WithContext(ctx context.Context) TopoOption {
	return func(o *topoOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// TopologicalSort reorders nodes in place so that, for every edge, all of
// its tails precede its head, and the goal node (if set) ends up last
// (spec §3). It reassigns node ids to match the new order and rewrites
// every edge's head and tails accordingly; edges keep their ids and
// positions. Callers must discard any node id captured before calling
// this.
//
// Returns ErrGoalUnset if the goal has not been assigned, ErrCycleDetected
// if the tail/head relation is not acyclic.
func (h *Hypergraph) TopologicalSort(opts ...TopoOption) error {
	cfg := topoOptions{ctx: context.Background()}
	for _, o := range opts {
		o(&cfg)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.goal == Invalid {
		return ErrGoalUnset
	}

	n := len(h.nodes)
	state := make([]topoState, n)
	order := make([]int, 0, n)

	var visit func(id int) error
	visit = func(id int) error {
		select {
		case <-cfg.ctx.Done():
			return cfg.ctx.Err()
		default:
		}
		switch state[id] {
		case topoBlack:
			return nil
		case topoGray:
			return ErrCycleDetected
		}
		state[id] = topoGray
		for _, eid := range h.nodes[id].Edges {
			for _, t := range h.edges[eid].Tails {
				if err := visit(t); err != nil {
					return err
				}
			}
		}
		state[id] = topoBlack
		order = append(order, id)

		return nil
	}

	for id := 0; id < n; id++ {
		if id == h.goal {
			continue
		}
		if state[id] == topoWhite {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	if state[h.goal] == topoWhite {
		if err := visit(h.goal); err != nil {
			return err
		}
	}

	// order now lists every node exactly once, tails before heads, goal last.
	oldToNew := make([]int, n)
	for newID, oldID := range order {
		oldToNew[oldID] = newID
	}

	newNodes := make([]Node, n)
	for newID, oldID := range order {
		old := h.nodes[oldID]
		remappedEdges := make([]int, len(old.Edges))
		copy(remappedEdges, old.Edges)
		newNodes[newID] = Node{ID: newID, Edges: remappedEdges}
	}

	for i := range h.edges {
		h.edges[i].Head = oldToNew[h.edges[i].Head]
		for j, t := range h.edges[i].Tails {
			h.edges[i].Tails[j] = oldToNew[t]
		}
	}

	h.nodes = newNodes
	h.goal = oldToNew[h.goal]

	return nil
}
