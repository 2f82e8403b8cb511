package hypergraph

import "github.com/cicada-go/forest/vector"

// Clone returns a deep copy of h. Feature maps and attribute maps are
// copied; RuleRef handles are carried by reference, per spec §9 ("the rule
// reference ... must not be cloned during rescoring").
func (h *Hypergraph) Clone() *Hypergraph {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := &Hypergraph{goal: h.goal}
	out.nodes = make([]Node, len(h.nodes))
	for i, n := range h.nodes {
		edges := make([]int, len(n.Edges))
		copy(edges, n.Edges)
		out.nodes[i] = Node{ID: n.ID, Edges: edges}
	}
	out.edges = make([]Edge, len(h.edges))
	for i, e := range h.edges {
		tails := make([]int, len(e.Tails))
		copy(tails, e.Tails)
		out.edges[i] = Edge{
			ID:         e.ID,
			Head:       e.Head,
			Tails:      tails,
			Rule:       e.Rule,
			Features:   e.Features.Clone(),
			Attributes: e.Attributes.Merge(nil),
		}
	}

	return out
}

// Unite appends other's nodes and edges into h, offsetting ids, and merges
// the two goals by adding a unary edge from other's (offset) goal into a
// fresh node that becomes h's new goal. If h had no goal, other's (offset)
// goal becomes h's goal directly with no merge edge. Unite is a no-op on
// other if other is nil or empty.
//
// unite(h, empty) is structurally equal to h after TopologicalSort, with
// the goal preserved (spec §8 hypergraph-identity property): Unite with an
// empty graph appends nothing and the merge-edge branch is skipped since
// other's goal is Invalid.
func (h *Hypergraph) Unite(other *Hypergraph) {
	if other == nil {
		return
	}

	h.mu.Lock()
	other.mu.RLock()
	defer h.mu.Unlock()
	defer other.mu.RUnlock()

	if len(other.nodes) == 0 {
		return
	}

	nodeOffset := len(h.nodes)
	edgeOffset := len(h.edges)

	for _, n := range other.nodes {
		edges := make([]int, len(n.Edges))
		for i, e := range n.Edges {
			edges[i] = e + edgeOffset
		}
		h.nodes = append(h.nodes, Node{ID: n.ID + nodeOffset, Edges: edges})
	}
	for _, e := range other.edges {
		tails := make([]int, len(e.Tails))
		for i, t := range e.Tails {
			tails[i] = t + nodeOffset
		}
		h.edges = append(h.edges, Edge{
			ID:         e.ID + edgeOffset,
			Head:       e.Head + nodeOffset,
			Tails:      tails,
			Rule:       e.Rule,
			Features:   e.Features.Clone(),
			Attributes: e.Attributes.Merge(nil),
		})
	}

	if other.goal == Invalid {
		return
	}
	otherGoal := other.goal + nodeOffset

	if h.goal == Invalid {
		h.goal = otherGoal

		return
	}

	// Merge the two goals: a fresh node becomes the new goal, reached by one
	// unary edge from each of the two former goals.
	newGoalID := len(h.nodes)
	h.nodes = append(h.nodes, Node{ID: newGoalID})
	for _, g := range []int{h.goal, otherGoal} {
		edgeID := len(h.edges)
		h.edges = append(h.edges, Edge{
			ID:       edgeID,
			Head:     newGoalID,
			Tails:    []int{g},
			Features: vector.NewFeatureMap(0),
		})
		h.nodes[newGoalID].Edges = append(h.nodes[newGoalID].Edges, edgeID)
	}
	h.goal = newGoalID
}
