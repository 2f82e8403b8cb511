package hypergraph

import "github.com/cicada-go/forest/vector"

// AddEdge appends a new hyperedge head<-tails and returns its id. The tail
// node ids and head must already exist; AddEdge does not validate
// topological order (tail id < head id) since that invariant only holds
// after TopologicalSort (spec §3).
//
// Complexity: O(|tails|) for input validation, O(1) amortized for the append.
func (h *Hypergraph) AddEdge(head int, tails []int, rule RuleRef, features vector.FeatureMap, attrs AttributeMap) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if head < 0 || head >= len(h.nodes) {
		return Invalid, ErrNodeNotFound
	}
	for _, t := range tails {
		if t < 0 || t >= len(h.nodes) {
			return Invalid, ErrNodeNotFound
		}
	}

	id := len(h.edges)
	tailsCopy := make([]int, len(tails))
	copy(tailsCopy, tails)

	if features == nil {
		features = vector.NewFeatureMap(0)
	}
	if attrs == nil {
		attrs = AttributeMap{}
	}

	h.edges = append(h.edges, Edge{
		ID:         id,
		Head:       head,
		Tails:      tailsCopy,
		Rule:       rule,
		Features:   features,
		Attributes: attrs,
	})
	h.nodes[head].Edges = append(h.nodes[head].Edges, id)

	return id, nil
}

// Edge returns a copy of the edge record for id.
func (h *Hypergraph) Edge(id int) (Edge, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if id < 0 || id >= len(h.edges) {
		return Edge{}, ErrEdgeNotFound
	}

	return h.edges[id], nil
}

// Edges returns a snapshot slice of all edges, ordered by id. K-best
// extraction's edge-iteration-order determinism (spec §4.3) relies on this
// order being stable.
func (h *Hypergraph) Edges() []Edge {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Edge, len(h.edges))
	copy(out, h.edges)

	return out
}
