package rescore

import (
	"sort"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/vector"
)

// Apply runs the feature applier of spec §4.4 over h, which must
// already be topologically sorted and have its goal set. It returns a
// new hypergraph whose nodes are (original_node, state_signature)
// pairs: one node per distinct composite state reached at each
// original node, with one incoming edge per surviving derivation into
// that state. A node with no incoming edges becomes one edgeless node.
func Apply(h *hypergraph.Hypergraph, fns []FeatureFunction, cfg Config) (*hypergraph.Hypergraph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !h.Valid() {
		return nil, ErrInvalidGraph
	}

	active := make([]FeatureFunction, 0, len(fns))
	for _, ff := range fns {
		if cfg.selects(ff) {
			active = append(active, ff)
		}
	}
	if len(active) == 0 {
		return nil, ErrInvalidConfig
	}

	nodes := h.Nodes()
	edges := h.Edges()

	bins := make([][]*item, len(nodes))
	out := hypergraph.New()

	for _, node := range nodes {
		if len(node.Edges) == 0 {
			// A leaf yields a single item with no edge, no state and
			// score 0, so edges out of it can still be combined.
			bins[node.ID] = []*item{{edgeID: hypergraph.Invalid, nodeID: out.AddNode()}}
			continue
		}
		candidates := collectCandidates(active, node, edges, bins, cfg)

		if cfg.Mode != ModeExact && len(candidates) > cfg.Size {
			sortItemsDesc(candidates)
			candidates = candidates[:cfg.Size]
		}

		stateNode := map[string]int{}
		for _, it := range candidates {
			key := stateSignature(it.state)
			nid, ok := stateNode[key]
			if !ok {
				nid = out.AddNode()
				stateNode[key] = nid
			}
			tailIDs := make([]int, len(it.children))
			for i, c := range it.children {
				tailIDs[i] = c.nodeID
			}
			if _, err := out.AddEdge(nid, tailIDs, edges[it.edgeID].Rule, it.features, nil); err != nil {
				return nil, err
			}
			it.nodeID = nid
		}
		bins[node.ID] = candidates
	}

	goalItems := bins[h.Goal()]
	if len(goalItems) == 0 {
		return nil, ErrInvalidGraph
	}
	newGoal := out.AddNode()
	seenGoalNodes := map[int]bool{}
	for _, it := range goalItems {
		if seenGoalNodes[it.nodeID] {
			continue
		}
		seenGoalNodes[it.nodeID] = true
		if _, err := out.AddEdge(newGoal, []int{it.nodeID}, nil, vector.NewFeatureMap(0), nil); err != nil {
			return nil, err
		}
	}
	if err := out.SetGoal(newGoal); err != nil {
		return nil, err
	}

	return out, nil
}

func collectCandidates(active []FeatureFunction, node hypergraph.Node, edges []hypergraph.Edge, bins [][]*item, cfg Config) []*item {
	switch cfg.Mode {
	case ModeCubePrune:
		return cubePruneNode(active, node, edges, bins, cfg)
	case ModeCubeGrow:
		return growNode(active, node, edges, bins, cfg, false)
	case ModeCubeGrowCoarse:
		return growNode(active, node, edges, bins, cfg, true)
	}

	var out []*item
	for _, eid := range node.Edges {
		e := edges[eid]
		tailBins := make([][]*item, len(e.Tails))
		ready := true
		for i, t := range e.Tails {
			tailBins[i] = bins[t]
			if len(tailBins[i]) == 0 {
				ready = false
			}
		}
		if !ready {
			continue
		}

		switch cfg.Mode {
		case ModeExact:
			out = append(out, exactCombine(active, e, tailBins, cfg)...)
		case ModeIncremental:
			out = append(out, incrementalEdge(active, e, tailBins, cfg)...)
		}
	}

	if cfg.Mode == ModeIncremental && len(out) > 0 {
		sort.Slice(out, func(i, j int) bool { return out[i].score > out[j].score })
	}

	return out
}
