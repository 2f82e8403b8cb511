package rescore

import "github.com/cicada-go/forest/hypergraph"

// exactCombine enumerates every combination of child states for edge,
// with no pruning (spec §4.4: "exact under +, but exponential in state
// fan-out").
func exactCombine(fns []FeatureFunction, edge hypergraph.Edge, tailBins [][]*item, cfg Config) []*item {
	if len(edge.Tails) == 0 {
		state, features, estimate := combine(fns, edge, nil)
		score := scoreOf(cfg.Weights, features, nil)

		return []*item{{edgeID: edge.ID, state: state, features: features, estimate: estimate, score: score}}
	}

	for _, b := range tailBins {
		if len(b) == 0 {
			return nil
		}
	}

	var out []*item
	idx := make([]int, len(tailBins))
	for {
		children := make([]*item, len(tailBins))
		for i, ci := range idx {
			children[i] = tailBins[i][ci]
		}
		state, features, estimate := combine(fns, edge, children)
		score := scoreOf(cfg.Weights, features, children)
		out = append(out, &item{edgeID: edge.ID, children: children, state: state, features: features, estimate: estimate, score: score})

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(tailBins[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	return out
}
