package rescore

import (
	"sort"

	"github.com/cicada-go/forest/hypergraph"
)

// incrementalEdge implements spec §4.4's incremental variant for one
// edge: a beam of partial tail-index choices is grown one tail at a
// time, left to right, re-scored (against a placeholder completion of
// the still-unchosen tails) and re-pruned to cfg.Size after every tail,
// before the final, fully-chosen combinations are materialized for
// real. When cfg.PruneBin is set, the re-prune step caps each distinct
// partial-state bin independently rather than the beam as a whole.
func incrementalEdge(fns []FeatureFunction, edge hypergraph.Edge, bins [][]*item, cfg Config) []*item {
	if len(edge.Tails) == 0 {
		state, features, estimate := combine(fns, edge, nil)
		score := scoreOf(cfg.Weights, features, nil)

		return []*item{{edgeID: edge.ID, state: state, features: features, estimate: estimate, score: score}}
	}

	for _, b := range bins {
		if len(b) == 0 {
			return nil
		}
	}

	beam := [][]int{{}}
	for t := 0; t < len(edge.Tails); t++ {
		var next [][]int
		for _, prefix := range beam {
			for ci := range bins[t] {
				idx := append(append([]int(nil), prefix...), ci)
				next = append(next, idx)
			}
		}

		type scored struct {
			idx   []int
			score float64
			bin   string
		}
		scoredList := make([]scored, 0, len(next))
		for _, idx := range next {
			children := placeholderChildren(bins, edge, idx)
			_, features, _ := combine(fns, edge, children)
			sig := stateSignature(placeholderState(bins, idx))
			scoredList = append(scoredList, scored{idx: idx, score: scoreOf(cfg.Weights, features, children), bin: sig})
		}
		sort.Slice(scoredList, func(i, j int) bool { return scoredList[i].score > scoredList[j].score })

		beam = beam[:0]
		if cfg.PruneBin {
			binCounts := map[string]int{}
			for _, s := range scoredList {
				if binCounts[s.bin] >= cfg.Size {
					continue
				}
				binCounts[s.bin]++
				beam = append(beam, s.idx)
			}
		} else {
			for i, s := range scoredList {
				if i >= cfg.Size {
					break
				}
				beam = append(beam, s.idx)
			}
		}
	}

	out := make([]*item, 0, len(beam))
	for _, idx := range beam {
		children := make([]*item, len(edge.Tails))
		for i, ci := range idx {
			children[i] = bins[i][ci]
		}
		state, features, estimate := combine(fns, edge, children)
		score := scoreOf(cfg.Weights, features, children)
		out = append(out, &item{edgeID: edge.ID, children: children, state: state, features: features, estimate: estimate, score: score})
	}

	return out
}

// placeholderChildren fills in idx's chosen items for the tails already
// decided and the first (rank-0) item for tails not yet reached, so a
// partial prefix can still be scored against the full Apply signature.
func placeholderChildren(bins [][]*item, edge hypergraph.Edge, idx []int) []*item {
	children := make([]*item, len(edge.Tails))
	for i := range children {
		if i < len(idx) {
			children[i] = bins[i][idx[i]]
		} else {
			children[i] = bins[i][0]
		}
	}

	return children
}

func placeholderState(bins [][]*item, idx []int) []State {
	var out []State
	for i, ci := range idx {
		out = append(out, bins[i][ci].state...)
	}

	return out
}
