package rescore

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/cicada-go/forest/hypergraph"
)

// cubePruneNode runs spec §4.4's lazy cube-pruning expansion across all
// of node's incoming edges at once: every edge seeds the (0,...,0)
// back-index vector, a shared max-heap pops the globally best pending
// candidate, and popping advances that candidate's neighbors (exactly
// the kbest seed/advance/uniques discipline, capped at cfg.Size pops
// instead of a k-th query). Diversity and rejection sampling, when
// enabled, are applied at acceptance time.
func cubePruneNode(fns []FeatureFunction, node hypergraph.Node, edges []hypergraph.Edge, bins [][]*item, cfg Config) []*item {
	uniques := map[string]bool{}
	q := &itemQueue{}

	push := func(edgeID int, j []int) {
		key := fmt.Sprintf("%d|%v", edgeID, j)
		if uniques[key] {
			return
		}
		uniques[key] = true

		e := edges[edgeID]
		children := make([]*item, len(e.Tails))
		for i, t := range e.Tails {
			if j[i] >= len(bins[t]) {
				return
			}
			children[i] = bins[t][j[i]]
		}
		state, features, estimate := combine(fns, e, children)
		score := scoreOf(cfg.Weights, features, children)
		it := &item{edgeID: edgeID, children: children, state: state, features: features, estimate: estimate, score: score}
		heap.Push(q, &queueItem{edgeID: edgeID, j: append([]int(nil), j...), it: it, rank: score})
	}

	for _, eid := range node.Edges {
		e := edges[eid]
		ready := true
		for _, t := range e.Tails {
			if len(bins[t]) == 0 {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		push(eid, make([]int, len(e.Tails)))
	}

	var out []*item
	classCounts := map[string]int{}
	for q.Len() > 0 && len(out) < cfg.Size {
		qi := heap.Pop(q).(*queueItem)

		if cfg.Diversity > 0 {
			key := stateSignature(qi.it.state)
			c := classCounts[key]
			qi.it.score -= cfg.Diversity * float64(c)
			classCounts[key] = c + 1
		}

		accept := true
		if cfg.Rejection {
			accept = rejectionAccept(cfg.rng(), qi.it.score, out)
		}
		if accept {
			out = append(out, qi.it)
		}

		for i := range qi.j {
			j2 := append([]int(nil), qi.j...)
			j2[i]++
			push(qi.edgeID, j2)
		}
	}

	sortItemsDesc(out)

	return out
}

// growNode implements cube-grow / cube-grow-coarse (spec §4.4): the
// expansion frontier is ranked by score+estimate (a cheap, state-less
// heuristic) rather than the real score alone, so cheap-but-promising
// candidates are explored before their exact state is resolved; the
// coarse variant emits at most one item per coarsened state signature
// (only the first feature function's state): a popped item whose class
// was already emitted is skipped, though its neighbors are still pushed.
func growNode(fns []FeatureFunction, node hypergraph.Node, edges []hypergraph.Edge, bins [][]*item, cfg Config, coarse bool) []*item {
	uniques := map[string]bool{}
	q := &itemQueue{}

	signature := stateSignature
	if coarse {
		signature = coarseSignature
	}

	push := func(edgeID int, j []int) {
		key := fmt.Sprintf("%d|%v", edgeID, j)
		if uniques[key] {
			return
		}
		uniques[key] = true

		e := edges[edgeID]
		children := make([]*item, len(e.Tails))
		for i, t := range e.Tails {
			if j[i] >= len(bins[t]) {
				return
			}
			children[i] = bins[t][j[i]]
		}
		state, features, estimate := combine(fns, e, children)
		score := scoreOf(cfg.Weights, features, children)
		it := &item{edgeID: edgeID, children: children, state: state, features: features, estimate: estimate, score: score}
		heap.Push(q, &queueItem{edgeID: edgeID, j: append([]int(nil), j...), it: it, rank: score + estimate})
	}

	for _, eid := range node.Edges {
		e := edges[eid]
		ready := true
		for _, t := range e.Tails {
			if len(bins[t]) == 0 {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}
		push(eid, make([]int, len(e.Tails)))
	}

	var out []*item
	seenClasses := map[string]bool{}
	for q.Len() > 0 && len(out) < cfg.Size {
		qi := heap.Pop(q).(*queueItem)

		cls := signature(qi.it.state)
		if coarse && seenClasses[cls] {
			// Coarse grouping: a representative of this equivalence
			// class already survived; skip emitting another but still
			// advance to keep exploring the frontier.
		} else {
			seenClasses[cls] = true
			out = append(out, qi.it)
		}

		for i := range qi.j {
			j2 := append([]int(nil), qi.j...)
			j2[i]++
			push(qi.edgeID, j2)
		}
	}

	sortItemsDesc(out)

	return out
}

func coarseSignature(s []State) string {
	if len(s) == 0 {
		return ""
	}

	return fmt.Sprint(s[0])
}

func sortItemsDesc(items []*item) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].score > items[j-1].score; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// rejectionAccept implements cube-prune's rejection-sampling variant
// (spec §4.4): a candidate is accepted with probability
// exp(score-best), where best is the highest score already accepted
// into the beam (1.0 when the beam is still empty).
func rejectionAccept(rng interface{ Float64() float64 }, score float64, accepted []*item) bool {
	if len(accepted) == 0 {
		return true
	}
	best := accepted[0].score
	p := math.Exp(score - best)
	if p > 1 {
		p = 1
	}

	return rng.Float64() < p
}
