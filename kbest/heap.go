package kbest

import "container/heap"

// candidate is a pending (edge, j) pair waiting to be popped into a
// node's emitted list, scored eagerly at push time, after push has
// resolved (recursively computing where needed) every tail derivation it
// references.
type candidate struct {
	edgeID int
	j      []int
	sumJ   int
	score  float64
}

// candHeap is a max-heap over candidates, ordered by descending score
// and, on ties, ascending sumJ (spec §4.3: "tie-break prefers smaller
// Σjᵢ").
type candHeap []*candidate

func (h candHeap) Len() int { return len(h) }

func (h candHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}

	return h[i].sumJ < h[j].sumJ
}

func (h candHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candHeap) Push(x interface{}) { *h = append(*h, x.(*candidate)) }

func (h *candHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return item
}

func sumOf(j []int) int {
	s := 0
	for _, v := range j {
		s += v
	}

	return s
}

// jKey encodes an (edge, j) pair into a comparable map key for the
// uniques set (spec §4.3: "a set of (edge, j) pairs already pushed into
// cand, never re-push").
type jKey struct {
	edgeID int
	jStr   string
}

func keyOf(edgeID int, j []int) jKey {
	b := make([]byte, 0, len(j)*4)
	for _, v := range j {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}

	return jKey{edgeID: edgeID, jStr: string(b)}
}

var _ = heap.Interface(&candHeap{})
