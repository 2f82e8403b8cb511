package rescore

import "container/heap"

// queueItem is one pending (edge, j) cube-expansion candidate, mirroring
// the kbest package's candidate/uniques pattern but scored against a
// rank key that differs between cube-prune (real score) and cube-grow
// (score+estimate, spec §4.4's "first pass with non-stateful
// estimates").
type queueItem struct {
	edgeID int
	j      []int
	it     *item
	rank   float64
}

type itemQueue []*queueItem

func (q itemQueue) Len() int            { return len(q) }
func (q itemQueue) Less(i, k int) bool   { return q[i].rank > q[k].rank }
func (q itemQueue) Swap(i, k int)        { q[i], q[k] = q[k], q[i] }
func (q *itemQueue) Push(x interface{})  { *q = append(*q, x.(*queueItem)) }
func (q *itemQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return it
}

var _ = heap.Interface(&itemQueue{})
