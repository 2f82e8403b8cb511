package kbest_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/kbest"
	"github.com/cicada-go/forest/vector"
)

// logWeight treats an edge's feature 0 as its own log-domain weight and
// combines additively with its tails' chosen scores (max-plus / Viterbi
// in log space).
func logWeight(e hypergraph.Edge, tailScores []float64) float64 {
	s := e.Features[0]
	for _, ts := range tailScores {
		s += ts
	}

	return s
}

// yieldConcat concatenates an edge's rule label (stored as a string
// Rule) with its tails' yields to form a flat label slice, purely for
// test observability.
func yieldConcat(e hypergraph.Edge, tailYields [][]string) []string {
	out := make([]string, 0, len(tailYields)+1)
	if label, ok := e.Rule.(string); ok {
		out = append(out, label)
	}
	for _, ty := range tailYields {
		out = append(out, ty...)
	}

	return out
}

func TestKBest_SeedScenario1_SinglePath(t *testing.T) {
	// a -> b -> goal, a single derivation of score w1+w2 (log-domain
	// product). k=0 yields it; k=1 is Exhausted.
	h := hypergraph.New()
	a := h.AddNode()
	b := h.AddNode()
	goal := h.AddNode()
	w1, w2 := math.Log(0.5), math.Log(0.25)
	_, err := h.AddEdge(b, []int{a}, "e1", vector.FeatureMap{0: w1}, nil)
	require.NoError(t, err)
	_, err = h.AddEdge(goal, []int{b}, "e2", vector.FeatureMap{0: w2}, nil)
	require.NoError(t, err)
	require.NoError(t, h.SetGoal(goal))
	require.NoError(t, h.TopologicalSort())

	x := kbest.New[[]string](h, yieldConcat, logWeight, nil)
	d0, err := x.Get(0)
	require.NoError(t, err)
	assert.InDelta(t, w1+w2, d0.Score, 1e-9)

	_, err = x.Get(1)
	assert.ErrorIs(t, err, kbest.ErrExhausted)
}

func TestKBest_SeedScenario2_TwoEdgesIntoGoal(t *testing.T) {
	h := hypergraph.New()
	a := h.AddNode()
	goal := h.AddNode()
	w6, w4 := math.Log(0.6), math.Log(0.4)
	_, err := h.AddEdge(goal, []int{a}, "high", vector.FeatureMap{0: w6}, nil)
	require.NoError(t, err)
	_, err = h.AddEdge(goal, []int{a}, "low", vector.FeatureMap{0: w4}, nil)
	require.NoError(t, err)
	require.NoError(t, h.SetGoal(goal))
	require.NoError(t, h.TopologicalSort())

	x := kbest.New[[]string](h, yieldConcat, logWeight, nil)
	d0, err := x.Get(0)
	require.NoError(t, err)
	assert.InDelta(t, w6, d0.Score, 1e-9)

	d1, err := x.Get(1)
	require.NoError(t, err)
	assert.InDelta(t, w4, d1.Score, 1e-9)

	_, err = x.Get(2)
	assert.ErrorIs(t, err, kbest.ErrExhausted)
}

func TestKBest_Monotonicity(t *testing.T) {
	h := hypergraph.New()
	a := h.AddNode()
	goal := h.AddNode()
	scores := []float64{math.Log(0.9), math.Log(0.3), math.Log(0.6), math.Log(0.1)}
	for i, s := range scores {
		_, err := h.AddEdge(goal, []int{a}, i, vector.FeatureMap{0: s}, nil)
		require.NoError(t, err)
	}
	require.NoError(t, h.SetGoal(goal))
	require.NoError(t, h.TopologicalSort())

	x := kbest.New[[]string](h, yieldConcat, logWeight, nil)
	prev := math.Inf(1)
	for k := 0; k < len(scores); k++ {
		d, err := x.Get(k)
		require.NoError(t, err)
		assert.LessOrEqual(t, d.Score, prev+1e-12)
		prev = d.Score
	}
	_, err := x.Get(len(scores))
	assert.ErrorIs(t, err, kbest.ErrExhausted)
}

func TestKBest_DuplicateFilterSuppressesYieldButStillAdvances(t *testing.T) {
	h := hypergraph.New()
	a := h.AddNode()
	goal := h.AddNode()
	_, err := h.AddEdge(goal, []int{a}, "same", vector.FeatureMap{0: math.Log(0.9)}, nil)
	require.NoError(t, err)
	_, err = h.AddEdge(goal, []int{a}, "same", vector.FeatureMap{0: math.Log(0.5)}, nil)
	require.NoError(t, err)
	require.NoError(t, h.SetGoal(goal))
	require.NoError(t, h.TopologicalSort())

	seen := map[string]bool{}
	phi := func(v int, yield []string) bool {
		key := ""
		for _, y := range yield {
			key += y
		}
		if seen[key] {
			return true
		}
		seen[key] = true

		return false
	}

	x := kbest.New[[]string](h, yieldConcat, logWeight, phi)
	d0, err := x.Get(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"same"}, d0.Yield)

	_, err = x.Get(1)
	assert.ErrorIs(t, err, kbest.ErrExhausted)
}
