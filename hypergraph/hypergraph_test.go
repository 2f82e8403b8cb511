package hypergraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/vector"
)

// buildChain builds n1 -> n2 -> n3 via two binary... actually unary edges,
// matching the seed scenario in spec §8 (single path, two edges).
func buildChain(t *testing.T) (*hypergraph.Hypergraph, int, int) {
	t.Helper()
	h := hypergraph.New()
	n0 := h.AddNode()
	n1 := h.AddNode()
	n2 := h.AddNode()

	e0, err := h.AddEdge(n1, []int{n0}, nil, vector.FeatureMap{1: 1.0}, nil)
	require.NoError(t, err)
	e1, err := h.AddEdge(n2, []int{n1}, nil, vector.FeatureMap{2: 1.0}, nil)
	require.NoError(t, err)

	require.NoError(t, h.SetGoal(n2))

	return h, e0, e1
}

func TestHypergraph_BasicLifecycle(t *testing.T) {
	h, _, _ := buildChain(t)
	assert.Equal(t, 3, h.NumNodes())
	assert.Equal(t, 2, h.NumEdges())
	assert.True(t, h.Valid())
}

func TestHypergraph_TopologicalSort_GoalLast(t *testing.T) {
	h := hypergraph.New()
	a := h.AddNode()
	b := h.AddNode()
	c := h.AddNode() // disconnected from the goal subgraph
	goal := h.AddNode()

	_, err := h.AddEdge(goal, []int{a, b}, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, h.SetGoal(goal))
	_ = c

	require.NoError(t, h.TopologicalSort())

	for _, e := range h.Edges() {
		for _, tl := range e.Tails {
			assert.Less(t, tl, e.Head)
		}
	}
	assert.Equal(t, h.NumNodes()-1, h.Goal())
}

func TestHypergraph_TopologicalSort_GoalUnset(t *testing.T) {
	h := hypergraph.New()
	h.AddNode()
	err := h.TopologicalSort()
	assert.ErrorIs(t, err, hypergraph.ErrGoalUnset)
}

func TestHypergraph_TopologicalSort_CycleDetected(t *testing.T) {
	h := hypergraph.New()
	a := h.AddNode()
	b := h.AddNode()
	_, err := h.AddEdge(a, []int{b}, nil, nil, nil)
	require.NoError(t, err)
	_, err = h.AddEdge(b, []int{a}, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, h.SetGoal(b))

	err = h.TopologicalSort()
	assert.ErrorIs(t, err, hypergraph.ErrCycleDetected)
}

func TestHypergraph_UniteWithEmptyIsIdentity(t *testing.T) {
	h, _, _ := buildChain(t)
	require.NoError(t, h.TopologicalSort())
	before := h.Edges()
	beforeGoal := h.Goal()

	h.Unite(hypergraph.New())

	assert.Equal(t, before, h.Edges())
	assert.Equal(t, beforeGoal, h.Goal())
}

func TestHypergraph_UniteMergesGoals(t *testing.T) {
	h1, _, _ := buildChain(t)
	h2, _, _ := buildChain(t)

	h1Nodes := h1.NumNodes()
	h1Edges := h1.NumEdges()

	h1.Unite(h2)

	assert.Equal(t, h1Nodes+h2.NumNodes()+1, h1.NumNodes())
	assert.Equal(t, h1Edges+h2.NumEdges()+2, h1.NumEdges())
	assert.Equal(t, h1.NumNodes()-1, h1.Goal())
}

func TestHypergraph_Clone(t *testing.T) {
	h, _, _ := buildChain(t)
	clone := h.Clone()
	assert.Equal(t, h.Edges(), clone.Edges())
	assert.Equal(t, h.Goal(), clone.Goal())

	// Mutating the clone's feature map must not affect the original.
	edges := clone.Edges()
	edges[0].Features[999] = 42
	orig, _ := h.Edge(0)
	_, ok := orig.Features[999]
	assert.False(t, ok)
}
