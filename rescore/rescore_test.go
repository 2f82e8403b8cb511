package rescore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/rescore"
	"github.com/cicada-go/forest/vector"
)

// constFeature is a stateless feature function that adds a fixed
// feature-0 contribution per edge, independent of any child state.
type constFeature struct{ name string }

func (c constFeature) Name() string     { return c.name }
func (c constFeature) StateSize() int   { return 0 }
func (c constFeature) Apply(e hypergraph.Edge, _ []rescore.State) (rescore.State, vector.FeatureMap, float64) {
	return nil, vector.FeatureMap{1: 1.0}, 0
}

// bucketLM is a stateful feature function whose state buckets the
// number of tails seen so far into {0,1,2+}, used to exercise state
// merging/dedup.
type bucketLM struct{}

func (bucketLM) Name() string   { return "lm" }
func (bucketLM) StateSize() int { return 1 }
func (bucketLM) Apply(e hypergraph.Edge, childStates []rescore.State) (rescore.State, vector.FeatureMap, float64) {
	n := len(e.Tails)
	bucket := n
	if bucket > 2 {
		bucket = 2
	}

	return bucket, vector.FeatureMap{2: float64(n)}, float64(n)
}

func buildChain(t *testing.T) *hypergraph.Hypergraph {
	t.Helper()
	h := hypergraph.New()
	a := h.AddNode()
	b := h.AddNode()
	goal := h.AddNode()
	_, err := h.AddEdge(b, []int{a}, "r1", vector.FeatureMap{0: 1.0}, nil)
	require.NoError(t, err)
	_, err = h.AddEdge(goal, []int{b}, "r2", vector.FeatureMap{0: 2.0}, nil)
	require.NoError(t, err)
	require.NoError(t, h.SetGoal(goal))
	require.NoError(t, h.TopologicalSort())

	return h
}

func TestApply_ExactMode_SinglePath(t *testing.T) {
	h := buildChain(t)
	cfg := rescore.Config{Mode: rescore.ModeExact, Weights: vector.Weights{0: 1.0, 1: 1.0}}
	out, err := rescore.Apply(h, []rescore.FeatureFunction{constFeature{name: "f"}}, cfg)
	require.NoError(t, err)
	assert.True(t, out.Valid())
	assert.Equal(t, 3, out.NumNodes()-1) // a, b, goal-state nodes plus the synthetic goal
	assert.Equal(t, 3, out.NumEdges())
}

func TestApply_InvalidConfig_MutualExclusion(t *testing.T) {
	h := buildChain(t)
	cfg := rescore.Config{
		Mode:    rescore.ModeExact,
		Weights: vector.Weights{},
		Split:   rescore.Split{SparseOnly: true, DenseOnly: true},
	}
	_, err := rescore.Apply(h, []rescore.FeatureFunction{constFeature{name: "f"}}, cfg)
	assert.ErrorIs(t, err, rescore.ErrInvalidConfig)
}

func TestApply_NoActiveFeatureFunctions(t *testing.T) {
	h := buildChain(t)
	cfg := rescore.Config{
		Mode:    rescore.ModeExact,
		Weights: vector.Weights{},
		Split:   rescore.Split{StateFullOnly: true},
	}
	_, err := rescore.Apply(h, []rescore.FeatureFunction{constFeature{name: "f"}}, cfg)
	assert.ErrorIs(t, err, rescore.ErrInvalidConfig)
}

func TestApply_CubePruneRespectsSizeBound(t *testing.T) {
	h := hypergraph.New()
	a := h.AddNode()
	goal := h.AddNode()
	for i := 0; i < 6; i++ {
		_, err := h.AddEdge(goal, []int{a}, i, vector.FeatureMap{0: float64(i)}, nil)
		require.NoError(t, err)
	}
	require.NoError(t, h.SetGoal(goal))
	require.NoError(t, h.TopologicalSort())

	cfg := rescore.Config{Mode: rescore.ModeCubePrune, Size: 2, Weights: vector.Weights{0: 1.0}}
	out, err := rescore.Apply(h, []rescore.FeatureFunction{constFeature{name: "f"}}, cfg)
	require.NoError(t, err)
	// 1 state node for `a`, up to 2 surviving edges into the goal-state
	// node, plus the synthetic goal: at most 2 unary merge edges.
	assert.LessOrEqual(t, out.NumEdges(), 1+2+2)
}

func TestApply_IncrementalModeProducesValidGraph(t *testing.T) {
	h := buildChain(t)
	cfg := rescore.Config{Mode: rescore.ModeIncremental, Size: 4, Weights: vector.Weights{0: 1.0, 2: 1.0}}
	out, err := rescore.Apply(h, []rescore.FeatureFunction{bucketLM{}}, cfg)
	require.NoError(t, err)
	assert.True(t, out.Valid())
	require.NoError(t, out.TopologicalSort())
}

func TestApply_CubeGrowCoarseProducesValidGraph(t *testing.T) {
	h := buildChain(t)
	cfg := rescore.Config{Mode: rescore.ModeCubeGrowCoarse, Size: 3, Weights: vector.Weights{0: 1.0, 2: 1.0}}
	out, err := rescore.Apply(h, []rescore.FeatureFunction{bucketLM{}}, cfg)
	require.NoError(t, err)
	assert.True(t, out.Valid())
}
