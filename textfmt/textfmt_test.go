package textfmt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/textfmt"
	"github.com/cicada-go/forest/vector"
)

func TestFeatureMap_RoundTrip(t *testing.T) {
	f := vector.FeatureMap{1: 0.5, 2: -3.25, 100: 0}
	text := textfmt.EncodeFeatureMap(f)

	got, err := textfmt.DecodeFeatureMap(text)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestAttributeMap_RoundTrip(t *testing.T) {
	a := hypergraph.AttributeMap{
		"rank":  {Kind: hypergraph.AttrInt64, I: 7},
		"score": {Kind: hypergraph.AttrFloat64, F: 1.5},
		"note":  {Kind: hypergraph.AttrString, S: "hello world"},
	}
	text := textfmt.EncodeAttributeMap(a)

	got, err := textfmt.DecodeAttributeMap(text)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestHypergraph_RoundTrip(t *testing.T) {
	h := hypergraph.New()
	n0 := h.AddNode()
	n1 := h.AddNode()
	n2 := h.AddNode()
	_, err := h.AddEdge(n1, []int{n0}, "R1", vector.FeatureMap{1: 0.5}, hypergraph.AttributeMap{"k": {Kind: hypergraph.AttrInt64, I: 1}})
	require.NoError(t, err)
	_, err = h.AddEdge(n2, []int{n1}, nil, vector.FeatureMap{2: 1.0}, nil)
	require.NoError(t, err)
	require.NoError(t, h.SetGoal(n2))

	var buf bytes.Buffer
	require.NoError(t, textfmt.WriteHypergraph(&buf, h))

	got, err := textfmt.ReadHypergraph(&buf)
	require.NoError(t, err)

	assert.Equal(t, h.NumNodes(), got.NumNodes())
	assert.Equal(t, h.NumEdges(), got.NumEdges())
	assert.Equal(t, h.Goal(), got.Goal())

	wantEdges := h.Edges()
	gotEdges := got.Edges()
	for i := range wantEdges {
		assert.Equal(t, wantEdges[i].Head, gotEdges[i].Head)
		assert.Equal(t, wantEdges[i].Tails, gotEdges[i].Tails)
		assert.Equal(t, wantEdges[i].Rule, gotEdges[i].Rule)
		assert.Equal(t, wantEdges[i].Features, gotEdges[i].Features)
		assert.Equal(t, wantEdges[i].Attributes, gotEdges[i].Attributes)
	}
}

func TestKBest_RoundTrip(t *testing.T) {
	entries := []textfmt.KBestEntry{
		{SegmentID: 0, Yield: []string{"the", "cat", "sat"}, Features: vector.FeatureMap{1: 0.5}},
		{SegmentID: 0, Yield: []string{"a", "cat", "sat"}, Features: vector.FeatureMap{1: 0.25}},
		{SegmentID: 1, Yield: []string{"hello"}, Features: nil},
	}

	var buf bytes.Buffer
	require.NoError(t, textfmt.WriteKBest(&buf, entries))

	got, err := textfmt.ReadKBest(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, entries[0].Yield, got[0].Yield)
	assert.Equal(t, entries[0].Features, got[0].Features)
	assert.Equal(t, entries[2].SegmentID, got[2].SegmentID)
}

func TestKBestGzip_RoundTrip(t *testing.T) {
	entries := []textfmt.KBestEntry{
		{SegmentID: 3, Yield: []string{"x", "y"}, Features: vector.FeatureMap{5: 2.0}},
	}

	var buf bytes.Buffer
	require.NoError(t, textfmt.WriteKBestGzip(&buf, entries))

	got, err := textfmt.ReadKBestGzip(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entries[0].Yield, got[0].Yield)
}

func TestReferenceSet_RoundTrip(t *testing.T) {
	refs := textfmt.ReferenceSet{
		0: {{"the", "cat", "sat"}},
		1: {{"a", "dog", "ran"}, {"the", "dog", "ran"}},
	}

	var buf bytes.Buffer
	require.NoError(t, textfmt.WriteReferenceSet(&buf, refs))

	got, err := textfmt.ReadReferenceSet(&buf)
	require.NoError(t, err)
	assert.Equal(t, refs, got)
}

func TestLattice_SeedScenario3(t *testing.T) {
	lat, err := textfmt.ParseLattice("((('a',1.0,1),),(('b',0.5,2),('b',0.25,1)))")
	require.NoError(t, err)

	require.Len(t, lat.Positions, 2)
	assert.Len(t, lat.Positions[0].Arcs, 1)
	assert.Len(t, lat.Positions[1].Arcs, 2)
	assert.Equal(t, 2, lat.ShortestDistance())
	assert.Equal(t, 3, lat.LongestDistance())
}

func TestLattice_RejectsNonPositiveDistance(t *testing.T) {
	_, err := textfmt.ParseLattice("((('a',1.0,0),),)")
	assert.ErrorIs(t, err, textfmt.ErrParse)
}

func TestLattice_AbsorbingEmptyArcSet(t *testing.T) {
	lat, err := textfmt.ParseLattice("((('a',1.0,1),),(),)")
	require.NoError(t, err)
	require.Len(t, lat.Positions, 2)
	assert.Empty(t, lat.Positions[1].Arcs)
	assert.Equal(t, 1, lat.ShortestDistance())
	assert.Equal(t, 1, lat.LongestDistance())
}

func TestDecodeStatistic_Bleu(t *testing.T) {
	b := &scorer.Bleu{Matched: []float64{3, 2, 1, 0}, Hypothesis: []float64{3, 2, 1, 0}, RefLength: 3, HypLength: 3}
	text := b.Encode()

	got, err := textfmt.DecodeStatistic(text)
	require.NoError(t, err)
	assert.InDelta(t, b.Loss(), got.Loss(), 1e-12)
}
