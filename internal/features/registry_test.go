package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/internal/features"
	"github.com/cicada-go/forest/vector"
)

func TestBuildAssignsDistinctIDs(t *testing.T) {
	ffs, err := features.Build([]string{"word-penalty", "rule-count"}, 100)
	require.NoError(t, err)
	require.Len(t, ffs, 2)
	assert.Equal(t, "dense:word-penalty", ffs[0].Name())
	assert.Equal(t, "sparse:rule-count", ffs[1].Name())

	_, feat0, _ := ffs[0].Apply(hypergraph.Edge{Tails: []int{1, 2}}, nil)
	_, feat1, _ := ffs[1].Apply(hypergraph.Edge{}, nil)
	assert.Contains(t, feat0, vector.FeatureID(100))
	assert.Contains(t, feat1, vector.FeatureID(101))
}

func TestBuildUnknownName(t *testing.T) {
	_, err := features.Build([]string{"bogus"}, 0)
	assert.Error(t, err)
}

func TestNamesListsRegistry(t *testing.T) {
	names := features.Names()
	assert.Contains(t, names, "word-penalty")
	assert.Contains(t, names, "rule-count")
}
