package cliutil_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/internal/cliutil"
	"github.com/cicada-go/forest/vector"
)

func TestLoadWeightsMissingPathIsEmpty(t *testing.T) {
	w, err := cliutil.LoadWeights("")
	require.NoError(t, err)
	assert.Empty(t, w)

	w, err = cliutil.LoadWeights(filepath.Join(t.TempDir(), "missing.weights"))
	require.NoError(t, err)
	assert.Empty(t, w)
}

func TestSaveLoadWeightsRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.weights")
	want := vector.Weights{1: 0.5, 2: -1.25}

	require.NoError(t, cliutil.SaveWeights(path, want))
	got, err := cliutil.LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseWeightFlagsOverridesBase(t *testing.T) {
	base := vector.Weights{1: 1}
	out, err := cliutil.ParseWeightFlags(base, []string{"1=2.5", "2=-3"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, out[1])
	assert.Equal(t, -3.0, out[2])
	// base is untouched.
	assert.Equal(t, 1.0, base[1])
}

func TestParseWeightFlagsMalformed(t *testing.T) {
	_, err := cliutil.ParseWeightFlags(vector.NewWeights(0), []string{"bogus"})
	assert.Error(t, err)
}

func TestWeightsOne(t *testing.T) {
	w := cliutil.WeightsOne([]vector.FeatureID{1, 2, 3})
	assert.Equal(t, vector.Weights{1: 1, 2: 1, 3: 1}, w)
}
