package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/vector"
)

func TestGram_QuadFormMatchesDirectNorm(t *testing.T) {
	rows := []vector.FeatureMap{
		{1: 1.0, 2: 2.0},
		{1: 0.5, 3: -1.0},
	}
	g := vector.NewGram(rows)
	alpha := []float64{2.0, 3.0}

	w := g.WeightFrom(alpha)
	var want float64
	for _, v := range w {
		want += v * v
	}

	assert.InDelta(t, want, g.QuadForm(alpha), 1e-9)
}

func TestGram_SolveSPD(t *testing.T) {
	rows := []vector.FeatureMap{
		{1: 1.0},
		{2: 1.0},
	}
	g := vector.NewGram(rows)
	x, err := g.SolveSPD([]float64{1.0, 2.0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x[0], 1e-9)
	assert.InDelta(t, 2.0, x[1], 1e-9)
}

func TestGram_DimensionMismatch(t *testing.T) {
	g := vector.NewGram([]vector.FeatureMap{{1: 1.0}})
	_, err := g.SolveSPD([]float64{1.0, 2.0})
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}
