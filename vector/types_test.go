package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cicada-go/forest/vector"
)

func TestFeatureMap_DotZeroInvariant(t *testing.T) {
	f := vector.FeatureMap{1: 2.0, 2: 3.0}
	w := vector.FeatureMap{1: 5.0, 2: 7.0}
	base := f.Dot(w)

	// Inserting a zero-valued entry into either map must not change the dot
	// product (spec §3 invariant).
	fz := f.Clone()
	fz[99] = 0
	assert.Equal(t, base, fz.Dot(w))

	wz := w.Clone()
	wz[100] = 0
	assert.Equal(t, base, f.Dot(wz))
}

func TestFeatureMap_Add(t *testing.T) {
	a := vector.FeatureMap{1: 1.0, 2: 2.0}
	b := vector.FeatureMap{2: 3.0, 3: 4.0}
	sum := a.Add(b)
	assert.Equal(t, 1.0, sum[1])
	assert.Equal(t, 5.0, sum[2])
	assert.Equal(t, 4.0, sum[3])
}

func TestFeatureMap_Compact(t *testing.T) {
	f := vector.FeatureMap{1: 0, 2: 3.0}
	c := f.Compact()
	_, ok := c[1]
	assert.False(t, ok)
	assert.Equal(t, 3.0, c[2])
}

func TestWeights_AddScaledAndNorms(t *testing.T) {
	w := vector.NewWeights(0)
	w.AddScaled(vector.FeatureMap{1: 2.0, 2: -3.0}, 1.0)
	assert.Equal(t, 2.0, w[1])
	assert.Equal(t, -3.0, w[2])
	assert.InDelta(t, 5.0, w.L1Norm(), 1e-9)
	assert.InDelta(t, 3.605551275, w.L2Norm(), 1e-6)
}

func TestWeights_Scale(t *testing.T) {
	w := vector.Weights{1: 2.0}
	w.Scale(0.5)
	assert.Equal(t, 1.0, w[1])
}
