package mert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/mert"
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/semiring"
	"github.com/cicada-go/forest/vector"
)

type lossStat float64

func (l lossStat) Add(other scorer.Statistic) scorer.Statistic { return l + other.(lossStat) }
func (l lossStat) Sub(other scorer.Statistic) scorer.Statistic { return l - other.(lossStat) }
func (l lossStat) Loss() float64                               { return float64(l) }
func (l lossStat) Reward() float64                             { return -float64(l) }
func (l lossStat) Encode() string                              { return "loss" }

// TestSweep_SingleSegmentTwoLines exercises spec §4.9's seed scenario 6:
// two lines y=0*k+0 and y=1*k+(-0.2) on [0,2]; the optimum plateau is
// [0.2, 2] (the envelope's dominant line switches at k=0.2 and stays
// switched through the interval's right edge), with loss matching the
// rightmost line's payload throughout.
func TestSweep_SingleSegmentTwoLines(t *testing.T) {
	env := semiring.Envelope[scorer.Statistic]{
		Lines: []semiring.Line[scorer.Statistic]{
			{M: 0, B: 0, Payload: lossStat(1)},
			{M: 1, B: -0.2, Payload: lossStat(0)},
		},
	}

	result, err := mert.Sweep(
		[]semiring.Envelope[scorer.Statistic]{env},
		0, 2,
		mert.NoPenalty, 0,
		vector.Weights{1: 0}, vector.FeatureMap{1: 0},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, result.Lower, 1e-9)
	assert.InDelta(t, 2.0, result.Upper, 1e-9)
	assert.InDelta(t, 0.0, result.Objective, 1e-9)
	assert.InDelta(t, 1.1, result.Step(), 1e-9)
}

func TestSweep_RejectsInvertedInterval(t *testing.T) {
	env := semiring.Envelope[scorer.Statistic]{Lines: []semiring.Line[scorer.Statistic]{{M: 0, B: 0, Payload: lossStat(0)}}}
	_, err := mert.Sweep([]semiring.Envelope[scorer.Statistic]{env}, 2, 0, mert.NoPenalty, 0, vector.Weights{}, vector.FeatureMap{})
	require.ErrorIs(t, err, mert.ErrEmptyInterval)
}

func TestConvexHull_DropsDominatedLine(t *testing.T) {
	points := []mert.Point{
		{Slope: 0, Intercept: 0, Index: 0},
		{Slope: 1, Intercept: -0.2, Index: 1},
		{Slope: 0.5, Intercept: -5, Index: 2}, // never dominates either neighbor
	}
	hull := mert.ConvexHull(points)
	assert.Equal(t, []int{0, 1}, hull)
}

func TestSubgradientLineSearch_FindsZeroCrossing(t *testing.T) {
	// One hinge: loss=1 at k=0, deactivates once w+k*d reaches 1 along
	// the feature it is defined on, i.e. at k=1.
	candidates := []mert.HingeCandidate{
		{FeatureDiff: vector.FeatureMap{1: 1}, LossDiff: 1},
	}
	result, err := mert.SubgradientLineSearch(
		vector.Weights{1: 0}, vector.FeatureMap{1: 1}, candidates, 0, 2,
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Lower, 1e-9)
	assert.InDelta(t, 2.0, result.Upper, 1e-9)
	assert.InDelta(t, 0.0, result.Objective, 1e-9)
}

func TestRandomDirections_IncludesAxisAligned(t *testing.T) {
	dirs := mert.RandomDirections([]vector.FeatureID{1, 2}, 3, nil)
	require.Len(t, dirs, 3)
	assert.Equal(t, 1.0, dirs[0][1])
	assert.Equal(t, 1.0, dirs[1][2])
}
