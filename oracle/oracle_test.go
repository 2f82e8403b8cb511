package oracle_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/oracle"
	"github.com/cicada-go/forest/scorer"
)

// fakeStat is a minimal additive statistic carrying a single scalar
// reward, used to exercise the oracle selector independent of BLEU.
type fakeStat struct{ v float64 }

func (f fakeStat) Add(other scorer.Statistic) scorer.Statistic {
	return fakeStat{v: f.v + other.(fakeStat).v}
}
func (f fakeStat) Sub(other scorer.Statistic) scorer.Statistic {
	return fakeStat{v: f.v - other.(fakeStat).v}
}
func (f fakeStat) Loss() float64   { return 1 - f.v }
func (f fakeStat) Reward() float64 { return f.v }
func (f fakeStat) Encode() string  { return "fake" }

func TestOracle_SeedScenario5(t *testing.T) {
	// Each segment has a (loss 0.5 -> reward 0.5) and a (loss 0.1 ->
	// reward 0.9) hypothesis; the 1-best set is the first of each.
	segments := [][]scorer.Statistic{
		{fakeStat{v: 0.5}, fakeStat{v: 0.9}},
		{fakeStat{v: 0.5}, fakeStat{v: 0.9}},
	}

	oneBest := fakeStat{}.Add(segments[0][0]).Add(segments[1][0]).Reward()

	result, err := oracle.Select(segments, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, []int{1}, result.Selection[0])
	assert.Equal(t, []int{1}, result.Selection[1])
	assert.Greater(t, result.Reward, oneBest)
}

func TestOracle_EmptySegmentsRejected(t *testing.T) {
	_, err := oracle.Select(nil, nil)
	assert.ErrorIs(t, err, oracle.ErrNoSegments)

	_, err = oracle.Select([][]scorer.Statistic{{}}, nil)
	assert.ErrorIs(t, err, oracle.ErrEmptySegment)
}

func TestOracle_TiesArePreserved(t *testing.T) {
	segments := [][]scorer.Statistic{
		{fakeStat{v: 0.5}, fakeStat{v: 0.5}, fakeStat{v: 0.1}},
	}
	result, err := oracle.Select(segments, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, result.Selection[0])
}
