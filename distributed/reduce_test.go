package distributed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cicada-go/forest/distributed"
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/semiring"
	"github.com/cicada-go/forest/vector"
)

func TestBroadcast_Independent(t *testing.T) {
	w := vector.Weights{1: 1.0}
	clone := distributed.Broadcast(w)
	clone[1] = 9.0

	assert.Equal(t, 1.0, w[1])
}

func TestReduceWeights_Sums(t *testing.T) {
	out := distributed.ReduceWeights([]vector.FeatureMap{
		{1: 1.0, 2: 2.0},
		{2: 1.0, 3: 3.0},
		nil,
	})
	assert.Equal(t, 1.0, out[1])
	assert.Equal(t, 3.0, out[2])
	assert.Equal(t, 3.0, out[3])
}

func TestReduceStatistics_SkipsNil(t *testing.T) {
	stats := []scorer.Statistic{
		nil,
		&scorer.Bleu{Matched: []float64{1}, Hypothesis: []float64{1}, RefLength: 1, HypLength: 1},
		nil,
		&scorer.Bleu{Matched: []float64{1}, Hypothesis: []float64{1}, RefLength: 1, HypLength: 1},
	}

	out := distributed.ReduceStatistics(stats)
	b := out.(*scorer.Bleu)
	assert.Equal(t, 2.0, b.RefLength)
	assert.Equal(t, 2.0, b.HypLength)
}

func TestReduceEnvelopes_MergesHulls(t *testing.T) {
	sr := semiring.EnvelopeSemiring[string]{}
	a := semiring.Envelope[string]{Lines: []semiring.Line[string]{{M: 0, B: 0, Payload: "a"}}}
	b := semiring.Envelope[string]{Lines: []semiring.Line[string]{{M: 1, B: -1, Payload: "b"}}}

	out := distributed.ReduceEnvelopes(sr, []semiring.Envelope[string]{a, b})
	assert.Len(t, out.Lines, 2)
}
