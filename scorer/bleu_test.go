package scorer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/scorer"
)

func tok(s string) []string { return strings.Fields(s) }

func TestBleu_SeedScenario4_IdenticalSentence(t *testing.T) {
	sc := scorer.NewBleuScorer([][]string{tok("the cat sat")}, 4)
	stat, err := sc.Score(tok("the cat sat"))
	require.NoError(t, err)

	b := stat.(*scorer.Bleu)
	assert.Equal(t, []float64{3, 2, 1, 0}, b.Matched)
	assert.Equal(t, []float64{3, 2, 1, 0}, b.Hypothesis)
	assert.Equal(t, 3.0, b.RefLength)
	assert.InDelta(t, 0.0, b.Loss(), 1e-9)
}

func TestBleu_AddSubRoundTrip(t *testing.T) {
	sc := scorer.NewBleuScorer([][]string{tok("the cat sat on the mat")}, 4)
	a, err := sc.Score(tok("the cat sat"))
	require.NoError(t, err)
	bStat, err := sc.Score(tok("the mat"))
	require.NoError(t, err)

	corpus := a.Add(bStat)
	back := corpus.Sub(bStat)

	encodedA := a.Encode()
	decodedA, err := scorer.DecodeBleu(encodedA)
	require.NoError(t, err)
	assert.Equal(t, a.(*scorer.Bleu).Matched, decodedA.Matched)
	assert.Equal(t, a.(*scorer.Bleu).Hypothesis, decodedA.Hypothesis)

	assert.Equal(t, a.(*scorer.Bleu).Matched, back.(*scorer.Bleu).Matched)
}

func TestBleu_ZeroMatchIsSmoothedNotNaN(t *testing.T) {
	sc := scorer.NewBleuScorer([][]string{tok("completely different words entirely")}, 4)
	stat, err := sc.Score(tok("the cat sat down now"))
	require.NoError(t, err)

	score := stat.Reward()
	assert.False(t, scoreIsNaN(score))
	assert.GreaterOrEqual(t, score, 0.0)
}

func scoreIsNaN(f float64) bool { return f != f }

func TestBleu_EmptyHypothesisScoresZero(t *testing.T) {
	sc := scorer.NewBleuScorer([][]string{tok("the cat sat")}, 4)
	stat, err := sc.Score(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stat.Reward())
}
