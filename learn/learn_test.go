package learn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/learn"
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/vector"
)

// fakeStat is a minimal scorer.Statistic with a fixed, caller-chosen
// loss/reward, used so tests can control margin violations exactly.
type fakeStat struct{ loss float64 }

func (f fakeStat) Add(other scorer.Statistic) scorer.Statistic {
	return fakeStat{loss: f.loss + other.(fakeStat).loss}
}
func (f fakeStat) Sub(other scorer.Statistic) scorer.Statistic {
	return fakeStat{loss: f.loss - other.(fakeStat).loss}
}
func (f fakeStat) Loss() float64     { return f.loss }
func (f fakeStat) Reward() float64   { return 1 - f.loss }
func (f fakeStat) Encode() string    { return "fake" }

// segment builds one training segment: the oracle (lowest loss) is
// index 0, a worse hypothesis is index 1.
func segment() ([]learn.Hypothesis, []int) {
	oracle := learn.NewHypothesis(
		[]string{"a"},
		vector.FeatureMap{1: 1, 2: 0},
		fakeStat{loss: 0},
	)
	rival := learn.NewHypothesis(
		[]string{"b"},
		vector.FeatureMap{1: 0, 2: 1},
		fakeStat{loss: 1},
	)

	return []learn.Hypothesis{oracle, rival}, []int{0}
}

func allLearners(t *testing.T) map[string]learn.Learner {
	t.Helper()

	hinge, err := learn.NewHinge(learn.HingeConfig{})
	require.NoError(t, err)
	optHinge, err := learn.NewOptimizedHinge(learn.OptimizedHingeConfig{})
	require.NoError(t, err)
	mira, err := learn.NewMIRA(learn.MIRAConfig{})
	require.NoError(t, err)
	arow, err := learn.NewAROW(learn.AROWConfig{R: 1})
	require.NoError(t, err)

	return map[string]learn.Learner{
		"hinge":          hinge,
		"optimizedHinge": optHinge,
		"mira":           mira,
		"arow":           arow,
		"softmax":        learn.NewSoftmax(learn.SoftmaxConfig{}),
		"expectedLoss":   learn.NewExpectedLoss(learn.ExpectedLossConfig{}),
		"xbleu":          learn.NewXBLEU(learn.XBLEUConfig{}),
	}
}

func TestLearners_NoDataIsNoOp(t *testing.T) {
	for name, l := range allLearners(t) {
		t.Run(name, func(t *testing.T) {
			l.Initialize()
			w := vector.NewWeights(0)
			obj, err := l.Learn(w)
			require.NoError(t, err)
			assert.Equal(t, 0.0, obj)
			assert.Empty(t, w)

			l.Finalize(w)
			assert.Empty(t, w)
		})
	}
}

func TestLearners_MoveWeightTowardOracle(t *testing.T) {
	kbests, oracleIdx := segment()

	for name, l := range allLearners(t) {
		if name == "xbleu" {
			// xbleu differentiates through *scorer.Bleu sufficient
			// statistics rather than a generic Statistic; see
			// TestXBLEU_MoveWeightTowardOracle below.
			continue
		}

		t.Run(name, func(t *testing.T) {
			l.Initialize()
			w := vector.NewWeights(0)
			l.Encode(0, kbests, oracleIdx)

			obj, err := l.Learn(w)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, obj, 0.0)

			l.Finalize(w)
			// every learner should move weight 1 up (oracle-only feature)
			// and weight 2 down (rival-only feature) relative to each
			// other, since the oracle strictly dominates on loss.
			assert.Greater(t, w[1], w[2])
		})
	}
}

// bleuSegment builds one training segment scored by real *scorer.Bleu
// statistics: the oracle is a perfect match (matched == hypothesis
// counts, no brevity penalty), the rival matches nothing at its only
// active order, so xbleu's pooled expected-count gradient should favor
// the oracle's distinguishing feature.
func bleuSegment() ([]learn.Hypothesis, []int) {
	oracleBleu := &scorer.Bleu{Matched: []float64{2}, Hypothesis: []float64{2}, RefLength: 2, HypLength: 2}
	rivalBleu := &scorer.Bleu{Matched: []float64{0}, Hypothesis: []float64{2}, RefLength: 2, HypLength: 2}

	oracle := learn.NewHypothesis([]string{"a"}, vector.FeatureMap{1: 1}, oracleBleu)
	rival := learn.NewHypothesis([]string{"b"}, vector.FeatureMap{2: 1}, rivalBleu)

	return []learn.Hypothesis{oracle, rival}, []int{0}
}

func TestXBLEU_MoveWeightTowardOracle(t *testing.T) {
	kbests, oracleIdx := bleuSegment()

	l := learn.NewXBLEU(learn.XBLEUConfig{})
	l.Initialize()
	w := vector.NewWeights(0)
	l.Encode(0, kbests, oracleIdx)

	obj, err := l.Learn(w)
	require.NoError(t, err)
	assert.Greater(t, obj, 0.0)

	l.Finalize(w)
	assert.Greater(t, w[1], w[2])
}

func TestHinge_RejectsRDAWrappedOSCAR(t *testing.T) {
	_, err := learn.NewHinge(learn.HingeConfig{
		Regularizer: learn.RDA{Inner: learn.OSCARRegularizer{L1Lambda: 1}},
	})
	require.ErrorIs(t, err, learn.ErrInvalidConfig)
}

func TestMIRAConfig_RequiresPositiveCForPA(t *testing.T) {
	_, err := learn.NewMIRA(learn.MIRAConfig{Variant: learn.PA1, C: 0})
	require.ErrorIs(t, err, learn.ErrInvalidConfig)
}

func TestScaleState_DeferredDecayMatchesEagerApplication(t *testing.T) {
	s := learn.NewScaleState()
	s.Initialize()
	s.Decay(0.5)
	s.Decay(0.5)

	w := vector.Weights{1: 4}
	s.Finalize(w)
	assert.InDelta(t, 1.0, w[1], 1e-9)
}

func TestRegularizer_L1ClipsTowardZero(t *testing.T) {
	r := learn.L1Regularizer{Lambda: 0.1}
	assert.InDelta(t, 0.4, r.ClipL1(0.5, 0.1), 1e-9)
	assert.InDelta(t, 0.0, r.ClipL1(0.05, 0.1), 1e-9)
	assert.InDelta(t, -0.4, r.ClipL1(-0.5, 0.1), 1e-9)
}

func TestSchedule_AdaGradSlowsHighGradientFeatures(t *testing.T) {
	s := learn.NewAdaGradSchedule(1.0)
	s.Accumulate(vector.FeatureMap{1: 2, 2: 0.1})
	assert.Less(t, s.EtaFor(1), s.EtaFor(2))
}
