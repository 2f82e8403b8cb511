package learn

import (
	"math"

	"github.com/cicada-go/forest/vector"
)

// SoftmaxConfig configures Softmax (spec §4.7).
type SoftmaxConfig struct {
	Regularizer Regularizer
	Schedule    Schedule
}

// Softmax is the log-linear / conditional-likelihood learner (spec
// §4.7): per segment, it normalizes the k-best list into a softmax
// distribution under the current weights and moves w toward the
// oracle's feature vector and away from the distribution's expected
// feature vector, the standard CRF-style gradient of negative
// log-likelihood.
type Softmax struct {
	base
	cfg SoftmaxConfig
}

// NewSoftmax returns a ready Softmax, defaulting Regularizer/Schedule.
func NewSoftmax(cfg SoftmaxConfig) *Softmax {
	if cfg.Regularizer == nil {
		cfg.Regularizer = NoRegularizer{}
	}
	if cfg.Schedule == nil {
		cfg.Schedule = SimpleSchedule{Eta0: 1}
	}

	return &Softmax{base: newBase(), cfg: cfg}
}

// softmaxWeights returns the normalized distribution over kbests under
// w, numerically stabilized by subtracting the max score.
func softmaxWeights(w vector.Weights, kbests []Hypothesis) []float64 {
	scores := make([]float64, len(kbests))
	maxScore := math.Inf(-1)
	for i, h := range kbests {
		scores[i] = w.Dot(h.Features)
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}

	var z float64
	for i := range scores {
		scores[i] = math.Exp(scores[i] - maxScore)
		z += scores[i]
	}
	if z == 0 {
		z = 1
	}
	for i := range scores {
		scores[i] /= z
	}

	return scores
}

// expectedFeatures returns E_p[features] under distribution p.
func expectedFeatures(p []float64, kbests []Hypothesis) vector.FeatureMap {
	out := vector.NewFeatureMap(0)
	for i, h := range kbests {
		if p[i] == 0 {
			continue
		}
		out.AddInPlace(h.Features.Scale(p[i]))
	}

	return out
}

func (s *Softmax) Learn(w vector.Weights) (float64, error) {
	examples := s.take()
	if len(examples) == 0 {
		return 0, nil
	}

	eta := s.cfg.Schedule.Eta(s.epoch)
	s.epoch++
	applyDecay(w, s.scale, s.cfg.Regularizer, eta)

	grad := vector.NewFeatureMap(0)
	var objective float64
	for _, ex := range examples {
		p := softmaxWeights(w, ex.kbests)
		oracleFeat := ex.oracleFeatures()
		expected := expectedFeatures(p, ex.kbests)

		grad.AddInPlace(oracleFeat)
		grad.AddInPlace(expected.Scale(-1))

		oracleScore := w.Dot(oracleFeat)
		objective += logSumExp(w, ex.kbests) - oracleScore
	}

	k := float64(len(examples))
	w.AddScaled(grad, eta/k)

	return objective / k, nil
}

// logSumExp returns log(sum_i exp(w.f_i)), used to report the
// per-segment negative log-likelihood objective.
func logSumExp(w vector.Weights, kbests []Hypothesis) float64 {
	maxScore := math.Inf(-1)
	scores := make([]float64, len(kbests))
	for i, h := range kbests {
		scores[i] = w.Dot(h.Features)
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - maxScore)
	}

	return maxScore + math.Log(sum)
}

// ExpectedLossConfig configures ExpectedLoss (spec §4.7: minimum-risk
// training).
type ExpectedLossConfig struct {
	Regularizer Regularizer
	Schedule    Schedule
	// Temperature scales the softmax distribution used to compute the
	// expectation (spec §4.7's "sharpened" risk objective); 1 leaves it
	// unchanged, values < 1 sharpen it toward the arg-max.
	Temperature float64
}

// ExpectedLoss is the minimum-risk-training learner (spec §4.7): it
// minimizes E_p[loss(h)] under the softmax distribution induced by w,
// moving w by the covariance-form gradient
// E_p[loss]*E_p[f] - E_p[loss*f].
type ExpectedLoss struct {
	base
	cfg ExpectedLossConfig
}

// NewExpectedLoss returns a ready ExpectedLoss, defaulting
// Regularizer/Schedule/Temperature.
func NewExpectedLoss(cfg ExpectedLossConfig) *ExpectedLoss {
	if cfg.Regularizer == nil {
		cfg.Regularizer = NoRegularizer{}
	}
	if cfg.Schedule == nil {
		cfg.Schedule = SimpleSchedule{Eta0: 1}
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 1
	}

	return &ExpectedLoss{base: newBase(), cfg: cfg}
}

func (e *ExpectedLoss) Learn(w vector.Weights) (float64, error) {
	examples := e.take()
	if len(examples) == 0 {
		return 0, nil
	}

	eta := e.cfg.Schedule.Eta(e.epoch)
	e.epoch++
	applyDecay(w, e.scale, e.cfg.Regularizer, eta)

	grad := vector.NewFeatureMap(0)
	var objective float64
	for _, ex := range examples {
		p := softmaxWeights(scaledWeights(w, e.cfg.Temperature), ex.kbests)

		var expectedLoss float64
		lossFeat := vector.NewFeatureMap(0)
		for i, h := range ex.kbests {
			if p[i] == 0 {
				continue
			}
			expectedLoss += p[i] * h.Loss()
			lossFeat.AddInPlace(h.Features.Scale(p[i] * h.Loss()))
		}
		expectedF := expectedFeatures(p, ex.kbests)

		objective += expectedLoss
		grad.AddInPlace(expectedF.Scale(expectedLoss))
		grad.AddInPlace(lossFeat.Scale(-1))
	}

	k := float64(len(examples))
	w.AddScaled(grad, eta/k)

	return objective / k, nil
}

// scaledWeights returns a copy of w divided by temperature, used to
// sharpen or flatten the softmax distribution used for risk
// expectations without mutating the caller's weights.
func scaledWeights(w vector.Weights, temperature float64) vector.Weights {
	if temperature == 1 {
		return w
	}
	out := w.Clone()
	out.Scale(1 / temperature)

	return out
}
