package learn

import (
	"math"

	"github.com/cicada-go/forest/vector"
)

// Schedule is a pluggable learning-rate policy; exactly one must be
// selected per learner (spec §4.7).
type Schedule interface {
	Name() string
	Eta(epoch int) float64
}

// SimpleSchedule is a constant step size.
type SimpleSchedule struct{ Eta0 float64 }

func (SimpleSchedule) Name() string       { return "simple" }
func (s SimpleSchedule) Eta(int) float64 { return s.Eta0 }

// ExponentialSchedule decays as eta0 * alpha^(epoch/n) (spec §4.7).
type ExponentialSchedule struct {
	Eta0, Alpha float64
	N           int
}

func (ExponentialSchedule) Name() string { return "exponential" }

func (s ExponentialSchedule) Eta(epoch int) float64 {
	n := s.N
	if n < 1 {
		n = 1
	}

	return s.Eta0 * math.Pow(s.Alpha, float64(epoch)/float64(n))
}

// AdaGradSchedule is per-coordinate: eta0/sqrt(sum of squared gradients
// seen so far for that feature) (spec §4.7). Eta returns Eta0 as the
// global fallback; EtaFor returns the per-coordinate rate and Accumulate
// must be called with each step's gradient to keep the running sum
// current.
type AdaGradSchedule struct {
	Eta0  float64
	accum map[vector.FeatureID]float64
}

// NewAdaGradSchedule returns an AdaGradSchedule with an empty
// accumulator.
func NewAdaGradSchedule(eta0 float64) *AdaGradSchedule {
	return &AdaGradSchedule{Eta0: eta0, accum: map[vector.FeatureID]float64{}}
}

func (*AdaGradSchedule) Name() string { return "adagrad" }

func (s *AdaGradSchedule) Eta(int) float64 { return s.Eta0 }

// Accumulate folds grad's squared entries into the running per-feature
// sum used by EtaFor.
func (s *AdaGradSchedule) Accumulate(grad vector.FeatureMap) {
	for k, g := range grad {
		s.accum[k] += g * g
	}
}

// EtaFor returns the per-coordinate step size for feature id.
func (s *AdaGradSchedule) EtaFor(id vector.FeatureID) float64 {
	a := s.accum[id]
	if a <= 0 {
		return s.Eta0
	}

	return s.Eta0 / math.Sqrt(a)
}
