package cutplane

import (
	"fmt"

	"github.com/cicada-go/forest/vector"
)

// Plane is one cutting plane (a_t, f_t) appended at an iteration: a
// subgradient of the empirical risk at the iterate it was taken from,
// and its intercept f_t = risk(w_t) - a_t.w_t (spec §4.8 step 1).
type Plane struct {
	A vector.FeatureMap
	F float64
}

// LossFunc evaluates the empirical risk and a subgradient of it at w
// (spec §4.8: "the subgradient a_t of the empirical loss"). Callers
// typically derive this from a learn.Learner's margin violations or a
// scorer aggregate; this package is agnostic to where the risk comes
// from.
type LossFunc func(w vector.Weights) (risk float64, subgrad vector.FeatureMap)

// SearchMode selects what step 5/6 of spec §4.8 does between
// successive QP iterates.
type SearchMode int

const (
	// NoSearch uses the QP solution w directly as the next iterate.
	NoSearch SearchMode = iota
	// LineSearchMode runs mert's sub-gradient line search between
	// w_prev and w along their difference direction (spec §4.8 step 5).
	LineSearchMode
	// LocalMERTMode runs mert's sub-gradient line search along
	// (w - w_prev), restricted to MERTBounds, using the risk subgradient
	// at w_prev as its only hinge. It does not build a k-best envelope:
	// LossFunc exposes no per-hypothesis k-best lists to build one from.
	LocalMERTMode
)

// Config configures CuttingPlane (spec §4.8).
type Config struct {
	// Lambda is the L2 regularization coefficient in both the master
	// QP's objective and φ(w) = risk(w) + (λ/2)||w||².
	Lambda float64

	// QPIterations bounds the dual coordinate descent sweeps solving
	// the master QP each step; 0 defaults to 100.
	QPIterations int

	// ConvergenceTolerance is spec §4.8 step 7's 0.01 relative gap
	// between φ and φ_reduced; 0 defaults to 0.01.
	ConvergenceTolerance float64

	// WorseningThreshold is spec §4.8 step 8's 0.001 worsening
	// tolerance after a line search / local MERT step; 0 defaults to
	// 0.001.
	WorseningThreshold float64

	// Search selects the optional step-5/6 refinement.
	Search SearchMode

	// MERTBounds is the snap interval used by LocalMERTMode (spec §4.8
	// step 6); the zero value defaults to [0.01, 2.0].
	MERTBounds [2]float64
}

// Validate rejects a non-positive Lambda or an inverted MERTBounds
// interval.
func (c Config) Validate() error {
	if c.Lambda <= 0 {
		return fmt.Errorf("%w: Lambda must be > 0", ErrInvalidConfig)
	}
	if c.Search == LocalMERTMode && c.MERTBounds[0] > c.MERTBounds[1] {
		return fmt.Errorf("%w: MERTBounds is inverted", ErrInvalidConfig)
	}

	return nil
}

func (c Config) qpIterations() int {
	if c.QPIterations > 0 {
		return c.QPIterations
	}

	return 100
}

func (c Config) convergenceTolerance() float64 {
	if c.ConvergenceTolerance > 0 {
		return c.ConvergenceTolerance
	}

	return 0.01
}

func (c Config) worseningThreshold() float64 {
	if c.WorseningThreshold > 0 {
		return c.WorseningThreshold
	}

	return 0.001
}

// StepResult reports one call to CuttingPlane.Step.
type StepResult struct {
	W          vector.Weights
	Phi        float64
	PhiReduced float64
	Converged  bool
	// Candidate is the QP's raw proposal before any refinement or
	// rejection under spec §4.8 step 8 ("keep w_prev... but still record
	// the candidate"); equal to W when Search is NoSearch and the step
	// was not rejected.
	Candidate vector.Weights
}
