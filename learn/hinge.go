package learn

import (
	"fmt"
	"math"

	"github.com/cicada-go/forest/vector"
)

// HingeConfig configures Hinge (spec §4.7: "Hinge/Pegasos"). Regularizer
// and Schedule default to NoRegularizer and SimpleSchedule{Eta0: 1} when
// left nil.
type HingeConfig struct {
	Regularizer Regularizer
	Schedule    Schedule

	// Lambda is the Pegasos-style regularization coefficient used purely
	// to scale the projection step; leave 0 to disable projection.
	Lambda float64
}

// Validate rejects an OSCARRegularizer paired with RDA wrapping (spec
// §4.7: the cumulative-penalty contract can't represent RDA-style
// step-averaging on top of OSCAR's already-approximated pairwise term).
func (c HingeConfig) Validate() error {
	if rda, ok := c.Regularizer.(RDA); ok {
		if _, ok := rda.Inner.(OSCARRegularizer); ok {
			return fmt.Errorf("%w: RDA cannot wrap OSCARRegularizer", ErrInvalidConfig)
		}
	}

	return nil
}

// Hinge implements the structured hinge loss with a Pegasos-style
// sub-gradient update: per segment, find the cost-augmented
// most-violating hypothesis; if its hinge loss is positive, accumulate
// its feature-difference vector; average over the batch and add it to
// w, scaled by eta, after folding the regularizer's multiplicative
// decay (spec §4.7).
type Hinge struct {
	base
	cfg HingeConfig
}

// NewHinge validates cfg and returns a ready Hinge.
func NewHinge(cfg HingeConfig) (*Hinge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Regularizer == nil {
		cfg.Regularizer = NoRegularizer{}
	}
	if cfg.Schedule == nil {
		cfg.Schedule = SimpleSchedule{Eta0: 1}
	}

	return &Hinge{base: newBase(), cfg: cfg}, nil
}

func (h *Hinge) Learn(w vector.Weights) (float64, error) {
	examples := h.take()
	if len(examples) == 0 {
		return 0, nil
	}

	eta := h.cfg.Schedule.Eta(h.epoch)
	h.epoch++
	applyDecay(w, h.scale, h.cfg.Regularizer, eta)

	grad := vector.NewFeatureMap(0)
	var objective float64
	for _, ex := range examples {
		hyp, margin, lossDiff, oracleFeat := ex.violation(w)
		hingeLoss := lossDiff - margin
		if hingeLoss <= 0 {
			continue
		}
		objective += hingeLoss
		grad.AddInPlace(ex.featureDiff(oracleFeat, hyp))
	}

	k := float64(len(examples))
	w.AddScaled(grad, eta/k)
	if h.cfg.Lambda > 0 {
		projectL2Ball(w, h.cfg.Lambda)
	}

	return objective / k, nil
}

// OptimizedHingeConfig configures OptimizedHinge, the per-segment QP
// variant of spec §4.7's "optimized hinge": rather than a single
// sub-gradient step, each violating segment's step size is solved in
// closed form (the Pegasos/PA analytic QP for a single constraint),
// avoiding the need for a fixed learning rate.
type OptimizedHingeConfig struct {
	Regularizer Regularizer
	// C caps the per-segment step (the QP box constraint, spec §4.7's PA
	// variants); 0 means unconstrained.
	C float64
}

func (c OptimizedHingeConfig) Validate() error {
	if c.C < 0 {
		return fmt.Errorf("%w: C must be >= 0", ErrInvalidConfig)
	}

	return nil
}

// OptimizedHinge is the closed-form single-constraint QP hinge update
// (spec §4.7): step = hingeLoss / ||x||^2, optionally capped at C.
type OptimizedHinge struct {
	base
	cfg OptimizedHingeConfig
}

// NewOptimizedHinge validates cfg and returns a ready OptimizedHinge.
func NewOptimizedHinge(cfg OptimizedHingeConfig) (*OptimizedHinge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Regularizer == nil {
		cfg.Regularizer = NoRegularizer{}
	}

	return &OptimizedHinge{base: newBase(), cfg: cfg}, nil
}

func (h *OptimizedHinge) Learn(w vector.Weights) (float64, error) {
	examples := h.take()
	if len(examples) == 0 {
		return 0, nil
	}

	applyDecay(w, h.scale, h.cfg.Regularizer, 0)

	var objective float64
	for _, ex := range examples {
		hyp, margin, lossDiff, oracleFeat := ex.violation(w)
		hingeLoss := lossDiff - margin
		if hingeLoss <= 0 {
			continue
		}
		objective += hingeLoss

		x := ex.featureDiff(oracleFeat, hyp)
		norm2 := x.Dot(x)
		if norm2 <= 0 {
			continue
		}
		step := hingeLoss / norm2
		if h.cfg.C > 0 && step > h.cfg.C {
			step = h.cfg.C
		}
		w.AddScaled(x, step)
	}

	return objective / float64(len(examples)), nil
}

// projectL2Ball rescales w so ||w|| <= 1/sqrt(lambda), the Pegasos
// projection step.
func projectL2Ball(w vector.Weights, lambda float64) {
	radius := 1 / math.Sqrt(lambda)
	norm := w.L2Norm()
	if norm > radius {
		w.Scale(radius / norm)
	}
}
