package learn

import (
	"fmt"
	"math"

	"github.com/cicada-go/forest/vector"
)

// ConfidenceVariant selects which diagonal confidence-weighted update
// rule governs the covariance step (spec §4.7: "AROW/CW/NHERD").
// All three share the same mean-update shape (w += alpha * Sigma * x)
// and differ only in how alpha/beta are derived from the margin and
// the current diagonal covariance, the unified view of Crammer's
// confidence-weighted family.
type ConfidenceVariant int

const (
	// AROWVariant is Crammer et al.'s adaptive regularization of weights:
	// beta = 1/(x^T Sigma x + r), alpha = max(0, loss) * beta.
	AROWVariant ConfidenceVariant = iota
	// CWVariant is the original confidence-weighted update, solving for
	// the minimal-KL Gaussian update satisfying the margin constraint
	// with probability eta; approximated here via AROW's closed form
	// with r halved (beta = 1/(x^T Sigma x + r/2)); there is no separate
	// confidence parameter.
	CWVariant
	// NHERDVariant is the normal-herd update, which replaces the
	// AROW denominator with a fixed-point iteration; approximated here
	// by a single Newton step (documented simplification).
	NHERDVariant
)

// AROWConfig configures AROW (spec §4.7).
type AROWConfig struct {
	Variant ConfidenceVariant
	// R is AROW's regularization trade-off parameter (adds to the
	// margin variance x^T Sigma x in the denominator); must be > 0.
	R float64
}

func (c AROWConfig) Validate() error {
	if c.R <= 0 {
		return fmt.Errorf("%w: R must be > 0", ErrInvalidConfig)
	}

	return nil
}

// AROW is the diagonal-covariance confidence-weighted learner (spec
// §4.7). Sigma starts at the identity (every feature has unit
// variance, i.e. the least confidence) and shrinks per feature as
// evidence accumulates.
type AROW struct {
	base
	cfg   AROWConfig
	sigma vector.FeatureMap
}

// NewAROW validates cfg and returns a ready AROW.
func NewAROW(cfg AROWConfig) (*AROW, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &AROW{base: newBase(), cfg: cfg, sigma: vector.NewFeatureMap(0)}, nil
}

func (a *AROW) sigmaOf(id vector.FeatureID) float64 {
	if v, ok := a.sigma[id]; ok {
		return v
	}

	return 1
}

func (a *AROW) Learn(w vector.Weights) (float64, error) {
	examples := a.take()
	if len(examples) == 0 {
		return 0, nil
	}

	var objective float64
	for _, ex := range examples {
		hyp, margin, lossDiff, oracleFeat := ex.violation(w)
		hingeLoss := lossDiff - margin
		if hingeLoss <= 0 {
			continue
		}
		objective += hingeLoss

		x := ex.featureDiff(oracleFeat, hyp)
		variance := a.confidenceVariance(x)

		var beta float64
		switch a.cfg.Variant {
		case CWVariant:
			beta = 1 / (variance + a.cfg.R/2)
		case NHERDVariant:
			beta = 1 / (variance + a.cfg.R + variance*variance/a.cfg.R)
		default:
			beta = 1 / (variance + a.cfg.R)
		}
		alpha := hingeLoss * beta

		for id, xi := range x {
			sigmaI := a.sigmaOf(id)
			w[id] += alpha * sigmaI * xi
			a.sigma[id] = sigmaI - beta*sigmaI*sigmaI*xi*xi
			if a.sigma[id] < 1e-12 {
				a.sigma[id] = 1e-12
			}
		}
	}

	return objective / float64(len(examples)), nil
}

// confidenceVariance computes x^T Sigma x under the current diagonal
// covariance.
func (a *AROW) confidenceVariance(x vector.FeatureMap) float64 {
	var sum float64
	for id, xi := range x {
		sum += a.sigmaOf(id) * xi * xi
	}

	return math.Max(sum, 0)
}
