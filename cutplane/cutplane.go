package cutplane

import (
	"github.com/cicada-go/forest/mert"
	"github.com/cicada-go/forest/vector"
)

// CuttingPlane runs spec §4.8's master-problem QP learner: state is a
// cumulative list of cutting planes, their intercepts, and dual
// multipliers; a best-weights vector and best master objective.
type CuttingPlane struct {
	cfg Config
	gr  *gram

	best         vector.Weights
	bestPhi      float64
	haveBest     bool
	improvements int

	candidates []vector.Weights
}

// New validates cfg and returns a ready CuttingPlane.
func New(cfg Config) (*CuttingPlane, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &CuttingPlane{cfg: cfg, gr: newGram()}, nil
}

// Step runs one iteration of spec §4.8's algorithm: compute a
// subgradient cutting plane at w, solve the master QP, evaluate φ,
// optionally refine with a line search or local MERT snap, and decide
// whether to accept the result or keep w as the proximal center.
func (c *CuttingPlane) Step(w vector.Weights, loss LossFunc) (StepResult, error) {
	risk, subgrad := loss(w)
	b := risk - vector.FeatureMap(w).Dot(subgrad)
	c.gr.append(Plane{A: subgrad, F: b})

	candidate, phiReduced := c.gr.solve(c.cfg.Lambda, c.cfg.qpIterations())

	refined := candidate
	if c.cfg.Search != NoSearch && len(w) > 0 {
		refined = c.refine(w, candidate, loss)
	}

	refinedRisk, _ := loss(refined)
	phi := refinedRisk + c.cfg.Lambda/2*refined.L2Norm()*refined.L2Norm()

	c.candidates = append(c.candidates, refined.Clone())

	accept := !c.haveBest || phi < c.bestPhi
	if accept {
		c.best = refined
		c.bestPhi = phi
		c.haveBest = true
		c.improvements++
	} else if phi > c.bestPhi+c.cfg.worseningThreshold() {
		// spec §4.8 step 8: keep w_prev as the proximal center, the
		// candidate stays recorded in c.candidates above but the
		// returned W is the w this step started from.
		refined = w
		phi = c.bestPhi
	}

	converged := c.improvements >= 2 &&
		absF(phi-phiReduced)/absF(phi) < c.cfg.convergenceTolerance()

	return StepResult{
		W:          refined,
		Phi:        phi,
		PhiReduced: phiReduced,
		Converged:  converged,
		Candidate:  candidate,
	}, nil
}

// refine applies the optional step-5/6 search between w_prev (w) and
// the QP's candidate solution.
func (c *CuttingPlane) refine(w, candidate vector.Weights, loss LossFunc) vector.Weights {
	d := vector.FeatureMap(candidate).Add(vector.FeatureMap(w).Scale(-1))
	if vector.FeatureMap(d).Dot(d) == 0 {
		return candidate
	}

	switch c.cfg.Search {
	case LineSearchMode:
		_, subgrad := loss(w)
		hc := []mert.HingeCandidate{{FeatureDiff: subgrad, LossDiff: 0}}
		result, err := mert.SubgradientLineSearch(w, d, hc, 0, 1)
		if err != nil {
			return candidate
		}

		return stepAlong(w, d, result.Step())
	case LocalMERTMode:
		lo, hi := c.cfg.MERTBounds[0], c.cfg.MERTBounds[1]
		if lo == 0 && hi == 0 {
			lo, hi = 0.01, 2.0
		}
		_, subgrad := loss(w)
		hc := []mert.HingeCandidate{{FeatureDiff: subgrad, LossDiff: 0}}
		result, err := mert.SubgradientLineSearch(w, d, hc, lo, hi)
		if err != nil {
			return candidate
		}

		return stepAlong(w, d, result.Step())
	default:
		return candidate
	}
}

func stepAlong(w vector.Weights, d vector.FeatureMap, k float64) vector.Weights {
	out := w.Clone()
	out.AddScaled(d, k)

	return out
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}

// Best returns the best weights and master objective observed so far.
func (c *CuttingPlane) Best() (vector.Weights, float64) {
	return c.best, c.bestPhi
}
