package learn

import (
	"math"

	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/vector"
)

// XBLEUConfig configures XBLEU (spec §4.7).
type XBLEUConfig struct {
	Schedule    Schedule
	Regularizer Regularizer
	// Temperature both reshapes the softmax used to take expectations and
	// weights the entropy regularizer added to the objective (spec §4.7:
	// "an entropy regularizer at temperature T" — the same T governs
	// both roles, as in the source this is grounded on).
	Temperature float64
}

// XBLEU is expected-BLEU training (spec §4.7), grounded on
// cicada_learn_online_kbest_impl.hpp's LearnXBLEU
// (original_source/progs/): per segment it takes a softmax over the
// k-best list at temperature T, then pools every hypothesis's *scorer.Bleu
// sufficient statistics — per-order matched/hypothesis n-gram counts and
// reference length, each scaled by its softmax weight — into corpus-level
// expectations. The smoothed-BLEU formula is differentiated through those
// pooled expectations (a softmax-weighted covariance between each
// n-gram-order count and the feature vector, the same shape as
// Softmax/ExpectedLoss's expectation gradients), plus the softmax
// distribution's own entropy, scaled by Temperature, as a regularizer.
// Hypotheses whose Stat is not a *scorer.Bleu contribute no statistics
// (xBLEU has nothing to differentiate for them); a segment with none
// contributes nothing at all.
type XBLEU struct {
	base
	cfg XBLEUConfig
}

// NewXBLEU returns a ready XBLEU, defaulting Regularizer/Schedule/Temperature.
func NewXBLEU(cfg XBLEUConfig) *XBLEU {
	if cfg.Regularizer == nil {
		cfg.Regularizer = NoRegularizer{}
	}
	if cfg.Schedule == nil {
		cfg.Schedule = SimpleSchedule{Eta0: 1}
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 1
	}

	return &XBLEU{base: newBase(), cfg: cfg}
}

func (x *XBLEU) Learn(w vector.Weights) (float64, error) {
	examples := x.take()
	if len(examples) == 0 {
		return 0, nil
	}

	eta := x.cfg.Schedule.Eta(x.epoch)
	x.epoch++
	applyDecay(w, x.scale, x.cfg.Regularizer, eta)

	order := scorer.MaxOrder
	cm := make([]float64, order)
	ch := make([]float64, order)
	gcm := make([]vector.FeatureMap, order)
	gch := make([]vector.FeatureMap, order)
	for n := range gcm {
		gcm[n] = vector.NewFeatureMap(0)
		gch[n] = vector.NewFeatureMap(0)
	}
	var refLen, hypLen, entropy float64
	gref := vector.NewFeatureMap(0)
	ghyp := vector.NewFeatureMap(0)
	gent := vector.NewFeatureMap(0)
	segments := 0

	scaled := scaledWeights(w, x.cfg.Temperature)
	for _, ex := range examples {
		p := softmaxWeights(scaled, ex.kbests)

		cmSeg := make([]float64, order)
		chSeg := make([]float64, order)
		var refSeg, hypSeg, entSeg float64
		exSeg := vector.NewFeatureMap(0)
		lxSeg := vector.NewFeatureMap(0)
		have := false

		for i, h := range ex.kbests {
			if p[i] == 0 {
				continue
			}
			b, ok := h.Stat.(*scorer.Bleu)
			if !ok {
				continue
			}
			have = true

			exSeg.AddInPlace(h.Features.Scale(p[i]))
			lp := math.Log(p[i])
			entSeg -= p[i] * lp
			lxSeg.AddInPlace(h.Features.Scale(p[i] * lp))

			for n := 0; n < order && n < len(b.Matched); n++ {
				cmSeg[n] += p[i] * b.Matched[n]
				chSeg[n] += p[i] * b.Hypothesis[n]
				gcm[n].AddInPlace(h.Features.Scale(p[i] * b.Matched[n]))
				gch[n].AddInPlace(h.Features.Scale(p[i] * b.Hypothesis[n]))
			}
			refSeg += p[i] * b.RefLength
			hypSeg += p[i] * b.HypLength
			gref.AddInPlace(h.Features.Scale(p[i] * b.RefLength))
			ghyp.AddInPlace(h.Features.Scale(p[i] * b.HypLength))
		}
		if !have {
			continue
		}
		segments++

		// Each pooled expectation's gradient is a softmax-weighted
		// covariance: d E[c]/dw = E[c*x] - E[c]*E[x] (scaled by 1/T,
		// folded in once below). Subtracting the segment's own E[x]
		// keeps each segment's softmax normalization local to itself.
		for n := 0; n < order; n++ {
			cm[n] += cmSeg[n]
			ch[n] += chSeg[n]
			gcm[n].AddInPlace(exSeg.Scale(-cmSeg[n]))
			gch[n].AddInPlace(exSeg.Scale(-chSeg[n]))
		}
		refLen += refSeg
		hypLen += hypSeg
		gref.AddInPlace(exSeg.Scale(-refSeg))
		ghyp.AddInPlace(exSeg.Scale(-hypSeg))

		// d(entropy)/dw = -(1/T) * (E[x*log p] + entropy*E[x]); the
		// same covariance shape as the count gradients above, with
		// log p standing in for the per-order counts.
		entropy += entSeg
		gent.AddInPlace(lxSeg.Scale(-1))
		gent.AddInPlace(exSeg.Scale(-entSeg))
	}
	if segments == 0 {
		return 0, nil
	}

	// Smooth a zero matched count the same way scorer.Bleu.Score does.
	for n := 0; n < order; n++ {
		if ch[n] > 0 && cm[n] <= 0 {
			cm[n] = scorer.SmoothBase * math.Pow(scorer.SmoothGrowth, float64(n))
		}
	}

	var logP float64
	activeOrders := 0
	for n := 0; n < order; n++ {
		if ch[n] > 0 {
			logP += math.Log(cm[n] / ch[n])
			activeOrders++
		}
	}
	if activeOrders == 0 || hypLen <= 0 {
		return 0, nil
	}
	logP /= float64(activeOrders)
	expP := math.Exp(logP)

	brevity := 1.0
	brevityActive := hypLen < refLen
	if brevityActive {
		brevity = math.Exp(1 - refLen/hypLen)
	}

	objectiveBLEU := expP * brevity
	entropyAvg := entropy / float64(segments)
	objective := objectiveBLEU + x.cfg.Temperature*entropyAvg

	grad := vector.NewFeatureMap(0)
	factor := objectiveBLEU / float64(activeOrders)
	for n := 0; n < order; n++ {
		if ch[n] <= 0 {
			continue
		}
		grad.AddInPlace(gcm[n].Scale(factor / cm[n]))
		grad.AddInPlace(gch[n].Scale(-factor / ch[n]))
	}
	if brevityActive {
		// d(brevity)/dw = -brevity * d(refLen/hypLen)/dw.
		dRatio := gref.Scale(1 / hypLen)
		dRatio.AddInPlace(ghyp.Scale(-refLen / (hypLen * hypLen)))
		grad.AddInPlace(dRatio.Scale(-expP * brevity))
	}
	grad = grad.Scale(1 / x.cfg.Temperature)

	// Temperature cancels here: the entropy term contributes
	// Temperature * d(entropyAvg)/dw, and d(entropyAvg)/dw already
	// carries a 1/Temperature factor from the softmax derivative.
	grad.AddInPlace(gent.Scale(1 / float64(segments)))

	w.AddScaled(grad, eta)

	return objective, nil
}
