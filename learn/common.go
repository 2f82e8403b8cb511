package learn

import "github.com/cicada-go/forest/vector"

// example is one segment's accumulated training data: its full k-best
// list and the indices the oracle package selected as ties for "the"
// oracle hypothesis.
type example struct {
	kbests    []Hypothesis
	oracleIdx []int
}

// oracleFeatures averages the feature maps of the tying oracle
// hypotheses, giving every learner a single representative "oracle"
// feature vector per segment.
func (e example) oracleFeatures() vector.FeatureMap {
	out := vector.NewFeatureMap(0)
	if len(e.oracleIdx) == 0 {
		return out
	}
	for _, idx := range e.oracleIdx {
		out.AddInPlace(e.kbests[idx].Features)
	}

	return out.Scale(1 / float64(len(e.oracleIdx)))
}

// oracleLoss averages the cached loss of the tying oracle hypotheses.
func (e example) oracleLoss() float64 {
	if len(e.oracleIdx) == 0 {
		return 0
	}
	var sum float64
	for _, idx := range e.oracleIdx {
		sum += e.kbests[idx].Loss()
	}

	return sum / float64(len(e.oracleIdx))
}

// violation runs cost-augmented decoding under w: it picks the
// hypothesis maximizing (loss(h) - oracleLoss) - (oracleScore -
// score(h)), the standard margin-rescaled structured-hinge/MIRA
// violation used by every margin-based learner in this package. margin
// is oracleScore - score(h); lossDiff is h.Loss() - oracleLoss.
func (e example) violation(w vector.Weights) (h Hypothesis, margin, lossDiff float64, oracleFeat vector.FeatureMap) {
	oracleFeat = e.oracleFeatures()
	oracleScore := w.Dot(oracleFeat)
	oLoss := e.oracleLoss()

	best := -1
	var bestCost float64
	for i, cand := range e.kbests {
		cost := (cand.Loss() - oLoss) - (oracleScore - w.Dot(cand.Features))
		if best == -1 || cost > bestCost {
			best, bestCost = i, cost
		}
	}
	h = e.kbests[best]
	margin = oracleScore - w.Dot(h.Features)
	lossDiff = h.Loss() - oLoss

	return h, margin, lossDiff, oracleFeat
}

// featureDiff returns oracleFeat - h.Features, the margin-defining
// feature vector x_i of spec §4.7's hinge/MIRA update rules.
func (e example) featureDiff(oracleFeat vector.FeatureMap, h Hypothesis) vector.FeatureMap {
	return oracleFeat.Add(h.Features.Scale(-1))
}

// base implements Initialize/Encode/Finalize identically for every
// learner in this package; concrete learners embed it and only
// implement Learn.
type base struct {
	examples []example
	scale    *ScaleState
	epoch    int
}

func newBase() base {
	return base{scale: NewScaleState()}
}

func (b *base) Initialize() {
	b.scale.Initialize()
	b.examples = nil
}

func (b *base) Encode(_ int, kbests []Hypothesis, oracleIdx []int) {
	b.examples = append(b.examples, example{kbests: kbests, oracleIdx: oracleIdx})
}

func (b *base) Finalize(w vector.Weights) {
	b.scale.Finalize(w)
}

// take drains and returns the accumulated examples, resetting the
// learner for the next batch.
func (b *base) take() []example {
	ex := b.examples
	b.examples = nil

	return ex
}

// applyDecay folds the regularizer's L2-style decay into w immediately
// (spec §4.7's "rescale w" step), going through ScaleState so the
// deferred-rescaling mechanism stays exercised even though this package
// flushes it every step rather than batching across steps.
func applyDecay(w vector.Weights, scale *ScaleState, reg Regularizer, eta float64) {
	scale.Decay(reg.DecayScale(eta))
	scale.Finalize(w)
}

// applyL1Clip shrinks every weight entry touched by grad toward zero by
// the regularizer's cumulative L1 penalty (spec §4.7's RDA-style
// clipping; a no-op under NoRegularizer/L2Regularizer).
func applyL1Clip(w vector.Weights, reg Regularizer, grad vector.FeatureMap, cumulative float64) {
	for id := range grad {
		w[id] = reg.ClipL1(w[id], cumulative)
	}
}
