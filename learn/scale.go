package learn

import "github.com/cicada-go/forest/vector"

// ScaleState is the "internal weight-scale used to defer rescaling"
// named by spec §4.7's common contract and grounded in the original's
// initialize/finalize weight-scale deferral (SPEC_FULL supplemented
// feature): rather than multiplying every entry of a (possibly large)
// weight vector by a decay factor on every step, L2-style decay is
// folded into a running scalar and only baked into the weights once, at
// Finalize.
type ScaleState struct {
	scale float64
}

// NewScaleState returns a ScaleState with no pending decay.
func NewScaleState() *ScaleState {
	return &ScaleState{scale: 1}
}

// Initialize resets the pending scale to 1 (spec §4.7: "initialize...
// manage an internal weight-scale").
func (s *ScaleState) Initialize() { s.scale = 1 }

// Decay folds an additional multiplicative factor into the pending
// scale.
func (s *ScaleState) Decay(factor float64) { s.scale *= factor }

// Scale returns the pending scale factor, applied to any feature value
// read through it before it is added into w (so an update computed
// under scale s is equivalent to first flushing s into w, then adding
// the unscaled update).
func (s *ScaleState) Scale() float64 { return s.scale }

// Finalize bakes the pending scale into w and resets it to 1 (spec
// §4.7: "finalize manage an internal weight-scale").
func (s *ScaleState) Finalize(w vector.Weights) {
	w.Scale(s.scale)
	s.scale = 1
}
