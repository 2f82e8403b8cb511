package mert

import (
	"errors"

	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/vector"
)

// ErrEmptyInterval is returned when a search interval's bounds are
// inverted or when no segment produced any candidate lines.
var ErrEmptyInterval = errors.New("mert: empty search interval")

// Candidate is one k-best hypothesis's contribution to a line-search
// envelope: its feature vector and the scorer statistic it carries.
type Candidate struct {
	Features vector.FeatureMap
	Stat     scorer.Statistic
}

// RegularizerKind selects the penalty added to the sweep objective
// (spec §4.9: "add λ||w+k·d||₁ or (λ/2)||w+k·d||₂² into the sweep").
type RegularizerKind int

const (
	// NoPenalty applies no regularization term.
	NoPenalty RegularizerKind = iota
	// L1Penalty adds λ||w+k·d||₁.
	L1Penalty
	// L2Penalty adds (λ/2)||w+k·d||₂².
	L2Penalty
)

// Result is the outcome of a corpus-level sweep: the optimal plateau
// [Lower, Upper] and its objective value. Step is (Lower+Upper)/2 per
// spec §4.9.
type Result struct {
	Lower, Upper float64
	Objective    float64
}

// Step returns the chosen step size (lower+upper)/2.
func (r Result) Step() float64 { return (r.Lower + r.Upper) / 2 }
