package learn

import (
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/vector"
)

// Hypothesis is one k-best training record (spec §3): a token sequence,
// its feature map, a cached score-statistic, and its derived scalar
// loss.
type Hypothesis struct {
	Tokens   []string
	Features vector.FeatureMap
	Stat     scorer.Statistic
	loss     float64
}

// NewHypothesis builds a Hypothesis, caching stat.Loss() (stat may be
// nil for synthetic test data with no associated metric).
func NewHypothesis(tokens []string, features vector.FeatureMap, stat scorer.Statistic) Hypothesis {
	h := Hypothesis{Tokens: tokens, Features: features, Stat: stat}
	if stat != nil {
		h.loss = stat.Loss()
	}

	return h
}

// Loss returns the hypothesis's cached scalar loss.
func (h Hypothesis) Loss() float64 { return h.loss }

// Learner is the common contract every online learner in this package
// satisfies (spec §4.7).
type Learner interface {
	// Initialize resets the learner's deferred weight-scale state for a
	// fresh pass over the corpus.
	Initialize()

	// Encode accumulates one segment's k-best hypotheses and the indices
	// (into kbests) selected as oracles by the oracle package.
	Encode(segmentID int, kbests []Hypothesis, oracleIdx []int)

	// Learn applies one update step against w and returns the step's
	// objective scalar. A call with no accumulated data (no Encode since
	// the last Learn) is a no-op returning 0 (spec §8).
	Learn(w vector.Weights) (float64, error)

	// Finalize flushes any deferred weight-scale state into w.
	Finalize(w vector.Weights)
}
