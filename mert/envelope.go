package mert

import (
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/semiring"
	"github.com/cicada-go/forest/vector"
)

// statSemiring is the envelope semiring over scorer.Statistic payloads:
// two lines are never multiplied in a line-search context (each segment
// contributes its own envelope independently), so Combine is unused and
// left nil; Add is the only operation the sweep needs.
var statSemiring = semiring.EnvelopeSemiring[scorer.Statistic]{}

// BuildEnvelope constructs one segment's upper envelope along direction
// d from origin w (spec §4.9): each candidate h defines a line
// y_h(k) = (w+k·d)·x_h = (w·x_h) + k·(d·x_h).
func BuildEnvelope(w vector.Weights, d vector.FeatureMap, candidates []Candidate) semiring.Envelope[scorer.Statistic] {
	lines := make([]semiring.Line[scorer.Statistic], 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, semiring.Line[scorer.Statistic]{
			M:       vector.FeatureMap(d).Dot(c.Features),
			B:       vector.FeatureMap(w).Dot(c.Features),
			Payload: c.Stat,
		})
	}

	return statSemiring.Add(semiring.Envelope[scorer.Statistic]{}, semiring.Envelope[scorer.Statistic]{Lines: lines})
}
