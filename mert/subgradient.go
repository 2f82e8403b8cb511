package mert

import (
	"sort"

	"github.com/cicada-go/forest/vector"
)

// HingeCandidate is one segment's worst-violating margin constraint
// relative to its oracle, the input to SubgradientLineSearch (spec
// §4.9's sub-gradient variant, used by §4.7/§4.8's piecewise-linear
// losses): FeatureDiff is oracle features minus hypothesis features;
// LossDiff is the hypothesis's loss minus the oracle's.
type HingeCandidate struct {
	FeatureDiff vector.FeatureMap
	LossDiff    float64
}

// SubgradientLineSearch sweeps k over [kMin, kMax] to find where the
// aggregate sub-gradient of Σ max(0, LossDiff_i − (w+k·d)·FeatureDiff_i)
// changes sign (spec §4.9): each candidate's hinge activates or
// deactivates at exactly one breakpoint k0 = (LossDiff − w·FeatureDiff)
// / (d·FeatureDiff), contributing a constant −(d·FeatureDiff) to the
// aggregate sub-gradient while active. The minimizer of the resulting
// piecewise-linear objective always falls on one of these breakpoints
// or an interval boundary, so this reuses the same sample-and-evaluate
// sweep as Sweep rather than tracking the sub-gradient sign directly.
func SubgradientLineSearch(w vector.Weights, d vector.FeatureMap, candidates []HingeCandidate, kMin, kMax float64) (Result, error) {
	if kMin > kMax || len(candidates) == 0 {
		return Result{}, ErrEmptyInterval
	}

	ks := map[float64]struct{}{kMin: {}, kMax: {}}
	for _, c := range candidates {
		a := vector.FeatureMap(d).Dot(c.FeatureDiff)
		if a == 0 {
			continue
		}
		b := vector.FeatureMap(w).Dot(c.FeatureDiff)
		k0 := (c.LossDiff - b) / a
		if k0 > kMin && k0 < kMax {
			ks[k0] = struct{}{}
		}
	}

	sorted := make([]float64, 0, len(ks))
	for k := range ks {
		sorted = append(sorted, k)
	}
	sort.Float64s(sorted)

	objAt := func(k float64) float64 {
		var sum float64
		for _, c := range candidates {
			a := vector.FeatureMap(d).Dot(c.FeatureDiff)
			b := vector.FeatureMap(w).Dot(c.FeatureDiff)
			hinge := c.LossDiff - (b + k*a)
			if hinge > 0 {
				sum += hinge
			}
		}

		return sum
	}

	bestIdx := 0
	bestObj := objAt(sorted[0])
	for i := 1; i < len(sorted); i++ {
		o := objAt(sorted[i])
		if o < bestObj {
			bestIdx, bestObj = i, o
		}
	}

	lower, upper := sorted[bestIdx], sorted[bestIdx]
	for i := bestIdx; i > 0; i-- {
		if objAt(sorted[i-1]) > bestObj+1e-9 {
			break
		}
		lower = sorted[i-1]
	}
	for i := bestIdx; i < len(sorted)-1; i++ {
		if objAt(sorted[i+1]) > bestObj+1e-9 {
			break
		}
		upper = sorted[i+1]
	}

	return Result{Lower: lower, Upper: upper, Objective: bestObj}, nil
}
