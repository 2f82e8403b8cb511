package mert

import (
	"sort"

	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/semiring"
	"github.com/cicada-go/forest/vector"
)

// breakpoints returns the k values where env's dominant line changes,
// derived from consecutive intersections in its slope-sorted hull.
func breakpoints(env semiring.Envelope[scorer.Statistic]) []float64 {
	lines := env.Lines
	out := make([]float64, 0, len(lines))
	for i := 1; i < len(lines); i++ {
		l1, l2 := lines[i-1], lines[i]
		if l1.M == l2.M {
			continue
		}
		out = append(out, (l2.B-l1.B)/(l1.M-l2.M))
	}

	return out
}

// penalty evaluates the chosen regularizer's term at w+k·d (spec §4.9).
func penalty(kind RegularizerKind, lambda float64, w vector.Weights, d vector.FeatureMap, k float64) float64 {
	if kind == NoPenalty || lambda == 0 {
		return 0
	}

	ids := make(map[vector.FeatureID]struct{}, len(w)+len(d))
	for id := range w {
		ids[id] = struct{}{}
	}
	for id := range d {
		ids[id] = struct{}{}
	}

	var sum float64
	for id := range ids {
		v := w[id] + k*d[id]
		switch kind {
		case L1Penalty:
			if v < 0 {
				v = -v
			}
			sum += v
		case L2Penalty:
			sum += v * v
		}
	}
	if kind == L2Penalty {
		return lambda / 2 * sum
	}

	return lambda * sum
}

// Sweep performs the corpus-level MERT sweep of spec §4.9: it merges
// every segment envelope's breakpoints (plus, if a regularizer is
// supplied, the points where its penalty term is extremal or
// non-smooth), evaluates the combined objective at each candidate k in
// [kMin, kMax], and returns the plateau around the minimizer. Without a
// regularizer the returned plateau spans every neighboring candidate
// tied for the minimal loss (spec: "report the k that minimizes loss");
// with one, the objective is not piecewise-constant, so the plateau
// collapses to the single best sample point.
func Sweep(
	envs []semiring.Envelope[scorer.Statistic],
	kMin, kMax float64,
	reg RegularizerKind,
	lambda float64,
	w vector.Weights,
	d vector.FeatureMap,
) (Result, error) {
	if kMin > kMax || len(envs) == 0 {
		return Result{}, ErrEmptyInterval
	}

	ks := map[float64]struct{}{kMin: {}, kMax: {}}
	for _, env := range envs {
		for _, bp := range breakpoints(env) {
			if bp > kMin && bp < kMax {
				ks[bp] = struct{}{}
			}
		}
	}
	switch reg {
	case L1Penalty:
		for id, di := range d {
			if di == 0 {
				continue
			}
			k0 := -w[id] / di
			if k0 > kMin && k0 < kMax {
				ks[k0] = struct{}{}
			}
		}
	case L2Penalty:
		if dd := vector.FeatureMap(d).Dot(d); dd > 0 {
			k0 := -vector.FeatureMap(w).Dot(d) / dd
			if k0 > kMin && k0 < kMax {
				ks[k0] = struct{}{}
			}
		}
	}

	sorted := make([]float64, 0, len(ks))
	for k := range ks {
		sorted = append(sorted, k)
	}
	sort.Float64s(sorted)

	// evalRight nudges k by a fixed small offset before evaluating an
	// envelope, matching spec §4.9's "dominant just to the right of k_i"
	// convention so a breakpoint itself resolves to the line taking over
	// past it rather than the one ending there.
	const rightEps = 1e-9
	objAt := func(k float64) float64 {
		var stat scorer.Statistic
		for _, env := range envs {
			_, line := env.Eval(k + rightEps)
			if stat == nil {
				stat = line.Payload
			} else {
				stat = stat.Add(line.Payload)
			}
		}
		var loss float64
		if stat != nil {
			loss = stat.Loss()
		}

		return loss + penalty(reg, lambda, w, d, k)
	}

	bestIdx := 0
	bestLoss := objAt(sorted[0])
	for i := 1; i < len(sorted); i++ {
		l := objAt(sorted[i])
		if l < bestLoss {
			bestIdx, bestLoss = i, l
		}
	}

	lower, upper := sorted[bestIdx], sorted[bestIdx]
	if reg == NoPenalty {
		for i := bestIdx; i > 0; i-- {
			if objAt(sorted[i-1]) > bestLoss+1e-9 {
				break
			}
			lower = sorted[i-1]
		}
		for i := bestIdx; i < len(sorted)-1; i++ {
			if objAt(sorted[i+1]) > bestLoss+1e-9 {
				break
			}
			upper = sorted[i+1]
		}
	}

	return Result{Lower: lower, Upper: upper, Objective: bestLoss}, nil
}
