package mert

import "sort"

// Point is a (slope, intercept) pair identified by its original index,
// the minimal input ConvexHull needs when callers have no scorer
// statistic to carry as a payload (a supplemented convenience wrapping
// the same upper-hull logic semiring.Envelope uses internally).
type Point struct {
	Slope, Intercept float64
	Index            int
}

// ConvexHull returns the indices (into points, in hull order sorted by
// increasing slope) of the points forming the upper envelope y = M*k+B,
// dropping every point that is never the pointwise maximum for any k.
func ConvexHull(points []Point) []int {
	if len(points) == 0 {
		return nil
	}

	sorted := append([]Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Slope != sorted[j].Slope {
			return sorted[i].Slope < sorted[j].Slope
		}

		return sorted[i].Intercept > sorted[j].Intercept
	})

	dedup := sorted[:0:0]
	for i, p := range sorted {
		if i > 0 && p.Slope == sorted[i-1].Slope {
			continue
		}
		dedup = append(dedup, p)
	}

	stack := make([]Point, 0, len(dedup))
	for _, p := range dedup {
		for len(stack) >= 2 {
			last := stack[len(stack)-1]
			prev := stack[len(stack)-2]
			if !badTriple(prev, last, p) {
				break
			}
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}

	out := make([]int, len(stack))
	for i, p := range stack {
		out[i] = p.Index
	}

	return out
}

// badTriple mirrors semiring.badMiddle's cross-multiplied intersection
// test: true when the middle point m never strictly dominates the hull
// between l and r.
func badTriple(l, m, r Point) bool {
	return (r.Intercept-l.Intercept)*(l.Slope-m.Slope) <= (m.Intercept-l.Intercept)*(l.Slope-r.Slope)
}
