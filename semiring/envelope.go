package semiring

import (
	"math"
	"sort"
)

// Line is y = M*x + B, carrying an opaque Payload identifying which
// derivation/hypothesis produced it (a scorer statistic, a back-pointer,
// etc. — the caller decides; the envelope machinery never inspects it).
type Line[S any] struct {
	M, B    float64
	Payload S
}

// Envelope is the upper hull of a finite set of Lines, sorted by
// increasing slope. Eval(x) gives the pointwise maximum of all lines at x.
type Envelope[S any] struct {
	Lines []Line[S]
}

// Eval returns the value and the dominant line of the envelope at x; when
// lines tie at x, the one with the larger slope is returned. It
// panics-free zero-values (B: -Inf) when the envelope has no lines.
func (e Envelope[S]) Eval(x float64) (float64, Line[S]) {
	if len(e.Lines) == 0 {
		return math.Inf(-1), Line[S]{B: math.Inf(-1)}
	}
	best := e.Lines[0]
	bestVal := best.M*x + best.B
	for _, l := range e.Lines[1:] {
		v := l.M*x + l.B
		if v > bestVal || (v == bestVal && l.M > best.M) {
			best, bestVal = l, v
		}
	}

	return bestVal, best
}

// EnvelopeSemiring implements Semiring over Envelope[S]: + is union
// followed by upper-hull reduction, * convolves two line sets by slope and
// intercept addition (spec §4.1).
type EnvelopeSemiring[S any] struct {
	// Combine merges the payloads of two lines being multiplied together
	// (e.g. concatenating derivation yields, or summing scorer statistics).
	Combine func(a, b S) S
}

func (EnvelopeSemiring[S]) Zero() Envelope[S] { return Envelope[S]{} }

func (EnvelopeSemiring[S]) One() Envelope[S] {
	var zero S

	return Envelope[S]{Lines: []Line[S]{{M: 0, B: 0, Payload: zero}}}
}

func (EnvelopeSemiring[S]) Add(a, b Envelope[S]) Envelope[S] {
	merged := make([]Line[S], 0, len(a.Lines)+len(b.Lines))
	merged = append(merged, a.Lines...)
	merged = append(merged, b.Lines...)

	return Envelope[S]{Lines: reduceUpperHull(merged)}
}

func (sr EnvelopeSemiring[S]) Mul(a, b Envelope[S]) Envelope[S] {
	if len(a.Lines) == 0 || len(b.Lines) == 0 {
		return Envelope[S]{}
	}
	out := make([]Line[S], 0, len(a.Lines)*len(b.Lines))
	for _, la := range a.Lines {
		for _, lb := range b.Lines {
			payload := la.Payload
			if sr.Combine != nil {
				payload = sr.Combine(la.Payload, lb.Payload)
			}
			out = append(out, Line[S]{M: la.M + lb.M, B: la.B + lb.B, Payload: payload})
		}
	}

	return Envelope[S]{Lines: out}
}

// reduceUpperHull sorts lines by increasing slope (ties broken by larger
// intercept, then the tie-break on equal evaluation elsewhere favors larger
// slope per spec §4.1) and removes every line that never dominates the
// pointwise maximum anywhere.
func reduceUpperHull[S any](lines []Line[S]) []Line[S] {
	if len(lines) == 0 {
		return nil
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].M != lines[j].M {
			return lines[i].M < lines[j].M
		}

		return lines[i].B > lines[j].B
	})

	// Drop lines strictly dominated by the previous one at equal slope: once
	// sorted, only the first (largest-intercept) line per distinct slope can
	// ever be on the hull.
	dedup := lines[:0:0]
	for i, l := range lines {
		if i > 0 && l.M == lines[i-1].M {
			continue
		}
		dedup = append(dedup, l)
	}

	stack := make([]Line[S], 0, len(dedup))
	for _, l := range dedup {
		for len(stack) >= 2 {
			last := stack[len(stack)-1]
			prev := stack[len(stack)-2]
			if !badMiddle(prev, last, l) {
				break
			}
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, l)
	}

	return stack
}

// badMiddle reports whether the middle line m is unnecessary given l (to its
// left, smaller slope) and r (to its right, larger slope): true when m never
// strictly dominates the hull between l and r's crossing points.
func badMiddle[S any](l, m, r Line[S]) bool {
	// Intersection x of (l, r) compared against intersection x of (l, m),
	// cross-multiplied to avoid division (denominators l.M-r.M and l.M-m.M
	// are both negative since slopes strictly increase after dedup).
	return (r.B-l.B)*(l.M-m.M) <= (m.B-l.B)*(l.M-r.M)
}
