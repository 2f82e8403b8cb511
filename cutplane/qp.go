package cutplane

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cicada-go/forest/vector"
)

// gram holds the cutting planes' Gram matrix A_i.A_j as a gonum
// SymDense, grown incrementally as planes are appended; alpha the
// current dual multipliers.
type gram struct {
	planes []Plane
	g      *mat.SymDense
	alpha  []float64
}

func newGram() *gram {
	return &gram{g: mat.NewSymDense(0, nil)}
}

// append adds a new cutting plane, growing the Gram matrix by one row
// and column computed against every existing plane.
func (gr *gram) append(p Plane) {
	n := len(gr.planes)
	next := mat.NewSymDense(n+1, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			next.SetSym(i, j, gr.g.At(i, j))
		}
	}
	for i := 0; i < n; i++ {
		next.SetSym(i, n, p.A.Dot(gr.planes[i].A))
	}
	next.SetSym(n, n, p.A.Dot(p.A))

	gr.g = next
	gr.planes = append(gr.planes, p)
	gr.alpha = append(gr.alpha, 0)
}

// solve runs dual coordinate descent (spec §4.8 step 2) maximizing
// φ_reduced(α) = -(1/2λ) Σ_ij α_iα_j(a_i.a_j) + Σ_i α_i f_i over α>=0
// for up to maxIters sweeps, returning w = -(1/λ)Σ α_i a_i (the
// standard bundle-method dual-coordinate-ascent solution this QP's
// sign convention resolves to, spec §4.8's "sign convention follows a
// standard cutting-plane formulation") and the achieved φ_reduced.
func (gr *gram) solve(lambda float64, maxIters int) (vector.Weights, float64) {
	n := len(gr.planes)
	if n == 0 {
		return vector.NewWeights(0), 0
	}

	for iter := 0; iter < maxIters; iter++ {
		maxDelta := 0.0
		for i := 0; i < n; i++ {
			gii := gr.g.At(i, i)
			if gii <= 0 {
				continue
			}

			dot := 0.0
			for j := 0; j < n; j++ {
				dot += gr.alpha[j] * gr.g.At(i, j)
			}
			withoutI := dot - gr.alpha[i]*gii

			target := (lambda*gr.planes[i].F - withoutI) / gii
			if target < 0 {
				target = 0
			}

			delta := target - gr.alpha[i]
			if delta < 0 {
				delta = -delta
			}
			if delta > maxDelta {
				maxDelta = delta
			}
			gr.alpha[i] = target
		}
		if maxDelta < 1e-10 {
			break
		}
	}

	w := vector.NewWeights(0)
	for i, p := range gr.planes {
		if gr.alpha[i] == 0 {
			continue
		}
		w.AddScaled(p.A, -gr.alpha[i]/lambda)
	}

	phiReduced := gr.phiReduced(lambda)

	return w, phiReduced
}

// phiReduced evaluates -(1/2λ) Σ_ij α_iα_j(a_i.a_j) + Σ_i α_i f_i at
// the current alpha.
func (gr *gram) phiReduced(lambda float64) float64 {
	n := len(gr.planes)
	var quad, linear float64
	for i := 0; i < n; i++ {
		linear += gr.alpha[i] * gr.planes[i].F
		for j := 0; j < n; j++ {
			quad += gr.alpha[i] * gr.alpha[j] * gr.g.At(i, j)
		}
	}

	return -quad/(2*lambda) + linear
}
