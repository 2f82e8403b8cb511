package vector

import (
	"gonum.org/v1/gonum/mat"
)

// Gram is a dense Gram matrix over a small ordered set of sparse vectors
// (the cutting planes a_0..a_t of spec §4.8, at most a few hundred rows in
// practice). It wraps gonum.org/v1/gonum/mat rather than hand-rolling dense
// linear algebra, following the numeric-integration direction the teacher's
// own converter package names (gonum/graph) generalized to gonum's numeric
// packages.
type Gram struct {
	rows []FeatureMap
	m    *mat.SymDense
}

// NewGram builds the Gram matrix G[i][j] = rows[i] . rows[j] for the given
// sparse vectors.
func NewGram(rows []FeatureMap) *Gram {
	n := len(rows)
	g := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			g.SetSym(i, j, rows[i].Dot(rows[j]))
		}
	}

	return &Gram{rows: rows, m: g}
}

// Dim returns the number of rows/columns.
func (g *Gram) Dim() int {
	if g.m == nil {
		return 0
	}

	return g.m.SymmetricDim()
}

// At returns G[i][j].
func (g *Gram) At(i, j int) float64 {
	return g.m.At(i, j)
}

// QuadForm computes alpha^T G alpha for a coefficient vector alpha, used to
// evaluate the cutting-plane master objective's regularization term
// (lambda/2)||w||^2 where w = sum_i alpha_i a_i, since ||w||^2 = alpha^T G
// alpha.
func (g *Gram) QuadForm(alpha []float64) float64 {
	n := g.Dim()
	if len(alpha) != n {
		return 0
	}
	v := mat.NewVecDense(n, alpha)
	var tmp mat.VecDense
	tmp.MulVec(g.m, v)

	return mat.Dot(v, &tmp)
}

// WeightFrom reconstructs w = sum_i alpha_i*rows[i] as a sparse FeatureMap.
func (g *Gram) WeightFrom(alpha []float64) FeatureMap {
	out := NewFeatureMap(0)
	for i, a := range alpha {
		if a == 0 {
			continue
		}
		for k, v := range g.rows[i] {
			out[k] += a * v
		}
	}

	return out
}

// SolveSPD solves G x = b for x, treating G as symmetric positive
// (semi-)definite via a Cholesky factorization; returns ErrSingular if G is
// not positive definite (e.g. degenerate/duplicate cutting planes).
func (g *Gram) SolveSPD(b []float64) ([]float64, error) {
	n := g.Dim()
	if len(b) != n {
		return nil, ErrDimensionMismatch
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(g.m); !ok {
		return nil, ErrSingular
	}
	bv := mat.NewVecDense(n, append([]float64(nil), b...))
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, bv); err != nil {
		return nil, ErrSingular
	}

	return x.RawVector().Data, nil
}
