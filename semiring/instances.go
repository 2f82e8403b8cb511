package semiring

import "math"

// Tropical is the max-plus semiring over log-probabilities: + is max, * is
// +. Zero is -Inf (the additive identity: max(x, -Inf) == x), One is 0 (the
// multiplicative identity: x + 0 == x). Used for best-derivation scoring
// when edge weights are already in log domain.
type Tropical struct{}

func (Tropical) Zero() float64            { return math.Inf(-1) }
func (Tropical) One() float64             { return 0 }
func (Tropical) Add(a, b float64) float64 { return math.Max(a, b) }
func (Tropical) Mul(a, b float64) float64 { return a + b }

// Viterbi is the max semiring over plain (non-log) probabilities: + is max,
// * is ordinary multiplication. Zero is 0, One is 1.
type Viterbi struct{}

func (Viterbi) Zero() float64            { return 0 }
func (Viterbi) One() float64             { return 1 }
func (Viterbi) Add(a, b float64) float64 { return math.Max(a, b) }
func (Viterbi) Mul(a, b float64) float64 { return a * b }

// Log is the log-sum-exp semiring used for computing expectations: + is
// log(exp(a)+exp(b)) computed in a numerically stable way, * is +. Zero is
// -Inf, One is 0.
type Log struct{}

func (Log) Zero() float64 { return math.Inf(-1) }
func (Log) One() float64  { return 0 }
func (Log) Add(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}

	return hi + math.Log1p(math.Exp(lo-hi))
}
func (Log) Mul(a, b float64) float64 { return a + b }

// Expectation is the pair semiring <p, p*f> used for gradient computation:
// the first component accumulates probability mass in the Log semiring, the
// second accumulates probability-weighted feature contribution. Combining
// two pairs under + or * follows the standard expectation-semiring rules
// (Eisner 2002).
type ExpectationValue struct {
	P float64 // probability mass, in log domain
	F float64 // p * feature value (linear domain, since P is log)
}

type Expectation struct{}

func (Expectation) Zero() ExpectationValue {
	return ExpectationValue{P: math.Inf(-1), F: 0}
}

func (Expectation) One() ExpectationValue {
	return ExpectationValue{P: 0, F: 0}
}

func (Expectation) Add(a, b ExpectationValue) ExpectationValue {
	return ExpectationValue{P: Log{}.Add(a.P, b.P), F: a.F + b.F}
}

func (Expectation) Mul(a, b ExpectationValue) ExpectationValue {
	// p = pa*pb (log domain: sum); f = pa*fb + pb*fa (product rule).
	pa := math.Exp(a.P)
	pb := math.Exp(b.P)

	return ExpectationValue{
		P: Log{}.Mul(a.P, b.P),
		F: pa*b.F + pb*a.F,
	}
}
