package semiring_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cicada-go/forest/semiring"
)

func TestTropical_SumProduct(t *testing.T) {
	sr := semiring.Tropical{}
	assert.Equal(t, 3.0, sr.Mul(1.0, 2.0))
	assert.Equal(t, 2.0, sr.Add(1.0, 2.0))
	assert.True(t, math.IsInf(sr.Zero(), -1))
	assert.Equal(t, 0.0, sr.One())
}

func TestLog_SeedScenario2(t *testing.T) {
	// Two edges into goal, scores log(0.6) and log(0.4): inside at goal
	// equals log(1.0) == 0 under the Log semiring on log-domain inputs
	// summed via log-sum-exp.
	sr := semiring.Log{}
	a := math.Log(0.6)
	b := math.Log(0.4)
	got := sr.Add(a, b)
	assert.InDelta(t, 0.0, got, 1e-9)
}

func TestExpectation_MulDistributesOverFeature(t *testing.T) {
	sr := semiring.Expectation{}
	a := semiring.ExpectationValue{P: math.Log(0.5), F: 0.5 * 2.0}
	b := semiring.ExpectationValue{P: math.Log(0.4), F: 0.4 * 3.0}
	got := sr.Mul(a, b)
	assert.InDelta(t, math.Log(0.2), got.P, 1e-9)
	// f = pa*fb + pb*fa = 0.5*1.2 + 0.4*1.0 = 0.6+0.4 = 1.0
	assert.InDelta(t, 1.0, got.F, 1e-9)
}

func TestEnvelope_SeedScenario6(t *testing.T) {
	// Two lines y=0*k+0 and y=1*k-0.2: on [0,2] the optimum plateau is
	// [0.2, 2], and at any k>=0.2 the rightmost line (slope 1) dominates.
	sr := semiring.EnvelopeSemiring[string]{}
	env := sr.Add(
		semiring.Envelope[string]{Lines: []semiring.Line[string]{{M: 0, B: 0, Payload: "a"}}},
		semiring.Envelope[string]{Lines: []semiring.Line[string]{{M: 1, B: -0.2, Payload: "b"}}},
	)

	v0, l0 := env.Eval(0.0)
	assert.InDelta(t, 0.0, v0, 1e-9)
	assert.Equal(t, "a", l0.Payload)

	v1, l1 := env.Eval(1.0)
	assert.InDelta(t, 0.8, v1, 1e-9)
	assert.Equal(t, "b", l1.Payload)
}

func TestEnvelope_MulConvolvesSlopesAndIntercepts(t *testing.T) {
	sr := semiring.EnvelopeSemiring[int]{Combine: func(a, b int) int { return a + b }}
	a := semiring.Envelope[int]{Lines: []semiring.Line[int]{{M: 1, B: 2, Payload: 10}}}
	b := semiring.Envelope[int]{Lines: []semiring.Line[int]{{M: 3, B: 4, Payload: 20}}}
	got := sr.Mul(a, b)
	assert.Len(t, got.Lines, 1)
	assert.Equal(t, 4.0, got.Lines[0].M)
	assert.Equal(t, 6.0, got.Lines[0].B)
	assert.Equal(t, 30, got.Lines[0].Payload)
}

func TestEnvelope_ReductionDropsDominatedLines(t *testing.T) {
	sr := semiring.EnvelopeSemiring[string]{}
	env := sr.Add(
		semiring.Envelope[string]{Lines: []semiring.Line[string]{
			{M: 0, B: -10, Payload: "dominated"}, // never on top
			{M: 1, B: 0, Payload: "rising"},
		}},
		semiring.Envelope[string]{Lines: []semiring.Line[string]{{M: -1, B: 0, Payload: "falling"}}},
	)

	for _, l := range env.Lines {
		assert.NotEqual(t, "dominated", l.Payload)
	}
}
