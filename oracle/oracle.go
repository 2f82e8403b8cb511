package oracle

import (
	"errors"
	"math/rand"

	"github.com/cicada-go/forest/scorer"
)

// ErrNoSegments is returned when Select is called with no segments.
var ErrNoSegments = errors.New("oracle: no segments")

// ErrEmptySegment is returned when a segment has zero candidate
// hypotheses.
var ErrEmptySegment = errors.New("oracle: segment has no hypotheses")

// MaxRounds bounds the number of hill-climb passes over all segments
// (spec §4.6: "repeat up to 10 rounds").
const MaxRounds = 10

// tieEps is the reward-equality tolerance used to decide whether a
// candidate ties the current best rather than strictly improving on it.
const tieEps = 1e-9

// Result is the outcome of a Select call: the best observed selection
// (one or more tying hypothesis indices per segment) and its corpus
// reward.
type Result struct {
	Selection [][]int
	Reward    float64
}

// Select runs the greedy hill-climb over segments, each a slice of
// candidate statistics, using rng to shuffle the per-round segment
// visitation order (spec §4.6 step 2: "in a shuffled order"). A nil rng
// uses a fixed default seed, making the search reproducible.
func Select(segments [][]scorer.Statistic, rng *rand.Rand) (Result, error) {
	if len(segments) == 0 {
		return Result{}, ErrNoSegments
	}
	for _, seg := range segments {
		if len(seg) == 0 {
			return Result{}, ErrEmptySegment
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	n := len(segments)
	current := make([]int, n)
	selection := make([][]int, n)
	for i := range selection {
		selection[i] = []int{0}
	}

	S := segments[0][0]
	for i := 1; i < n; i++ {
		S = S.Add(segments[i][0])
	}

	best := Result{Selection: cloneSelection(selection), Reward: S.Reward()}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for round := 0; round < MaxRounds; round++ {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		improved := false

		for _, s := range order {
			sPrime := S.Sub(segments[s][current[s]])

			bestReward := 0.0
			var tied []int
			for h, stat := range segments[s] {
				r := sPrime.Add(stat).Reward()
				switch {
				case len(tied) == 0 || r > bestReward+tieEps:
					bestReward = r
					tied = []int{h}
				case r > bestReward-tieEps:
					tied = append(tied, h)
				}
			}

			newCurrent := tied[0]
			newS := sPrime.Add(segments[s][newCurrent])
			if newS.Reward() > S.Reward()+tieEps {
				improved = true
			}
			S = newS
			current[s] = newCurrent
			selection[s] = tied
		}

		if S.Reward() > best.Reward-tieEps {
			best = Result{Selection: cloneSelection(selection), Reward: S.Reward()}
		}
		if !improved {
			break
		}
	}

	return best, nil
}

func cloneSelection(sel [][]int) [][]int {
	out := make([][]int, len(sel))
	for i, s := range sel {
		out[i] = append([]int(nil), s...)
	}

	return out
}
