package scorer

import "strings"

// BleuScorer scores a hypothesis sentence against one or more reference
// sentences for a single segment (spec §4.5: "a scorer for segment s
// exposes score(sentence)->statistic").
type BleuScorer struct {
	References [][]string
	Order      int
}

// NewBleuScorer builds a scorer for one segment's reference set. Order
// defaults to MaxOrder when 0.
func NewBleuScorer(references [][]string, order int) *BleuScorer {
	if order <= 0 {
		order = MaxOrder
	}

	return &BleuScorer{References: references, Order: order}
}

// Score implements Scorer: it counts clipped n-gram matches against the
// reference with the length closest to the hypothesis (standard BLEU
// "closest reference length" convention), for each order up to s.Order.
func (s *BleuScorer) Score(hypothesis []string) (Statistic, error) {
	out := NewBleu(s.Order)
	out.HypLength = float64(len(hypothesis))
	out.RefLength = float64(closestLength(len(hypothesis), s.References))

	for n := 1; n <= s.Order; n++ {
		hypCounts := countNgrams(hypothesis, n)
		var hypTotal float64
		for _, c := range hypCounts {
			hypTotal += float64(c)
		}
		out.Hypothesis[n-1] = hypTotal

		maxRefCounts := make(map[string]int, len(hypCounts))
		for _, ref := range s.References {
			refCounts := countNgrams(ref, n)
			for gram, c := range refCounts {
				if c > maxRefCounts[gram] {
					maxRefCounts[gram] = c
				}
			}
		}

		var matched float64
		for gram, c := range hypCounts {
			if refC, ok := maxRefCounts[gram]; ok {
				if c > refC {
					c = refC
				}
				matched += float64(c)
			}
		}
		out.Matched[n-1] = matched
	}

	return out, nil
}

func countNgrams(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	if len(tokens) < n {
		return counts
	}
	for i := 0; i+n <= len(tokens); i++ {
		gram := strings.Join(tokens[i:i+n], " ")
		counts[gram]++
	}

	return counts
}

func closestLength(hypLen int, references [][]string) int {
	best := -1
	bestDiff := -1
	for _, ref := range references {
		diff := hypLen - len(ref)
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff || (diff == bestDiff && len(ref) < best) {
			best = len(ref)
			bestDiff = diff
		}
	}
	if best == -1 {
		return 0
	}

	return best
}
