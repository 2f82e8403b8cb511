package distributed

import (
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/semiring"
	"github.com/cicada-go/forest/vector"
)

// Broadcast returns an independent copy of w suitable for handing to a
// worker goroutine. Spec §5: "Weight vectors are broadcast immutably to
// workers each iteration"; a worker must never observe another worker's
// in-place mutations, so every broadcast hands out a fresh clone.
func Broadcast(w vector.Weights) vector.Weights {
	return w.Clone()
}

// ReduceWeights sums per-worker weight deltas into one aggregate, the
// coordinator-side counterpart of Broadcast (spec §5: "deltas are written
// into thread-local vectors and reduced"). A nil delta contributes
// nothing.
func ReduceWeights(deltas []vector.FeatureMap) vector.FeatureMap {
	out := vector.NewFeatureMap(0)
	for _, d := range deltas {
		out.AddInPlace(d)
	}

	return out
}

// ReduceStatistics folds per-shard scorer statistics into one corpus
// aggregate by repeated Add. A nil entry — a rank that contributed no
// segments this round — is treated as an empty statistic per spec §7:
// "distributed reductions treat missing contributions as empty
// statistics."
func ReduceStatistics(stats []scorer.Statistic) scorer.Statistic {
	var out scorer.Statistic
	for _, s := range stats {
		if s == nil {
			continue
		}
		if out == nil {
			out = s
			continue
		}
		out = out.Add(s)
	}

	return out
}

// ReduceEnvelopes merges per-shard line-envelope breakpoints into one
// upper hull via the Envelope semiring's Add (union + upper-hull
// reduction). Spec §5: "Envelope point merging is order-deterministic
// after the final sort," which EnvelopeSemiring.Add already guarantees
// regardless of the order shards are reduced in.
func ReduceEnvelopes[S any](sr semiring.EnvelopeSemiring[S], envs []semiring.Envelope[S]) semiring.Envelope[S] {
	out := sr.Zero()
	for _, e := range envs {
		out = sr.Add(out, e)
	}

	return out
}
