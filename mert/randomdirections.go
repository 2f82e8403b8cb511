package mert

import (
	"math"
	"math/rand"

	"github.com/cicada-go/forest/vector"
)

// RandomDirections returns n candidate search directions for a
// multi-restart MERT sweep (a supplemented convenience, not named
// explicitly in spec §4.9 but standard MERT practice): one
// axis-aligned direction per feature id in ids, followed by n-len(ids)
// random directions drawn uniformly from rng and L2-normalized, so a
// caller sweeping along every returned direction covers both the
// coordinate-wise and the unconstrained cases.
func RandomDirections(ids []vector.FeatureID, n int, rng *rand.Rand) []vector.FeatureMap {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	dirs := make([]vector.FeatureMap, 0, n)
	for _, id := range ids {
		if len(dirs) >= n {
			break
		}
		dirs = append(dirs, vector.FeatureMap{id: 1})
	}

	for len(dirs) < n {
		d := vector.NewFeatureMap(len(ids))
		var norm float64
		for _, id := range ids {
			v := rng.NormFloat64()
			d[id] = v
			norm += v * v
		}
		if norm > 0 {
			d = d.Scale(1 / math.Sqrt(norm))
		}
		dirs = append(dirs, d)
	}

	return dirs
}
