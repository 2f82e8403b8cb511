package rescore

import (
	"fmt"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/vector"
)

// item is one surviving (node, state) candidate: the edge and child
// item choices that produced it, its composite state, its own edge's
// feature contribution (the children carry their own features on
// their own items, exactly as a hypergraph edge stores only its local
// feature map), and its whole-derivation score.
type item struct {
	edgeID   int
	children []*item // resolved child items, in tail order
	state    []State // composite: one entry per active feature function
	features vector.FeatureMap
	estimate float64
	score    float64
	nodeID   int // assigned once materialized into the output hypergraph
}

func stateSignature(s []State) string {
	return fmt.Sprint(s)
}

// combine applies every active feature function to edge given its
// children's composite states, returning the new composite state, the
// summed feature contribution, and the summed estimate.
func combine(fns []FeatureFunction, edge hypergraph.Edge, children []*item) ([]State, vector.FeatureMap, float64) {
	childStates := make([][]State, len(children))
	for i, c := range children {
		childStates[i] = c.state
	}

	state := make([]State, len(fns))
	features := vector.NewFeatureMap(len(edge.Features))
	features.AddInPlace(edge.Features)
	var estimate float64

	for fi, ff := range fns {
		perTail := make([]State, len(children))
		for i := range children {
			if fi < len(childStates[i]) {
				perTail[i] = childStates[i][fi]
			}
		}
		s, f, e := ff.Apply(edge, perTail)
		state[fi] = s
		features.AddInPlace(f)
		estimate += e
	}

	return state, features, estimate
}

// scoreOf computes a derivation's total score: the dot product of its
// own edge-local features plus the already-resolved total scores of
// its children (the whole-derivation score is additive across edges in
// the log-linear model, mirroring kbest.WeightFunc's edge-plus-tails
// composition).
func scoreOf(weights vector.Weights, features vector.FeatureMap, children []*item) float64 {
	s := weights.Dot(features)
	for _, c := range children {
		s += c.score
	}

	return s
}
