// Package features is a tiny built-in registry of stateless feature
// functions the command-line front-ends can select by name (spec §9:
// "implementers should model variants as tagged entries in a
// registry"). Real language-model and reordering feature functions are
// external collaborators (spec §1) the core never implements; these
// two entries exist only so cmd/cicada-apply has something concrete to
// drive through rescore.Apply without a grammar/LM dependency.
package features

import (
	"fmt"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/rescore"
	"github.com/cicada-go/forest/vector"
)

// wordPenalty is a stateless, dense feature counting each edge's rule
// arity as a proxy for output length (grammar internals are out of
// scope, so there is no real surface-string count available here).
type wordPenalty struct {
	id vector.FeatureID
}

func (w wordPenalty) Name() string   { return "dense:word-penalty" }
func (wordPenalty) StateSize() int   { return 0 }
func (w wordPenalty) Apply(edge hypergraph.Edge, _ []rescore.State) (rescore.State, vector.FeatureMap, float64) {
	n := float64(len(edge.Tails) + 1)

	return nil, vector.FeatureMap{w.id: n}, n
}

// ruleCount is a stateless, sparse feature contributing a constant 1
// per edge, letting a model simply learn "prefer fewer/more edges".
type ruleCount struct {
	id vector.FeatureID
}

func (r ruleCount) Name() string   { return "sparse:rule-count" }
func (ruleCount) StateSize() int   { return 0 }
func (r ruleCount) Apply(edge hypergraph.Edge, _ []rescore.State) (rescore.State, vector.FeatureMap, float64) {
	return nil, vector.FeatureMap{r.id: 1}, 1
}

// Registry maps a CLI `feature=NAME` value (spec §6) to its feature id
// and constructor. Feature ids are fixed here rather than looked up in
// an external vocabulary, matching the rest of the core's footnote that
// the symbol table is an external collaborator (spec §9).
var registry = map[string]func(vector.FeatureID) rescore.FeatureFunction{
	"word-penalty": func(id vector.FeatureID) rescore.FeatureFunction { return wordPenalty{id: id} },
	"rule-count":   func(id vector.FeatureID) rescore.FeatureFunction { return ruleCount{id: id} },
}

// Names returns the registry's keys, for --help text and error messages.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}

	return out
}

// Build resolves repeatable `feature=NAME` flag values into concrete
// FeatureFunctions, assigning each a distinct feature id starting at
// firstID (so a run with two selected functions never lets them
// collide in the weight vector).
func Build(names []string, firstID vector.FeatureID) ([]rescore.FeatureFunction, error) {
	out := make([]rescore.FeatureFunction, 0, len(names))
	for i, name := range names {
		ctor, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("features: unknown feature %q (want one of %v)", name, Names())
		}
		out = append(out, ctor(firstID+vector.FeatureID(i)))
	}

	return out, nil
}
