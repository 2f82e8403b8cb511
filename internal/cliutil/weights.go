package cliutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/cicada-go/forest/textfmt"
	"github.com/cicada-go/forest/vector"
)

// LoadWeights reads a weights file in the textfmt feature-map format
// (spec §6's `weights=PATH` flag): a single line of
// "id=base64(double) ..." entries. A missing path returns an empty,
// non-nil Weights so callers can treat "no file yet" the same as
// "empty model".
func LoadWeights(path string) (vector.Weights, error) {
	if path == "" {
		return vector.NewWeights(0), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return vector.NewWeights(0), nil
		}

		return nil, fmt.Errorf("load weights %s: %w", path, err)
	}

	f, err := textfmt.DecodeFeatureMap(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("load weights %s: %w", path, err)
	}

	return vector.Weights(f), nil
}

// SaveWeights writes w to path in the same format LoadWeights reads.
func SaveWeights(path string, w vector.Weights) error {
	line := textfmt.EncodeFeatureMap(vector.FeatureMap(w)) + "\n"
	if err := os.WriteFile(path, []byte(line), 0644); err != nil {
		return fmt.Errorf("save weights %s: %w", path, err)
	}

	return nil
}

// ParseWeightFlags merges `weight=id=double` CLI-flag entries (spec §6)
// on top of base, returning a new Weights (base is not mutated).
func ParseWeightFlags(base vector.Weights, entries []string) (vector.Weights, error) {
	out := base.Clone()
	for _, entry := range entries {
		name, val, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("weight flag %q: want name=double", entry)
		}

		var id uint64
		if _, err := fmt.Sscanf(name, "%d", &id); err != nil {
			return nil, fmt.Errorf("weight flag %q: feature id must be numeric: %w", entry, err)
		}

		var v float64
		if _, err := fmt.Sscanf(val, "%g", &v); err != nil {
			return nil, fmt.Errorf("weight flag %q: value must be numeric: %w", entry, err)
		}

		out[vector.FeatureID(id)] = v
	}

	return out, nil
}

// WeightsOne returns a Weights of 1.0 for every feature id in ids
// (spec §6's `weights-one=BOOL`: a debugging mode that scores every
// active feature at unit weight instead of loading a trained model).
func WeightsOne(ids []vector.FeatureID) vector.Weights {
	out := vector.NewWeights(len(ids))
	for _, id := range ids {
		out[id] = 1.0
	}

	return out
}
