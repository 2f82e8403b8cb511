package rescore

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/vector"
)

// ErrInvalidConfig is returned when a Config violates the mutual
// exclusion or required-field rules of spec §6/§7.
var ErrInvalidConfig = errors.New("rescore: invalid config")

// ErrInvalidGraph is returned when the input hypergraph is not
// topologically sorted or has no goal set.
var ErrInvalidGraph = errors.New("rescore: invalid graph")

// State is an opaque per-feature-function state value; the applier
// never inspects it beyond using a string signature (via fmt) to merge
// equal-state candidates at a node.
type State interface{}

// FeatureFunction is a single pluggable scoring component (spec §4.4):
// Apply receives the edge and the already-resolved state of each tail
// (in tail order) and returns its own contribution's new state (empty
// if StateSize is 0), the features it adds, and a cheap state-less
// estimate used to rank candidates before the exact state is known.
type FeatureFunction interface {
	Name() string
	StateSize() int
	Apply(edge hypergraph.Edge, childStates []State) (newState State, features vector.FeatureMap, estimate float64)
}

// Mode selects the feature-application algorithm (spec §4.4; exactly
// one is active per Config).
type Mode int

const (
	ModeCubePrune Mode = iota
	ModeExact
	ModeCubeGrow
	ModeCubeGrowCoarse
	ModeIncremental
)

// Split restricts which feature functions participate, per the
// sparse/dense and state-full/state-less CLI splits of spec §6. Zero
// value Split{} applies no restriction.
type Split struct {
	SparseOnly    bool
	DenseOnly     bool
	StateFullOnly bool
	StateLessOnly bool
}

// Config collects the feature applier's CLI-flag-shaped options (spec
// §6).
type Config struct {
	Mode Mode

	// Size is the per-node beam B; required >=1 whenever Mode prunes
	// (every mode except ModeExact).
	Size int

	// Diversity is the additive per-duplicate-class penalty d; 0
	// disables diversification.
	Diversity float64

	// Rejection switches cube-prune's bin selection to rejection
	// sampling against the current beam instead of deterministic top-B.
	Rejection bool

	// Forced marks the force-decoding path. Apply does not read it: it
	// changes neither pruning nor states, and callers supply feature
	// functions that already constrain states.
	Forced bool

	// PruneBin applies pruning per state bin rather than globally per
	// node; only meaningful for ModeIncremental.
	PruneBin bool

	Split Split

	Weights vector.Weights

	// Rand drives rejection sampling; a nil Rand defaults to a fixed
	// seed so runs stay reproducible.
	Rand *rand.Rand
}

// Validate enforces spec §6's mutual exclusions: sparse/dense and
// state-full/state-less are each mutually exclusive, and Size must be
// >=1 whenever the mode prunes.
func (c Config) Validate() error {
	if c.Split.SparseOnly && c.Split.DenseOnly {
		return fmt.Errorf("%w: sparse and dense are mutually exclusive", ErrInvalidConfig)
	}
	if c.Split.StateFullOnly && c.Split.StateLessOnly {
		return fmt.Errorf("%w: state-full and state-less are mutually exclusive", ErrInvalidConfig)
	}
	if c.Mode != ModeExact && c.Size < 1 {
		return fmt.Errorf("%w: size must be >=1 when pruning", ErrInvalidConfig)
	}
	if c.Diversity < 0 {
		return fmt.Errorf("%w: diversity must be >=0", ErrInvalidConfig)
	}

	return nil
}

func (c Config) rng() *rand.Rand {
	if c.Rand != nil {
		return c.Rand
	}

	return rand.New(rand.NewSource(1))
}

// selects reports whether ff participates given c.Split. Sparse/dense is
// a concern external to state size, so functions self-report via a
// "sparse:"/"dense:" Name prefix; unprefixed functions are eligible for
// both splits.
func (c Config) selects(ff FeatureFunction) bool {
	if c.Split.SparseOnly && hasPrefix(ff.Name(), "dense:") {
		return false
	}
	if c.Split.DenseOnly && hasPrefix(ff.Name(), "sparse:") {
		return false
	}
	if c.Split.StateFullOnly && ff.StateSize() == 0 {
		return false
	}
	if c.Split.StateLessOnly && ff.StateSize() > 0 {
		return false
	}

	return true
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
