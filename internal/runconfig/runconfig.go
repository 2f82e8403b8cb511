// Package runconfig loads the YAML run-configuration file shared by
// cmd/cicada-learn and cmd/cicada-mert: learner hyperparameters,
// regularizer/schedule selection, and shard layout (spec SPEC_FULL.md
// ambient stack: "gopkg.in/yaml.v3 for run configuration"), mirroring
// ehrlich-b-wingthing/internal/config's WingConfig yaml-tagged struct
// convention.
package runconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level run configuration. Zero value is a valid,
// fully-defaulted config (Learner "hinge", Schedule "simple",
// Regularizer "none", Workers 1).
type Config struct {
	Learner     LearnerConfig     `yaml:"learner"`
	Regularizer RegularizerConfig `yaml:"regularizer"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Distributed DistributedConfig `yaml:"distributed"`
	MERT        MERTConfig        `yaml:"mert"`
}

// LearnerConfig selects and parameterizes one of the §4.7 online
// learners or the §4.8 cutting-plane learner.
type LearnerConfig struct {
	// Name is one of: hinge, mira, arow, softmax, xbleu, cutplane.
	Name string `yaml:"name"`

	// Lambda is the regularization/aggressiveness coefficient shared by
	// Hinge's projection step, MIRA's PA1/PA2 bound, AROW's R, and
	// cutting-plane's master QP.
	Lambda float64 `yaml:"lambda,omitempty"`

	// MIRAVariant selects pa0/pa1/pa2 when Name is "mira".
	MIRAVariant string `yaml:"mira_variant,omitempty"`

	// KBestConstraints is MIRA's approximate k-best sweep width.
	KBestConstraints int `yaml:"kbest_constraints,omitempty"`

	// ConfidenceVariant selects arow/cw/nherd when Name is "arow".
	ConfidenceVariant string `yaml:"confidence_variant,omitempty"`

	// Temperature is xBLEU's softmax temperature.
	Temperature float64 `yaml:"temperature,omitempty"`

	// Epochs is the number of Learn passes the training loop runs.
	Epochs int `yaml:"epochs,omitempty"`
}

// RegularizerConfig selects one of spec §4.7's pluggable regularizers.
type RegularizerConfig struct {
	// Name is one of: none, l1, l2, oscar, rda.
	Name string `yaml:"name"`

	Lambda     float64 `yaml:"lambda,omitempty"`
	PairLambda float64 `yaml:"pair_lambda,omitempty"` // oscar only

	// Inner names the regularizer an "rda" entry wraps.
	Inner string `yaml:"inner,omitempty"`
}

// ScheduleConfig selects one of spec §4.7's rate schedules.
type ScheduleConfig struct {
	// Name is one of: simple, exponential, adagrad.
	Name string `yaml:"name"`

	Eta0  float64 `yaml:"eta0,omitempty"`
	Alpha float64 `yaml:"alpha,omitempty"` // exponential only
	N     int     `yaml:"n,omitempty"`     // exponential only
}

// DistributedConfig shapes the shard-parallel orchestration of spec §5.
type DistributedConfig struct {
	Shards  int `yaml:"shards,omitempty"`
	Workers int `yaml:"workers,omitempty"`
}

// MERTConfig parameterizes the line-search of spec §4.9.
type MERTConfig struct {
	KMin           float64 `yaml:"k_min,omitempty"`
	KMax           float64 `yaml:"k_max,omitempty"`
	Regularizer    string  `yaml:"regularizer,omitempty"` // none, l1, l2
	Lambda         float64 `yaml:"lambda,omitempty"`
	RandomRestarts int     `yaml:"random_restarts,omitempty"`
}

// Default returns a Config with every selector defaulted, matching
// what an absent --config flag should behave as.
func Default() Config {
	return Config{
		Learner:     LearnerConfig{Name: "hinge", Lambda: 0.01, Epochs: 1},
		Regularizer: RegularizerConfig{Name: "none"},
		Schedule:    ScheduleConfig{Name: "simple", Eta0: 1},
		Distributed: DistributedConfig{Shards: 1, Workers: 1},
		MERT:        MERTConfig{KMin: -1, KMax: 1, Regularizer: "none"},
	}
}

// Load reads a YAML run-configuration file at path. An empty path
// returns Default(); fields absent from the file keep Default()'s
// values (the file is decoded on top of the defaulted struct).
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("runconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("runconfig: parse %s: %w", path, err)
	}

	return cfg, nil
}
