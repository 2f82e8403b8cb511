package learn

import (
	"fmt"
	"sort"

	"github.com/cicada-go/forest/vector"
)

// MIRAVariant selects which Crammer-style aggressiveness rule bounds a
// PA/MIRA step (spec §4.7: "MIRA/PA").
type MIRAVariant int

const (
	// PA0 is unconstrained: step = hingeLoss / ||x||^2.
	PA0 MIRAVariant = iota
	// PA1 caps the step at C (the PA-I box constraint).
	PA1
	// PA2 folds C into the denominator instead of capping (PA-II).
	PA2
)

// MIRAConfig configures MIRA (spec §4.7).
type MIRAConfig struct {
	Regularizer Regularizer
	Variant     MIRAVariant
	// C is the aggressiveness bound used by PA1/PA2; ignored under PA0.
	C float64
	// KBestConstraints, when > 1, turns Learn into approximate k-best
	// MIRA: instead of updating against only the single worst violator,
	// it sweeps the top-N violating hypotheses per segment in
	// decreasing violation order, applying a PA step against each in
	// turn (the standard sequential-projection approximation to the
	// full MIRA QP over all k-best constraints). 0 or 1 means
	// single-best MIRA/PA.
	KBestConstraints int
}

func (c MIRAConfig) Validate() error {
	if c.Variant != PA0 && c.C <= 0 {
		return fmt.Errorf("%w: C must be > 0 for PA1/PA2", ErrInvalidConfig)
	}
	if c.KBestConstraints < 0 {
		return fmt.Errorf("%w: KBestConstraints must be >= 0", ErrInvalidConfig)
	}

	return nil
}

// MIRA is the margin-infused relaxed algorithm / passive-aggressive
// learner (spec §4.7): per segment, one or more closed-form QP steps
// against the most-violating hypotheses, each bounded by Variant/C.
type MIRA struct {
	base
	cfg MIRAConfig
}

// NewMIRA validates cfg and returns a ready MIRA.
func NewMIRA(cfg MIRAConfig) (*MIRA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Regularizer == nil {
		cfg.Regularizer = NoRegularizer{}
	}

	return &MIRA{base: newBase(), cfg: cfg}, nil
}

func (m *MIRA) Learn(w vector.Weights) (float64, error) {
	examples := m.take()
	if len(examples) == 0 {
		return 0, nil
	}

	applyDecay(w, m.scale, m.cfg.Regularizer, 0)

	var objective float64
	n := m.cfg.KBestConstraints
	if n < 1 {
		n = 1
	}

	for _, ex := range examples {
		violators := m.topViolations(ex, w, n)
		for _, v := range violators {
			hingeLoss := v.lossDiff - v.margin
			if hingeLoss <= 0 {
				continue
			}
			objective += hingeLoss

			x := ex.featureDiff(v.oracleFeat, v.h)
			norm2 := x.Dot(x)
			if norm2 <= 0 {
				continue
			}

			var step float64
			switch m.cfg.Variant {
			case PA1:
				step = hingeLoss / norm2
				if step > m.cfg.C {
					step = m.cfg.C
				}
			case PA2:
				step = hingeLoss / (norm2 + 1/(2*m.cfg.C))
			default:
				step = hingeLoss / norm2
			}
			w.AddScaled(x, step)
		}
	}

	return objective / float64(len(examples)), nil
}

type violationRecord struct {
	h          Hypothesis
	margin     float64
	lossDiff   float64
	oracleFeat vector.FeatureMap
}

// topViolations ranks every k-best hypothesis by cost-augmented
// violation under w and returns the top n (spec §4.7's k-best MIRA
// sequential-projection approximation).
func (m *MIRA) topViolations(ex example, w vector.Weights, n int) []violationRecord {
	oracleFeat := ex.oracleFeatures()
	oracleScore := w.Dot(oracleFeat)
	oLoss := ex.oracleLoss()

	records := make([]violationRecord, 0, len(ex.kbests))
	for _, cand := range ex.kbests {
		margin := oracleScore - w.Dot(cand.Features)
		lossDiff := cand.Loss() - oLoss
		records = append(records, violationRecord{cand, margin, lossDiff, oracleFeat})
	}
	sort.Slice(records, func(i, j int) bool {
		return (records[i].lossDiff - records[i].margin) > (records[j].lossDiff - records[j].margin)
	})
	if len(records) > n {
		records = records[:n]
	}

	return records
}
