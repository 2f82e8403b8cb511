package runconfig

import (
	"fmt"

	"github.com/cicada-go/forest/learn"
	"github.com/cicada-go/forest/mert"
)

// BuildRegularizer resolves a RegularizerConfig into a learn.Regularizer
// (spec §4.7's pluggable-regularizer list). Invalid combinations (an
// "rda" with no Inner, an unknown Name) fail with learn.ErrInvalidConfig.
func BuildRegularizer(cfg RegularizerConfig) (learn.Regularizer, error) {
	switch cfg.Name {
	case "", "none":
		return learn.NoRegularizer{}, nil
	case "l1":
		return learn.L1Regularizer{Lambda: cfg.Lambda}, nil
	case "l2":
		return learn.L2Regularizer{Lambda: cfg.Lambda}, nil
	case "oscar":
		return learn.OSCARRegularizer{L1Lambda: cfg.Lambda, PairLambda: cfg.PairLambda}, nil
	case "rda":
		if cfg.Inner == "" {
			return nil, fmt.Errorf("%w: rda needs an inner regularizer", learn.ErrInvalidConfig)
		}
		inner, err := BuildRegularizer(RegularizerConfig{Name: cfg.Inner, Lambda: cfg.Lambda})
		if err != nil {
			return nil, err
		}

		return learn.RDA{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("%w: unknown regularizer %q", learn.ErrInvalidConfig, cfg.Name)
	}
}

// BuildSchedule resolves a ScheduleConfig into a learn.Schedule (spec
// §4.7: "exactly one must be selected").
func BuildSchedule(cfg ScheduleConfig) (learn.Schedule, error) {
	switch cfg.Name {
	case "", "simple":
		eta0 := cfg.Eta0
		if eta0 == 0 {
			eta0 = 1
		}

		return learn.SimpleSchedule{Eta0: eta0}, nil
	case "exponential":
		return learn.ExponentialSchedule{Eta0: cfg.Eta0, Alpha: cfg.Alpha, N: cfg.N}, nil
	case "adagrad":
		return learn.NewAdaGradSchedule(cfg.Eta0), nil
	default:
		return nil, fmt.Errorf("%w: unknown schedule %q", learn.ErrInvalidConfig, cfg.Name)
	}
}

// BuildLearner resolves the LearnerConfig (together with the
// already-built regularizer/schedule) into a learn.Learner. "cutplane"
// is not a learn.Learner and is handled separately by its own
// cutplane.Config in cmd/cicada-learn.
func BuildLearner(cfg LearnerConfig, reg learn.Regularizer, sched learn.Schedule) (learn.Learner, error) {
	switch cfg.Name {
	case "", "hinge":
		return learn.NewHinge(learn.HingeConfig{Regularizer: reg, Schedule: sched, Lambda: cfg.Lambda})
	case "mira":
		variant := map[string]learn.MIRAVariant{"pa0": learn.PA0, "pa1": learn.PA1, "pa2": learn.PA2, "": learn.PA0}[cfg.MIRAVariant]

		return learn.NewMIRA(learn.MIRAConfig{
			Regularizer:      reg,
			Variant:          variant,
			C:                cfg.Lambda,
			KBestConstraints: cfg.KBestConstraints,
		})
	case "arow":
		variant := map[string]learn.ConfidenceVariant{
			"": learn.AROWVariant, "arow": learn.AROWVariant, "cw": learn.CWVariant, "nherd": learn.NHERDVariant,
		}[cfg.ConfidenceVariant]
		r := cfg.Lambda
		if r <= 0 {
			r = 1
		}

		return learn.NewAROW(learn.AROWConfig{Variant: variant, R: r})
	case "softmax":
		return learn.NewSoftmax(learn.SoftmaxConfig{Regularizer: reg, Schedule: sched}), nil
	case "expected-loss":
		return learn.NewExpectedLoss(learn.ExpectedLossConfig{Regularizer: reg, Schedule: sched}), nil
	case "xbleu":
		return learn.NewXBLEU(learn.XBLEUConfig{Regularizer: reg, Schedule: sched, Temperature: cfg.Temperature}), nil
	default:
		return nil, fmt.Errorf("%w: unknown learner %q", learn.ErrInvalidConfig, cfg.Name)
	}
}

// BuildMERTRegularizer resolves the MERTConfig's regularizer name into
// a mert.RegularizerKind (spec §4.9).
func BuildMERTRegularizer(name string) (mert.RegularizerKind, error) {
	switch name {
	case "", "none":
		return mert.NoPenalty, nil
	case "l1":
		return mert.L1Penalty, nil
	case "l2":
		return mert.L2Penalty, nil
	default:
		return 0, fmt.Errorf("mert: unknown regularizer %q", name)
	}
}
