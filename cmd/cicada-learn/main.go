// Command cicada-learn is the training front-end of spec §4.7/§4.8: it
// scores a segment's k-best lists against a reference set, runs the oracle
// selector, and drives one of the online margin-based learners (or the
// cutting-plane learner) for a number of epochs, writing the updated
// weight vector.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cicada-go/forest/cutplane"
	"github.com/cicada-go/forest/distributed"
	"github.com/cicada-go/forest/internal/cliutil"
	"github.com/cicada-go/forest/internal/runconfig"
	"github.com/cicada-go/forest/learn"
	"github.com/cicada-go/forest/oracle"
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/textfmt"
	"github.com/cicada-go/forest/vector"
)

type learnFlags struct {
	kbestPath, refsPath, weightsPath, outPath, configPath string
	order                                                 int
	workers                                               int
	seed                                                   int64
	logLevel                                              string
}

func main() {
	f := &learnFlags{}

	root := &cobra.Command{
		Use:   "cicada-learn",
		Short: "Train a weight vector against k-best lists and a reference set (spec §4.6-§4.8)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}

	fl := root.Flags()
	fl.StringVar(&f.kbestPath, "kbest", "", "k-best text file (required)")
	fl.StringVar(&f.refsPath, "refs", "", "reference-set text file (required)")
	fl.StringVar(&f.weightsPath, "weights", "", "initial weights file")
	fl.StringVar(&f.outPath, "out", "", "output weights file (required)")
	fl.StringVar(&f.configPath, "config", "", "YAML run-configuration file")
	fl.IntVar(&f.order, "order", scorer.MaxOrder, "BLEU n-gram order")
	fl.IntVar(&f.workers, "workers", 1, "shard-parallel segment workers")
	fl.Int64Var(&f.seed, "seed", 1, "oracle-selector shuffle seed")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug|info|warn|error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cicada-learn:", err)
		os.Exit(1)
	}
}

// segment is one training segment's k-best hypotheses.
type segment struct {
	id   int
	hyps []learn.Hypothesis
}

func run(f *learnFlags) error {
	cliutil.NewLogger(f.logLevel)
	runID := distributed.NewRunID()

	if f.kbestPath == "" || f.refsPath == "" || f.outPath == "" {
		return fmt.Errorf("--kbest, --refs, and --out are required")
	}

	cfg, err := runconfig.Load(f.configPath)
	if err != nil {
		return err
	}

	refs, entriesBySegment, err := loadTrainingData(f)
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(entriesBySegment))
	for id := range entriesBySegment {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	dcfg := distributed.Config{Workers: f.workers}
	segments, err := distributed.Map(context.Background(), ids, dcfg, func(_ context.Context, id int) (segment, error) {
		sc := scorer.NewBleuScorer(refs[id], f.order)
		hyps := make([]learn.Hypothesis, 0, len(entriesBySegment[id]))
		for _, e := range entriesBySegment[id] {
			stat, serr := sc.Score(e.Yield)
			if serr != nil {
				return segment{}, serr
			}
			hyps = append(hyps, learn.NewHypothesis(e.Yield, e.Features, stat))
		}

		return segment{id: id, hyps: hyps}, nil
	})
	if err != nil {
		return err
	}

	stats := make([][]scorer.Statistic, len(segments))
	for i, s := range segments {
		stats[i] = make([]scorer.Statistic, len(s.hyps))
		for j, h := range s.hyps {
			stats[i][j] = h.Stat
		}
	}

	oracleResult, err := oracle.Select(stats, rand.New(rand.NewSource(f.seed)))
	if err != nil {
		return err
	}

	w, err := cliutil.LoadWeights(f.weightsPath)
	if err != nil {
		return err
	}

	cliutil.Log.Info("training start", "run", runID, "segments", len(segments), "learner", cfg.Learner.Name, "epochs", cfg.Learner.Epochs)

	if cfg.Learner.Name == "cutplane" {
		if err := runCutplane(cfg, segments, oracleResult.Selection, w); err != nil {
			return err
		}
	} else if err := runOnline(cfg, segments, oracleResult.Selection, w); err != nil {
		return err
	}

	return cliutil.SaveWeights(f.outPath, w)
}

func loadTrainingData(f *learnFlags) (textfmt.ReferenceSet, map[int][]textfmt.KBestEntry, error) {
	refFile, err := os.Open(f.refsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", f.refsPath, err)
	}
	defer refFile.Close()

	refs, err := textfmt.ReadReferenceSet(refFile)
	if err != nil {
		return nil, nil, err
	}

	kbFile, err := os.Open(f.kbestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", f.kbestPath, err)
	}
	defer kbFile.Close()

	entries, err := textfmt.ReadKBest(kbFile)
	if err != nil {
		return nil, nil, err
	}

	bySegment := map[int][]textfmt.KBestEntry{}
	for _, e := range entries {
		bySegment[e.SegmentID] = append(bySegment[e.SegmentID], e)
	}

	return refs, bySegment, nil
}

func runOnline(cfg runconfig.Config, segments []segment, selection [][]int, w vector.Weights) error {
	reg, err := runconfig.BuildRegularizer(cfg.Regularizer)
	if err != nil {
		return err
	}
	sched, err := runconfig.BuildSchedule(cfg.Schedule)
	if err != nil {
		return err
	}
	l, err := runconfig.BuildLearner(cfg.Learner, reg, sched)
	if err != nil {
		return err
	}

	epochs := cfg.Learner.Epochs
	if epochs < 1 {
		epochs = 1
	}

	for epoch := 0; epoch < epochs; epoch++ {
		l.Initialize()
		for i, s := range segments {
			l.Encode(s.id, s.hyps, selection[i])
		}
		objective, err := l.Learn(w)
		if err != nil {
			return err
		}
		cliutil.Log.Info("epoch", "epoch", epoch, "objective", objective)
	}
	l.Finalize(w)

	return nil
}

func runCutplane(cfg runconfig.Config, segments []segment, selection [][]int, w vector.Weights) error {
	cp, err := cutplane.New(cutplane.Config{Lambda: cfg.Learner.Lambda})
	if err != nil {
		return err
	}

	loss := func(w vector.Weights) (float64, vector.FeatureMap) {
		var risk float64
		subgrad := vector.NewFeatureMap(0)
		n := 0
		for i, s := range segments {
			oracleFeat, oracleLoss := averageOracle(s, selection[i])
			worstIdx, worstMargin := -1, 0.0
			for j, h := range s.hyps {
				margin := h.Loss() - oracleLoss - (w.Dot(oracleFeat) - w.Dot(h.Features))
				if worstIdx == -1 || margin > worstMargin {
					worstIdx, worstMargin = j, margin
				}
			}
			if worstIdx == -1 || worstMargin <= 0 {
				continue
			}
			risk += worstMargin
			diff := oracleFeat.Clone()
			diff.AddInPlace(s.hyps[worstIdx].Features.Scale(-1))
			subgrad.AddInPlace(diff.Scale(-1))
			n++
		}
		if n > 0 {
			risk /= float64(n)
			subgrad = subgrad.Scale(1 / float64(n))
		}

		return risk, subgrad
	}

	epochs := cfg.Learner.Epochs
	if epochs < 1 {
		epochs = 1
	}
	for epoch := 0; epoch < epochs; epoch++ {
		result, err := cp.Step(w, loss)
		if err != nil {
			return err
		}
		cliutil.Log.Info("cutplane step", "epoch", epoch, "phi", result.Phi, "converged", result.Converged)
		if result.Converged {
			break
		}
	}

	best, _ := cp.Best()
	for id := range w {
		delete(w, id)
	}
	for id, v := range best {
		w[id] = v
	}

	return nil
}

func averageOracle(s segment, oracleIdx []int) (vector.FeatureMap, float64) {
	feat := vector.NewFeatureMap(0)
	var loss float64
	if len(oracleIdx) == 0 {
		return feat, 0
	}
	for _, idx := range oracleIdx {
		feat.AddInPlace(s.hyps[idx].Features)
		loss += s.hyps[idx].Loss()
	}

	return feat.Scale(1 / float64(len(oracleIdx))), loss / float64(len(oracleIdx))
}
