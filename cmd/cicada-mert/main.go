// Command cicada-mert is the line-search front-end of spec §4.9: it
// builds one convex-hull envelope per segment from a k-best list and a
// reference set, sweeps a weight vector along one or more directions,
// and writes the weights stepped to the best point found.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cicada-go/forest/distributed"
	"github.com/cicada-go/forest/internal/cliutil"
	"github.com/cicada-go/forest/internal/runconfig"
	"github.com/cicada-go/forest/mert"
	"github.com/cicada-go/forest/scorer"
	"github.com/cicada-go/forest/semiring"
	"github.com/cicada-go/forest/textfmt"
	"github.com/cicada-go/forest/vector"
)

type mertFlags struct {
	kbestPath, refsPath, weightsPath, outPath, configPath string
	directionPath                                         string
	order                                                  int
	workers                                                int
	restarts                                               int
	seed                                                   int64
	logLevel                                               string
}

func main() {
	f := &mertFlags{}

	root := &cobra.Command{
		Use:   "cicada-mert",
		Short: "Line-search a weight vector against k-best lists and a reference set (spec §4.9)",
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
	fl.StringVar(&f.directionPath, "direction", "", "fixed search direction weights file (default: random restarts)")
	fl.IntVar(&f.order, "order", scorer.MaxOrder, "BLEU n-gram order")
	fl.IntVar(&f.workers, "workers", 1, "shard-parallel segment workers")
	fl.IntVar(&f.restarts, "restarts", 0, "random-direction restarts (0: use config, default 8)")
	fl.Int64Var(&f.seed, "seed", 1, "random-direction seed")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug|info|warn|error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cicada-mert:", err)
		os.Exit(1)
	}
}

func run(f *mertFlags) error {
	cliutil.NewLogger(f.logLevel)
	runID := distributed.NewRunID()

	if f.kbestPath == "" || f.refsPath == "" || f.outPath == "" {
		return fmt.Errorf("--kbest, --refs, and --out are required")
	}

	cfg, err := runconfig.Load(f.configPath)
	if err != nil {
		return err
	}

	regKind, err := runconfig.BuildMERTRegularizer(cfg.MERT.Regularizer)
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

	w, err := cliutil.LoadWeights(f.weightsPath)
	if err != nil {
		return err
	}

	dcfg := distributed.Config{Workers: f.workers}
	segments, err := distributed.Map(context.Background(), ids, dcfg, func(_ context.Context, id int) ([]mert.Candidate, error) {
		sc := scorer.NewBleuScorer(refs[id], f.order)
		cands := make([]mert.Candidate, 0, len(entriesBySegment[id]))
		for _, e := range entriesBySegment[id] {
			stat, serr := sc.Score(e.Yield)
			if serr != nil {
				return nil, serr
			}
			cands = append(cands, mert.Candidate{Features: e.Features, Stat: stat})
		}

		return cands, nil
	})
	if err != nil {
		return err
	}

	ids2 := collectFeatureIDs(entriesBySegment)

	restarts := f.restarts
	if restarts == 0 {
		restarts = cfg.MERT.RandomRestarts
	}
	if restarts == 0 {
		restarts = 8
	}

	directions, err := searchDirections(f, ids2, restarts)
	if err != nil {
		return err
	}

	best, bestDir, err := bestSweep(segments, directions, cfg, regKind, w)
	if err != nil {
		return err
	}

	step := best.Step()
	cliutil.Log.Info("mert sweep", "run", runID, "segments", len(segments), "directions", len(directions),
		"step", step, "objective", best.Objective)

	w.AddScaled(bestDir, step)

	return cliutil.SaveWeights(f.outPath, w)
}

func loadTrainingData(f *mertFlags) (textfmt.ReferenceSet, map[int][]textfmt.KBestEntry, error) {
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

// collectFeatureIDs gathers every feature id that appears in any
// hypothesis's feature map, the candidate pool for RandomDirections'
// axis-aligned directions.
func collectFeatureIDs(bySegment map[int][]textfmt.KBestEntry) []vector.FeatureID {
	seen := map[vector.FeatureID]struct{}{}
	for _, entries := range bySegment {
		for _, e := range entries {
			for id := range e.Features {
				seen[id] = struct{}{}
			}
		}
	}

	ids := make([]vector.FeatureID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// searchDirections resolves --direction, when given, into a single
// fixed direction, and otherwise falls back to mert.RandomDirections
// (spec §4.9 leaves direction selection to the caller).
func searchDirections(f *mertFlags, ids []vector.FeatureID, restarts int) ([]vector.FeatureMap, error) {
	if f.directionPath == "" {
		return mert.RandomDirections(ids, restarts, rand.New(rand.NewSource(f.seed))), nil
	}

	d, err := cliutil.LoadWeights(f.directionPath)
	if err != nil {
		return nil, err
	}

	return []vector.FeatureMap{vector.FeatureMap(d)}, nil
}

// bestSweep evaluates mert.Sweep along every direction and returns the
// result and direction with the lowest objective. A segment's envelope
// depends on the direction (each candidate's line has slope d·features),
// so the envelope is rebuilt and upper-hull-reduced per direction rather
// than shared across the loop.
func bestSweep(
	segments [][]mert.Candidate,
	directions []vector.FeatureMap,
	cfg runconfig.Config,
	regKind mert.RegularizerKind,
	w vector.Weights,
) (mert.Result, vector.FeatureMap, error) {
	sr := semiring.EnvelopeSemiring[scorer.Statistic]{}

	var best mert.Result
	var bestDir vector.FeatureMap
	found := false

	for _, d := range directions {
		envs := make([]semiring.Envelope[scorer.Statistic], len(segments))
		for i, cands := range segments {
			raw := make([]semiring.Line[scorer.Statistic], len(cands))
			for j, c := range cands {
				raw[j] = semiring.Line[scorer.Statistic]{
					M:       vector.FeatureMap(d).Dot(c.Features),
					B:       w.Dot(c.Features),
					Payload: c.Stat,
				}
			}
			envs[i] = sr.Add(sr.Zero(), semiring.Envelope[scorer.Statistic]{Lines: raw})
		}

		result, err := mert.Sweep(envs, cfg.MERT.KMin, cfg.MERT.KMax, regKind, cfg.MERT.Lambda, w, d)
		if err != nil {
			continue
		}
		if !found || result.Objective < best.Objective {
			best, bestDir, found = result, d, true
		}
	}
	if !found {
		return mert.Result{}, nil, mert.ErrEmptyInterval
	}

	return best, bestDir, nil
}
