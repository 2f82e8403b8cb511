// Command cicada-apply is the feature-application front-end of spec §6: it
// reads a hypergraph text file, rescories it under a weight vector and a
// selected set of feature functions (spec §4.4), and writes the rescored
// hypergraph and, optionally, its top-k derivations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cicada-go/forest/hypergraph"
	"github.com/cicada-go/forest/insideoutside"
	"github.com/cicada-go/forest/internal/cliutil"
	"github.com/cicada-go/forest/internal/features"
	"github.com/cicada-go/forest/kbest"
	"github.com/cicada-go/forest/rescore"
	"github.com/cicada-go/forest/semiring"
	"github.com/cicada-go/forest/textfmt"
	"github.com/cicada-go/forest/vector"
)

type applyFlags struct {
	in, out string

	size       int
	diversity  float64
	rejection  bool
	exact      bool
	prune      bool
	grow       bool
	growCoarse bool
	incr       bool
	forced     bool
	sparse     bool
	dense      bool
	stateFull  bool
	stateLess  bool
	pruneBin   bool

	weightsPath string
	weightsOne  bool
	featureList []string
	weightList  []string

	kbestN    int
	kbestOut  string
	logLevel  string
}

func main() {
	f := &applyFlags{}

	root := &cobra.Command{
		Use:   "cicada-apply",
		Short: "Rescore a hypergraph under feature functions and a weight vector (spec §4.4, §6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}

	fl := root.Flags()
	fl.StringVar(&f.in, "hypergraph", "", "input hypergraph text file (required)")
	fl.StringVar(&f.out, "out", "", "output hypergraph text file (default: stdout)")
	fl.IntVar(&f.size, "size", 0, "per-node beam size B")
	fl.Float64Var(&f.diversity, "diversity", 0, "per-duplicate-class diversity penalty d")
	fl.BoolVar(&f.rejection, "rejection", false, "cube-prune via rejection sampling")
	fl.BoolVar(&f.exact, "exact", false, "exact feature application")
	fl.BoolVar(&f.prune, "prune", false, "cube-pruning (default when none selected)")
	fl.BoolVar(&f.grow, "grow", false, "cube-grow")
	fl.BoolVar(&f.growCoarse, "grow-coarse", false, "cube-grow-coarse")
	fl.BoolVar(&f.incr, "incremental", false, "incremental (left-to-right) application")
	fl.BoolVar(&f.forced, "forced", false, "force-decoding path")
	fl.BoolVar(&f.sparse, "sparse", false, "restrict to sparse-only feature functions")
	fl.BoolVar(&f.dense, "dense", false, "restrict to dense-only feature functions")
	fl.BoolVar(&f.stateFull, "state-full", false, "restrict to stateful feature functions")
	fl.BoolVar(&f.stateLess, "state-less", false, "restrict to stateless feature functions")
	fl.BoolVar(&f.pruneBin, "prune-bin", false, "prune per state bin (incremental only)")
	fl.StringVar(&f.weightsPath, "weights", "", "weights file (textfmt feature-map format)")
	fl.BoolVar(&f.weightsOne, "weights-one", false, "score every active feature at weight 1.0")
	fl.StringSliceVar(&f.featureList, "feature", nil, fmt.Sprintf("feature function to activate (repeatable; one of %v)", features.Names()))
	fl.StringSliceVar(&f.weightList, "weight", nil, "name=double weight override (repeatable)")
	fl.IntVar(&f.kbestN, "kbest", 0, "also extract this many top derivations (0 disables)")
	fl.StringVar(&f.kbestOut, "kbest-out", "", "k-best output file (default: stdout)")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug|info|warn|error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cicada-apply:", err)
		os.Exit(1)
	}
}

func run(f *applyFlags) error {
	cliutil.NewLogger(f.logLevel)

	if f.in == "" {
		return fmt.Errorf("--hypergraph is required")
	}

	mode, err := selectMode(f)
	if err != nil {
		return err
	}

	ffs, err := features.Build(f.featureList, 1000)
	if err != nil {
		return err
	}
	if len(ffs) == 0 {
		// spec §4.4: "at least one feature function must remain active" —
		// the CLI's own registry default keeps the core's invariant true
		// even when the caller names none explicitly.
		ffs, _ = features.Build([]string{"rule-count"}, 1000)
	}

	w, err := loadAndOverrideWeights(f)
	if err != nil {
		return err
	}

	cfg := rescore.Config{
		Mode:      mode,
		Size:      f.size,
		Diversity: f.diversity,
		Rejection: f.rejection,
		Forced:    f.forced,
		PruneBin:  f.pruneBin,
		Split: rescore.Split{
			SparseOnly:    f.sparse,
			DenseOnly:     f.dense,
			StateFullOnly: f.stateFull,
			StateLessOnly: f.stateLess,
		},
		Weights: w,
	}
	if cfg.Mode != rescore.ModeExact && cfg.Size < 1 {
		cfg.Size = 1
	}

	in, err := os.Open(f.in)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.in, err)
	}
	defer in.Close()

	h, err := textfmt.ReadHypergraph(in)
	if err != nil {
		return err
	}
	if err := h.TopologicalSort(); err != nil {
		return err
	}

	cliutil.Log.Info("rescoring", "nodes", h.NumNodes(), "edges", h.NumEdges(), "mode", mode, "size", cfg.Size)

	out, err := rescore.Apply(h, ffs, cfg)
	if err != nil {
		return err
	}

	if beta, ierr := insideoutside.Inside(out, semiring.Tropical{}, func(e hypergraph.Edge) float64 {
		return w.Dot(e.Features)
	}); ierr == nil && out.Goal() >= 0 {
		cliutil.Log.Debug("inside score at goal", "score", beta[out.Goal()])
	}

	if err := writeHypergraph(f.out, out); err != nil {
		return err
	}

	if f.kbestN > 0 {
		if err := extractKBest(f, out, w); err != nil {
			return err
		}
	}

	return nil
}

func selectMode(f *applyFlags) (rescore.Mode, error) {
	selected := map[string]bool{
		"exact": f.exact, "prune": f.prune, "grow": f.grow,
		"grow-coarse": f.growCoarse, "incremental": f.incr,
	}
	n := 0
	for _, v := range selected {
		if v {
			n++
		}
	}
	if n > 1 {
		return 0, fmt.Errorf("%w: exactly one of exact/prune/grow/grow-coarse/incremental may be set", rescore.ErrInvalidConfig)
	}

	switch {
	case f.exact:
		return rescore.ModeExact, nil
	case f.grow:
		return rescore.ModeCubeGrow, nil
	case f.growCoarse:
		return rescore.ModeCubeGrowCoarse, nil
	case f.incr:
		return rescore.ModeIncremental, nil
	default:
		return rescore.ModeCubePrune, nil
	}
}

func loadAndOverrideWeights(f *applyFlags) (vector.Weights, error) {
	if f.weightsOne {
		ids := make([]vector.FeatureID, 0)
		for i := 0; i < 1024; i++ {
			ids = append(ids, vector.FeatureID(i))
		}

		return cliutil.WeightsOne(ids), nil
	}

	w, err := cliutil.LoadWeights(f.weightsPath)
	if err != nil {
		return nil, err
	}

	return cliutil.ParseWeightFlags(w, f.weightList)
}

func writeHypergraph(path string, h *hypergraph.Hypergraph) error {
	if path == "" {
		return textfmt.WriteHypergraph(os.Stdout, h)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	return textfmt.WriteHypergraph(out, h)
}

func extractKBest(f *applyFlags, h *hypergraph.Hypergraph, w vector.Weights) error {
	traversal := func(e hypergraph.Edge, tailYields [][]string) []string {
		yield := []string{fmt.Sprint(e.Rule)}
		for _, t := range tailYields {
			yield = append(yield, t...)
		}

		return yield
	}
	weight := func(e hypergraph.Edge, tailScores []float64) float64 {
		s := w.Dot(e.Features)
		for _, t := range tailScores {
			s += t
		}

		return s
	}

	x := kbest.New[[]string](h, traversal, weight, nil)

	var entries []textfmt.KBestEntry
	for k := 0; k < f.kbestN; k++ {
		d, err := x.Get(k)
		if err != nil {
			break
		}
		entries = append(entries, textfmt.KBestEntry{SegmentID: k, Yield: d.Yield})
	}

	if f.kbestOut == "" {
		return textfmt.WriteKBest(os.Stdout, entries)
	}

	out, err := os.Create(f.kbestOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.kbestOut, err)
	}
	defer out.Close()

	return textfmt.WriteKBest(out, entries)
}
