package runconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicada-go/forest/internal/runconfig"
	"github.com/cicada-go/forest/mert"
)

func TestDefaultIsFullyPopulated(t *testing.T) {
	cfg := runconfig.Default()
	assert.Equal(t, "hinge", cfg.Learner.Name)
	assert.Equal(t, "simple", cfg.Schedule.Name)
	assert.Equal(t, "none", cfg.Regularizer.Name)
	assert.Equal(t, -1.0, cfg.MERT.KMin)
	assert.Equal(t, 1.0, cfg.MERT.KMax)
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := runconfig.Load("")
	require.NoError(t, err)
	assert.Equal(t, runconfig.Default(), cfg)
}

func TestLoadOverridesOnTopOfDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
learner:
  name: mira
  mira_variant: pa1
  epochs: 5
schedule:
  name: adagrad
  eta0: 0.5
`), 0o644))

	cfg, err := runconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mira", cfg.Learner.Name)
	assert.Equal(t, "pa1", cfg.Learner.MIRAVariant)
	assert.Equal(t, 5, cfg.Learner.Epochs)
	assert.Equal(t, "adagrad", cfg.Schedule.Name)
	// Untouched sections keep the default.
	assert.Equal(t, "none", cfg.Regularizer.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := runconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildRegularizerUnknownName(t *testing.T) {
	_, err := runconfig.BuildRegularizer(runconfig.RegularizerConfig{Name: "bogus"})
	assert.Error(t, err)
}

func TestBuildRegularizerRDAWrapsInner(t *testing.T) {
	reg, err := runconfig.BuildRegularizer(runconfig.RegularizerConfig{Name: "rda", Inner: "l1", Lambda: 0.1})
	require.NoError(t, err)
	require.NotNil(t, reg)
}

func TestBuildScheduleDefaultsToSimple(t *testing.T) {
	sched, err := runconfig.BuildSchedule(runconfig.ScheduleConfig{})
	require.NoError(t, err)
	require.NotNil(t, sched)
}

func TestBuildLearnerUnknownName(t *testing.T) {
	reg, err := runconfig.BuildRegularizer(runconfig.RegularizerConfig{})
	require.NoError(t, err)
	sched, err := runconfig.BuildSchedule(runconfig.ScheduleConfig{})
	require.NoError(t, err)

	_, err = runconfig.BuildLearner(runconfig.LearnerConfig{Name: "bogus"}, reg, sched)
	assert.Error(t, err)
}

func TestBuildLearnerEachVariant(t *testing.T) {
	reg, err := runconfig.BuildRegularizer(runconfig.RegularizerConfig{})
	require.NoError(t, err)
	sched, err := runconfig.BuildSchedule(runconfig.ScheduleConfig{})
	require.NoError(t, err)

	for _, name := range []string{"hinge", "mira", "arow", "softmax", "expected-loss", "xbleu"} {
		l, err := runconfig.BuildLearner(runconfig.LearnerConfig{Name: name, Lambda: 0.1}, reg, sched)
		require.NoError(t, err, name)
		require.NotNil(t, l, name)
	}
}

func TestBuildMERTRegularizer(t *testing.T) {
	kind, err := runconfig.BuildMERTRegularizer("l2")
	require.NoError(t, err)
	assert.Equal(t, mert.L2Penalty, kind)

	_, err = runconfig.BuildMERTRegularizer("bogus")
	assert.Error(t, err)
}
