package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrevorS/hclust"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "listwise", cfg.Input.Missing)
	require.Equal(t, ",", cfg.Input.Delimiter)
	require.Equal(t, "average", cfg.Hierarchical.Linkage)
	require.Equal(t, "sqeuclidean", cfg.Hierarchical.Measure)
	require.Equal(t, 2.0, cfg.Hierarchical.P)
	require.Equal(t, 1.0, cfg.Hierarchical.Present)
	require.Equal(t, "loglikelihood", cfg.TwoStep.Distance)
	require.Equal(t, 8, cfg.TwoStep.MaxBranch)
	require.Equal(t, 3, cfg.TwoStep.MaxDepth)
	require.Equal(t, 15, cfg.TwoStep.MaxClusters)
	require.True(t, cfg.TwoStep.UseBIC)
	require.True(t, cfg.TwoStep.Standardize)
	require.Empty(t, cfg.ConfigFile)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "hclust.yaml")
	yaml := `
hierarchical:
  linkage: ward
  max_clusters: 4
  min_clusters: 2
twostep:
  seed: 42
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("HCLUST_HIERARCHICAL_MEASURE", "euclidean")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.ConfigFile)
	require.Equal(t, "ward", cfg.Hierarchical.Linkage)
	require.Equal(t, "euclidean", cfg.Hierarchical.Measure)
	require.Equal(t, 2, cfg.Hierarchical.MinClusters)
	require.Equal(t, 4, cfg.Hierarchical.MaxClusters)
	require.Equal(t, int64(42), cfg.TwoStep.Seed)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HCLUST_INPUT_MISSING=pairwise\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("HCLUST_INPUT_MISSING") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "pairwise", cfg.Input.Missing)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Input: Input{Missing: "mean", Delimiter: ","}}
	require.Error(t, cfg.Validate())

	cfg.Input.Missing = "pairwise"
	cfg.Input.Delimiter = ";;"
	require.Error(t, cfg.Validate())

	cfg.Input.Delimiter = ";"
	require.NoError(t, cfg.Validate())
}

func TestLibraryConversion(t *testing.T) {
	h := Hierarchical{Linkage: "complete", Measure: "minkowski", P: 3, R: 2, Present: 1}
	lib := h.Library()
	require.Equal(t, hclust.LinkageComplete, lib.Linkage)
	require.Equal(t, hclust.MeasureMinkowski, lib.Measure.Measure)
	require.Equal(t, 3.0, lib.Measure.P)

	ts := TwoStep{Distance: "euclidean", MaxBranch: 4, MaxDepth: 2, NoiseThreshold: 0.5, Seed: 7}
	tlib := ts.Library()
	require.Equal(t, hclust.CFEuclidean, tlib.Tree.Distance)
	require.Equal(t, 4, tlib.Tree.MaxBranch)
	require.Equal(t, int64(7), tlib.Tree.Seed)
}

func TestLoadDisplay(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Display{Mode: "all", Start: 1, Step: 1, K: 1}, cfg.Hierarchical.Display)
	require.Equal(t, hclust.DisplayAll, cfg.Hierarchical.Library().Window.Mode)

	t.Setenv("HCLUST_HIERARCHICAL_DISPLAY_MODE", "range")
	t.Setenv("HCLUST_HIERARCHICAL_DISPLAY_STEP", "2")
	cfg, err = Load("")
	require.NoError(t, err)
	window := cfg.Hierarchical.Library().Window
	require.Equal(t, hclust.DisplayRange, window.Mode)
	require.Equal(t, 1, window.Start)
	require.Equal(t, 2, window.Step)
	require.Zero(t, window.Stop)

	t.Setenv("HCLUST_HIERARCHICAL_DISPLAY_MODE", "sideways")
	_, err = Load("")
	require.ErrorIs(t, err, hclust.ErrInvalidWindow)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
