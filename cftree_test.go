package hclust

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func continuousDataset(t *testing.T, rows [][]float64) *Dataset {
	t.Helper()
	ds, err := NewDataset(rows, nil, nil)
	require.NoError(t, err)
	return ds
}

// requirePartition checks that the entries cover every case exactly once.
func requirePartition(t *testing.T, n int, entries []*CFEntry) {
	t.Helper()
	seen := make([]int, n)
	total := 0
	for _, e := range entries {
		require.Equal(t, e.N, len(e.Cases))
		total += e.N
		for _, c := range e.Cases {
			seen[c]++
		}
	}
	require.Equal(t, n, total)
	for i, s := range seen {
		require.Equal(t, 1, s, "case %d", i)
	}
}

func TestBuildCFTree_Partition(t *testing.T) {
	ds := continuousDataset(t, generateBenchData(60, 3))
	for _, dist := range []CFDistance{CFLogLikelihood, CFEuclidean} {
		t.Run(string(dist), func(t *testing.T) {
			cfg := DefaultCFTreeConfig()
			cfg.Distance = dist
			tree, err := BuildCFTree(ds, cfg, nil)
			require.NoError(t, err)
			require.NotEmpty(t, tree.Entries)
			requirePartition(t, ds.Len(), tree.Entries)
		})
	}
}

func TestBuildCFTree_IdenticalCasesAbsorbed(t *testing.T) {
	rows := [][]float64{{1, 1}, {1, 1}, {1, 1}, {4, 4}, {4, 4}}
	cfg := DefaultCFTreeConfig()
	cfg.Distance = CFEuclidean
	tree, err := BuildCFTree(continuousDataset(t, rows), cfg, nil)
	require.NoError(t, err)
	require.Len(t, tree.Entries, 2)
	requirePartition(t, len(rows), tree.Entries)
	require.Zero(t, tree.Rebuilds)
}

func TestBuildCFTree_RebuildRespectsCapacity(t *testing.T) {
	ds := continuousDataset(t, generateBenchData(20, 2))
	cfg := CFTreeConfig{MaxBranch: 2, MaxDepth: 2, Distance: CFEuclidean}
	diag := &Diagnostics{}
	tree, err := BuildCFTree(ds, cfg, diag)
	require.NoError(t, err)
	require.LessOrEqual(t, len(tree.Entries), 4)
	require.Positive(t, tree.Rebuilds)
	require.Positive(t, tree.Threshold)
	requirePartition(t, ds.Len(), tree.Entries)
	require.NotEmpty(t, diag.Notes)
}

func TestBuildCFTree_DeterministicBySeed(t *testing.T) {
	ds := continuousDataset(t, generateBenchData(50, 2))
	cfg := CFTreeConfig{MaxBranch: 3, MaxDepth: 2, Seed: 7}

	caseSets := func(tree *CFTree) [][]int {
		out := make([][]int, len(tree.Entries))
		for i, e := range tree.Entries {
			out[i] = append([]int(nil), e.Cases...)
		}
		return out
	}

	a, err := BuildCFTree(ds, cfg, nil)
	require.NoError(t, err)
	b, err := BuildCFTree(ds, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, caseSets(a), caseSets(b))
	require.Equal(t, a.Threshold, b.Threshold)

	// Seed 0 falls back to the default seed.
	cfg.Seed = 0
	zero, err := BuildCFTree(ds, cfg, nil)
	require.NoError(t, err)
	cfg.Seed = defaultSeed
	one, err := BuildCFTree(ds, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, caseSets(zero), caseSets(one))
}

func TestBuildCFTree_NoiseHandling(t *testing.T) {
	var rows [][]float64
	for i := 0; i < 10; i++ {
		rows = append(rows, []float64{0, 0})
	}
	for i := 0; i < 10; i++ {
		rows = append(rows, []float64{10, 10})
	}
	rows = append(rows, []float64{3, 3})
	outlier := len(rows) - 1

	for _, dist := range []CFDistance{CFEuclidean, CFLogLikelihood} {
		t.Run(string(dist), func(t *testing.T) {
			cfg := DefaultCFTreeConfig()
			cfg.Distance = dist
			cfg.Threshold = 0.01
			cfg.NoiseHandling = true
			diag := &Diagnostics{}

			tree, err := BuildCFTree(continuousDataset(t, rows), cfg, diag)
			require.NoError(t, err)
			require.Equal(t, 1, tree.Dissolved)
			require.Len(t, tree.Entries, 2)
			requirePartition(t, len(rows), tree.Entries)

			for _, e := range tree.Entries {
				if slices.Contains(e.Cases, 0) {
					require.Equal(t, 11, e.N)
					require.Contains(t, e.Cases, outlier)
				} else {
					require.Equal(t, 10, e.N)
				}
			}
			require.Contains(t, diag.Notes[len(diag.Notes)-1], "dissolved 1 noise entries")
		})
	}
}

func TestBuildCFTree_NoNoiseWhenBalanced(t *testing.T) {
	rows := [][]float64{{0}, {0}, {9}, {9}}
	cfg := DefaultCFTreeConfig()
	cfg.Distance = CFEuclidean
	cfg.NoiseHandling = true
	tree, err := BuildCFTree(continuousDataset(t, rows), cfg, nil)
	require.NoError(t, err)
	require.Zero(t, tree.Dissolved)
	require.Len(t, tree.Entries, 2)
}

func TestBuildCFTree_EuclideanWarnsOnCategorical(t *testing.T) {
	ds, err := NewDataset(
		[][]float64{{0}, {1}},
		[][]Value{{Text("a")}, {Text("b")}},
		nil,
	)
	require.NoError(t, err)
	cfg := DefaultCFTreeConfig()
	cfg.Distance = CFEuclidean
	diag := &Diagnostics{}
	_, err = BuildCFTree(ds, cfg, diag)
	require.NoError(t, err)
	require.Len(t, diag.Warnings, 1)
	require.Contains(t, diag.Warnings[0], "ignores 1 categorical")
}

func TestBuildCFTree_Errors(t *testing.T) {
	good := continuousDataset(t, [][]float64{{0}, {1}})

	_, err := BuildCFTree(nil, DefaultCFTreeConfig(), nil)
	require.ErrorIs(t, err, ErrEmptyDataset)

	empty := &Dataset{}
	_, err = BuildCFTree(empty, DefaultCFTreeConfig(), nil)
	require.ErrorIs(t, err, ErrEmptyDataset)

	noVars := continuousDataset(t, [][]float64{{}, {}})
	_, err = BuildCFTree(noVars, DefaultCFTreeConfig(), nil)
	require.ErrorIs(t, err, ErrNoVariables)

	missing := continuousDataset(t, [][]float64{{0}, {math.NaN()}})
	_, err = BuildCFTree(missing, DefaultCFTreeConfig(), nil)
	require.ErrorIs(t, err, ErrMissingValues)

	bad := []CFTreeConfig{
		{MaxBranch: 1},
		{MaxDepth: -1},
		{Threshold: -1},
		{NoiseThreshold: 1.5},
		{NoiseThreshold: -0.1},
		{Distance: "manhattan"},
	}
	for _, cfg := range bad {
		_, err := BuildCFTree(good, cfg, nil)
		require.Error(t, err, "%+v", cfg)
	}
}

func TestCFTreeConfig_Capacity(t *testing.T) {
	cfg := DefaultCFTreeConfig()
	require.Equal(t, 512, cfg.capacity())

	cfg = CFTreeConfig{MaxBranch: 2, MaxDepth: 2}
	require.Equal(t, 4, cfg.capacity())

	cfg = CFTreeConfig{MaxBranch: 1000, MaxDepth: 10}
	require.Equal(t, math.MaxInt32, cfg.capacity())
}
