package hclust

import (
	"fmt"
	"runtime"
)

// Config controls a hierarchical clustering run.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Linkage chooses how distances to a merged cluster are derived.
	// Default: LinkageAverageBetween.
	Linkage Linkage

	// Measure selects the proximity measure between cases and its
	// parameters. Default: squared Euclidean.
	Measure MeasureConfig

	// Standardize z-scores every continuous variable before measuring
	// proximity. Default: false.
	Standardize bool

	// Workers controls the number of goroutines computing the proximity
	// matrix. 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Window selects the cluster counts shown in the icicle plot.
	// Default: all of them.
	Window DisplayWindow

	// MinClusters and MaxClusters request cluster memberships for every k
	// in the closed range. Both 0 skips memberships. Must satisfy
	// 1 <= MinClusters <= MaxClusters when set.
	MinClusters int
	MaxClusters int
}

// Result contains the output of hierarchical clustering. The schedule is
// always present; each derived output either succeeded or carries its own
// error, independently of the others.
type Result struct {
	Schedule *Schedule

	// LinkageMatrix is the schedule in scipy format: each row is
	// [left, right, height, size]. Internal cluster ids start at n.
	LinkageMatrix [][4]float64

	Dendrogram    *Dendrogram
	DendrogramErr error

	Icicle    *IciclePlot
	IcicleErr error

	// Memberships maps k to the 1-based cluster of every case.
	Memberships   map[int][]int
	MembershipErr error

	Diagnostics *Diagnostics
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Linkage: LinkageAverageBetween,
		Measure: DefaultMeasureConfig(),
		Window:  DisplayWindow{Mode: DisplayAll},
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Linkage == "" {
		cfg.Linkage = LinkageAverageBetween
	}
	if cfg.Measure.Measure == "" {
		cfg.Measure.Measure = MeasureSquaredEuclidean
	}
	if cfg.Measure.P == 0 {
		cfg.Measure.P = 2
	}
	if cfg.Measure.R == 0 {
		cfg.Measure.R = 2
	}
	if cfg.Measure.Present == 0 && cfg.Measure.Absent == 0 {
		cfg.Measure.Present = 1
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if _, err := ParseLinkage(string(cfg.Linkage)); err != nil {
		return err
	}
	if _, err := NewMetric(cfg.Measure); err != nil {
		return err
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("hclust: Workers must be >= 0, got %d", cfg.Workers)
	}
	if cfg.MinClusters < 0 || cfg.MaxClusters < 0 {
		return fmt.Errorf("hclust: MinClusters and MaxClusters must be >= 0, got %d and %d",
			cfg.MinClusters, cfg.MaxClusters)
	}
	if (cfg.MinClusters == 0) != (cfg.MaxClusters == 0) || cfg.MinClusters > cfg.MaxClusters {
		return fmt.Errorf("hclust: membership range [%d, %d] is invalid", cfg.MinClusters, cfg.MaxClusters)
	}
	return nil
}

// BuildSchedule measures every pair of cases in ds and agglomerates them
// under cfg.Linkage.
func BuildSchedule(ds *Dataset, cfg Config) (*Schedule, *Diagnostics, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, nil, err
	}
	diag := &Diagnostics{}
	rows, metric, err := prepareRows(ds, cfg, diag)
	if err != nil {
		return nil, diag, err
	}
	if len(rows) < 2 {
		return nil, diag, fmt.Errorf("%w: need at least 2 cases, got %d", ErrTooFewCases, len(rows))
	}

	similarity := isSimilarity(metric)
	if similarity && cfg.Linkage == LinkageWard {
		// Ward's coefficient is a running sum of squares; it has no meaning
		// over similarities.
		return nil, diag, fmt.Errorf("%w: %s with similarity measure %s",
			ErrLinkageMeasure, cfg.Linkage, cfg.Measure.Measure)
	}
	if cfg.Linkage.NeedsSquaredEuclidean() && cfg.Measure.Measure != MeasureSquaredEuclidean {
		diag.Warnf("%s linkage should be used with squared Euclidean distances, got %s",
			cfg.Linkage, cfg.Measure.Measure)
	}
	if !cfg.Linkage.Monotone() {
		diag.Notef("%s linkage may produce decreasing merge heights", cfg.Linkage)
	}

	flat, err := ComputePairwiseDistancesParallel(rows, metric, cfg.Workers)
	if err != nil {
		return nil, diag, err
	}
	if similarity {
		for i := range flat {
			flat[i] = -flat[i]
		}
	}
	sched, err := scheduleFromMatrix(flat, len(rows), cfg.Linkage, similarity)
	return sched, diag, err
}

// SchedulePrecomputed agglomerates a precomputed dissimilarity matrix.
// distMatrix is a flat []float64 of length n*n in row-major order, where
// distMatrix[i*n+j] is the distance between items i and j. The
// Config.Measure field is ignored since distances are already computed.
func SchedulePrecomputed(distMatrix []float64, n int, cfg Config) (*Schedule, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 items, got %d", ErrTooFewCases, n)
	}
	return scheduleFromMatrix(distMatrix, n, cfg.Linkage, false)
}

func scheduleFromMatrix(flat []float64, n int, method Linkage, similarity bool) (*Schedule, error) {
	state, err := NewClusterState(flat, n)
	if err != nil {
		return nil, err
	}
	return NewEngine(method, similarity).Run(state)
}

// Cluster performs hierarchical clustering of ds and derives the
// dendrogram, the icicle plot and the requested memberships. A failure to
// build the schedule is returned as the error; failures of the derived
// outputs are reported on the Result.
func Cluster(ds *Dataset, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	sched, diag, err := BuildSchedule(ds, cfg)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Schedule:      sched,
		LinkageMatrix: sched.LinkageMatrix(),
		Diagnostics:   diag,
	}
	r.Dendrogram, r.DendrogramErr = BuildDendrogram(sched, ds.Labels())
	r.Icicle, r.IcicleErr = BuildIcicle(sched, cfg.Window)
	if cfg.MaxClusters > 0 {
		r.Memberships, r.MembershipErr = MembershipRange(sched, cfg.MinClusters, cfg.MaxClusters)
	}
	return r, nil
}
