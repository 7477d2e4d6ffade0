package hclust

import (
	"gonum.org/v1/gonum/mat"
)

// Proximity computes the case-by-case proximity matrix of ds under the
// measure in cfg. It is independent of the agglomeration: a failure here
// says nothing about the other outputs and vice versa.
func Proximity(ds *Dataset, cfg Config) (*mat.SymDense, *Diagnostics, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, nil, err
	}
	diag := &Diagnostics{}
	rows, metric, err := prepareRows(ds, cfg, diag)
	if err != nil {
		return nil, diag, err
	}
	flat, err := ComputePairwiseDistancesParallel(rows, metric, cfg.Workers)
	if err != nil {
		return nil, diag, err
	}
	return mat.NewSymDense(len(rows), flat), diag, nil
}

// prepareRows validates ds, applies the configured transformation and
// resolves the metric.
func prepareRows(ds *Dataset, cfg Config, diag *Diagnostics) ([][]float64, DistanceMetric, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if ds.NumContinuous() == 0 {
		return nil, nil, ErrNoVariables
	}
	metric, err := NewMetric(cfg.Measure)
	if err != nil {
		return nil, nil, err
	}
	rows := ds.rows()
	if cfg.Standardize {
		rows = Standardize(rows, diag)
	}
	if ds.HasMissing() {
		diag.Notef("missing values excluded pairwise")
	}
	return rows, metric, nil
}
