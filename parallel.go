package hclust

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ComputePairwiseDistances computes the full n*n proximity matrix of rows.
// Returns flat []float64 of length n*n in row-major order. Rows of unequal
// length yield ErrDimensionMismatch.
func ComputePairwiseDistances(rows [][]float64, metric DistanceMetric) ([]float64, error) {
	n := len(rows)
	result := make([]float64, n*n)
	if err := fillRows(result, rows, metric, 0, n); err != nil {
		return nil, err
	}
	return result, nil
}

// ComputePairwiseDistancesParallel computes the same matrix as
// ComputePairwiseDistances using numWorkers goroutines. Workers own
// contiguous ranges of source rows and compute d(i,j) for j > i, so no two
// workers write the same cell. The result is bitwise identical to the
// sequential version.
func ComputePairwiseDistancesParallel(rows [][]float64, metric DistanceMetric, numWorkers int) ([]float64, error) {
	n := len(rows)
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers == 1 || n <= 1 {
		return ComputePairwiseDistances(rows, metric)
	}

	result := make([]float64, n*n)

	// Row i costs n-i-1 evaluations, so equal-sized ranges would leave the
	// last workers idle. Cut ranges by pair count instead.
	total := n * (n - 1) / 2
	perWorker := (total + numWorkers - 1) / numWorkers

	var g errgroup.Group
	start, acc := 0, 0
	for i := 0; i < n; i++ {
		acc += n - i - 1
		if acc >= perWorker || i == n-1 {
			lo, hi := start, i+1
			g.Go(func() error {
				return fillRows(result, rows, metric, lo, hi)
			})
			start, acc = i+1, 0
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// fillRows writes d(i,j) and d(j,i) for lo <= i < hi and all j > i. Every
// row is checked against the width of row 0 before a metric sees it.
func fillRows(result []float64, rows [][]float64, metric DistanceMetric, lo, hi int) error {
	n := len(rows)
	if n == 0 {
		return nil
	}
	dims := len(rows[0])
	for i := lo; i < hi; i++ {
		if len(rows[i]) != dims {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(rows[i]), dims)
		}
		for j := i + 1; j < n; j++ {
			if len(rows[j]) != dims {
				return fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, j, len(rows[j]), dims)
			}
			d := metric.Distance(rows[i], rows[j])
			result[i*n+j] = d
			result[j*n+i] = d
		}
	}
	return nil
}
