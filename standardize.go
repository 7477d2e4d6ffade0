package hclust

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardize returns z-scored copies of rows: every column is centered on
// its mean and divided by its sample standard deviation. Missing values
// (NaN) are skipped when estimating the moments and stay NaN. A column with
// zero spread is only centered and reported to diag.
func Standardize(rows [][]float64, diag *Diagnostics) [][]float64 {
	if len(rows) == 0 {
		return rows
	}
	dims := len(rows[0])
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = make([]float64, dims)
		copy(out[i], r)
	}

	col := make([]float64, 0, len(rows))
	for j := 0; j < dims; j++ {
		col = col[:0]
		for _, r := range rows {
			if !math.IsNaN(r[j]) {
				col = append(col, r[j])
			}
		}
		if len(col) == 0 {
			diag.Warnf("variable %d has no valid values; left unstandardized", j+1)
			continue
		}
		mean, std := stat.MeanStdDev(col, nil)
		if len(col) < 2 || std == 0 || math.IsNaN(std) {
			diag.Warnf("variable %d has zero variance; centered only", j+1)
			std = 1
		}
		for i := range out {
			if !math.IsNaN(out[i][j]) {
				out[i][j] = (out[i][j] - mean) / std
			}
		}
	}
	return out
}

// columnVariances returns the population variance of every column. The
// log-likelihood CF distance uses them as per-variable variance floors.
func columnVariances(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	out := make([]float64, dims)
	col := make([]float64, len(rows))
	for j := 0; j < dims; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		_, v := stat.PopMeanVariance(col, nil)
		out[j] = v
	}
	return out
}
