package hclust

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DistanceMetric computes the proximity of two feature vectors. Dissimilarity
// metrics return 0 for identical vectors; similarity metrics (see
// SimilarityMetric) grow with agreement instead.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// SimilarityMetric is implemented by metrics whose value grows as the
// vectors agree. The agglomeration engine merges the most similar pair first
// for such metrics.
type SimilarityMetric interface {
	DistanceMetric
	Similarity() bool
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// isSimilarity reports whether m orders pairs by similarity.
func isSimilarity(m DistanceMetric) bool {
	s, ok := m.(SimilarityMetric)
	return ok && s.Similarity()
}

// pairwiseComplete drops every position where a or b is missing (NaN).
// The inputs are returned untouched when nothing is missing.
func pairwiseComplete(a, b []float64) ([]float64, []float64) {
	missing := false
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			missing = true
			break
		}
	}
	if !missing {
		return a, b
	}
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

// SquaredEuclideanMetric is the sum of squared differences. It is the default
// interval measure and the one centroid, median and Ward linkage assume.
type SquaredEuclideanMetric struct{}

func (SquaredEuclideanMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	return floats.Distance(a, b, 2)
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	return floats.Distance(a, b, 1)
}

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, math.Inf(1))
}

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1; NewMetric rejects smaller values.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	return floats.Distance(a, b, m.P)
}

// PowerMetric is the customized Minkowski measure: the absolute differences
// are raised to P, summed, and the R-th root of the sum is taken.
type PowerMetric struct {
	P, R float64
}

func (m PowerMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.P)
	}
	return math.Pow(sum, 1/m.R)
}

// CorrelationMetric is 1 - Pearson correlation of the two vectors. A vector
// with zero variance has no defined correlation; it is treated as
// uncorrelated, giving a distance of 1.
type CorrelationMetric struct{}

func (CorrelationMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	if len(a) < 2 {
		return 1
	}
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return 1 - r
}

// CosineMetric computes 1 - cosine similarity. A zero vector has no
// direction and yields a distance of 1.
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}
