package hclust

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CFDistance names the distance used between CF entries.
type CFDistance string

const (
	CFEuclidean     CFDistance = "euclidean"
	CFLogLikelihood CFDistance = "loglikelihood"
)

// logFloor keeps the log-likelihood terms finite for entries whose variance
// and variance floor are both zero.
const logFloor = 1e-12

// cfMetric measures the distance between two CF entries.
type cfMetric interface {
	distance(a, b *CFEntry) float64
}

// newCFMetric resolves kind. variances are the per-variable variances of the
// whole dataset, used by the log-likelihood distance.
func newCFMetric(kind CFDistance, variances []float64) (cfMetric, error) {
	switch kind {
	case "", CFLogLikelihood:
		return logLikelihoodCF{variances: variances}, nil
	case CFEuclidean:
		return euclideanCF{}, nil
	}
	return nil, fmt.Errorf("%w: CF distance %q", ErrUnknownMeasure, kind)
}

// euclideanCF is the Euclidean distance between entry centroids.
type euclideanCF struct{}

func (euclideanCF) distance(a, b *CFEntry) float64 {
	return floats.Distance(a.Centroid(), b.Centroid(), 2)
}

// logLikelihoodCF is the decrease in log-likelihood caused by merging two
// entries: d(A,B) = xi(A) + xi(B) - xi(A u B).
type logLikelihoodCF struct {
	variances []float64
}

func (m logLikelihoodCF) distance(a, b *CFEntry) float64 {
	return m.xi(a) + m.xi(b) - m.xiUnion(a, b)
}

// xi computes
//
//	-N * ( sum_k 1/2 ln(var_k + var_vk) + sum_cat entropy_v )
//
// where var_k is the dataset variance of variable k and var_vk the variance
// within the entry.
func (m logLikelihoodCF) xi(e *CFEntry) float64 {
	if e.N == 0 {
		return 0
	}
	var sum float64
	for k := range e.Sum {
		sum += 0.5 * math.Log(math.Max(m.floor(k)+e.Variance(k), logFloor))
	}
	for _, table := range e.Counts {
		sum += categoryEntropy(table, e.N)
	}
	return -float64(e.N) * sum
}

// xiUnion is xi of the combined entry without materializing it.
func (m logLikelihoodCF) xiUnion(a, b *CFEntry) float64 {
	n := a.N + b.N
	if n == 0 {
		return 0
	}
	fn := float64(n)
	var sum float64
	for k := range a.Sum {
		mean := (a.Sum[k] + b.Sum[k]) / fn
		v := (a.SumSq[k]+b.SumSq[k])/fn - mean*mean
		if v < 0 {
			v = 0
		}
		sum += 0.5 * math.Log(math.Max(m.floor(k)+v, logFloor))
	}
	for k := range a.Counts {
		sum += mergedEntropy(a.Counts[k], b.Counts[k], n)
	}
	return -fn * sum
}

func (m logLikelihoodCF) floor(k int) float64 {
	if k < len(m.variances) {
		return m.variances[k]
	}
	return 0
}

// categoryEntropy is the entropy of a category table with n observations.
// Categories are visited in a fixed order so results are reproducible.
func categoryEntropy(table map[Value]int, n int) float64 {
	if n == 0 {
		return 0
	}
	p := make([]float64, 0, len(table))
	for _, v := range sortedCategories(table) {
		p = append(p, float64(table[v])/float64(n))
	}
	return stat.Entropy(p)
}

func mergedEntropy(a, b map[Value]int, n int) float64 {
	merged := make(map[Value]int, len(a)+len(b))
	for v, c := range a {
		merged[v] += c
	}
	for v, c := range b {
		merged[v] += c
	}
	return categoryEntropy(merged, n)
}

// sortedCategories returns the keys of table in a stable order: by kind,
// then by rendered value.
func sortedCategories(table map[Value]int) []Value {
	keys := make([]Value, 0, len(table))
	for v := range table {
		keys = append(keys, v)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		if keys[i].kind == KindNumber {
			return keys[i].num < keys[j].num
		}
		return keys[i].String() < keys[j].String()
	})
	return keys
}
