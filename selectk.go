package hclust

import "math"

// KCriteria is what a KSelector gets to choose the number of clusters from.
type KCriteria struct {
	// Distances holds the merge distance of every stage in order. Going from
	// k clusters to k-1 happens at stage m-k+1, where m = len(Distances)+1.
	Distances []float64
	// BIC[k-1] is the Bayesian information criterion of the k-cluster
	// solution. Nil when the bound is not wanted.
	BIC []float64
	// MaxK caps the answer.
	MaxK int
}

// KSelector picks the number of clusters of a two-step solution.
type KSelector interface {
	SelectK(c KCriteria) int
}

// RatioSelector picks K at the largest jump between consecutive merge
// distances. When a BIC curve is given, K is bounded above by the first
// solution whose BIC change relative to the 1-to-2 change falls below
// BICRatio; a negative 1-to-2 change means one cluster.
type RatioSelector struct {
	// BICRatio defaults to 0.04.
	BICRatio float64
	// Separation is how much the largest distance ratio must exceed the
	// runner-up to win outright; otherwise the larger K of the two is
	// chosen. Defaults to 1.15.
	Separation float64
}

// SelectK implements KSelector.
func (r RatioSelector) SelectK(c KCriteria) int {
	bicRatio := r.BICRatio
	if bicRatio <= 0 {
		bicRatio = 0.04
	}
	separation := r.Separation
	if separation <= 0 {
		separation = 1.15
	}

	m := len(c.Distances) + 1
	upper := m
	if c.MaxK > 0 && c.MaxK < upper {
		upper = c.MaxK
	}
	if upper <= 1 {
		return 1
	}

	if len(c.BIC) == m && m > 1 {
		dBIC := func(k int) float64 { return c.BIC[k-1] - c.BIC[k] }
		d1 := dBIC(1)
		if d1 < 0 {
			return 1
		}
		if d1 > 0 {
			for k := 2; k < m && k <= upper; k++ {
				if dBIC(k)/d1 < bicRatio {
					upper = k
					break
				}
			}
		}
	}

	// merge(k) is the distance paid to go from k clusters to k-1.
	merge := func(k int) float64 { return c.Distances[m-k] }

	best, second := -1, -1
	bestR, secondR := math.Inf(-1), math.Inf(-1)
	for k := 2; k <= upper && k < m; k++ {
		num, den := merge(k), merge(k+1)
		var ratio float64
		switch {
		case den > 0:
			ratio = num / den
		case num > 0:
			ratio = math.Inf(1)
		default:
			continue
		}
		switch {
		case ratio > bestR:
			second, secondR = best, bestR
			best, bestR = k, ratio
		case ratio > secondR:
			second, secondR = k, ratio
		}
	}

	switch {
	case best < 0:
		return upper
	case second < 0 || bestR > separation*secondR:
		return best
	default:
		return max(best, second)
	}
}
