package hclust

import "math"

// ChiSquareMetric measures the dissimilarity of two frequency vectors:
//
//	sqrt( sum_i 2*(x_i - e_i)^2 / e_i ),  e_i = (x_i + y_i) / 2
//
// Components whose expected count e_i is zero contribute nothing.
type ChiSquareMetric struct{}

func (ChiSquareMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	return math.Sqrt(chiSquareSum(a, b))
}

// PhiSquareMetric is the chi-square measure normalized by the square root of
// the combined frequency total. Two all-zero vectors are at distance 0.
type PhiSquareMetric struct{}

func (PhiSquareMetric) Distance(a, b []float64) float64 {
	a, b = pairwiseComplete(a, b)
	var total float64
	for i := range a {
		total += a[i] + b[i]
	}
	if total <= 0 {
		return 0
	}
	return math.Sqrt(chiSquareSum(a, b)) / math.Sqrt(total)
}

func chiSquareSum(a, b []float64) float64 {
	var sum float64
	for i := range a {
		e := (a[i] + b[i]) / 2
		if e == 0 {
			continue
		}
		d := a[i] - e
		sum += 2 * d * d / e
	}
	return sum
}
