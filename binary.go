package hclust

import "math"

// ratioSentinel is returned by the ratio-type binary coefficients (K1, SS3)
// when their denominator is zero.
const ratioSentinel = 9999.999

// Contingency is the 2x2 table of a pair of binary vectors:
// A = both present, B = present/absent, C = absent/present, D = both absent.
type Contingency struct {
	A, B, C, D float64
}

// N returns the number of positions that entered the table.
func (t Contingency) N() float64 { return t.A + t.B + t.C + t.D }

// NewContingency tallies x against y. Positions holding a value that is
// neither present nor absent (including NaN) are ignored.
func NewContingency(x, y []float64, present, absent float64) Contingency {
	var t Contingency
	for i := range x {
		xp, xa := x[i] == present, x[i] == absent
		yp, ya := y[i] == present, y[i] == absent
		switch {
		case xp && yp:
			t.A++
		case xp && ya:
			t.B++
		case xa && yp:
			t.C++
		case xa && ya:
			t.D++
		}
	}
	return t
}

// BinaryCoefficient is a closed-form measure over a contingency table.
type BinaryCoefficient struct {
	Name       string
	Similarity bool
	Fn         func(t Contingency) float64
}

// div returns num/den, or zero when den is zero.
func div(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func lambdaTerms(t Contingency) (t1, t2 float64) {
	a, b, c, d := t.A, t.B, t.C, t.D
	t1 = math.Max(a, b) + math.Max(c, d) + math.Max(a, c) + math.Max(b, d)
	t2 = math.Max(a+c, b+d) + math.Max(a+b, c+d)
	return t1, t2
}

// binaryCoefficients lists every supported binary measure. Unless noted, a
// zero denominator yields 0.
var binaryCoefficients = map[Measure]BinaryCoefficient{
	MeasureBinaryEuclidean: {"beuclid", false, func(t Contingency) float64 {
		return math.Sqrt(t.B + t.C)
	}},
	MeasureBinarySqEuclidean: {"bseuclid", false, func(t Contingency) float64 {
		return t.B + t.C
	}},
	MeasureSizeDifference: {"size", false, func(t Contingency) float64 {
		n := t.N()
		return div((t.B-t.C)*(t.B-t.C), n*n)
	}},
	MeasurePatternDifference: {"pattern", false, func(t Contingency) float64 {
		n := t.N()
		return div(t.B*t.C, n*n)
	}},
	MeasureBinaryVariance: {"variance", false, func(t Contingency) float64 {
		return div(t.B+t.C, 4*t.N())
	}},
	MeasureBinaryShape: {"bshape", false, func(t Contingency) float64 {
		n := t.N()
		return div(n*(t.B+t.C)-(t.B-t.C)*(t.B-t.C), n*n)
	}},
	MeasureLance: {"lance", false, func(t Contingency) float64 {
		return div(t.B+t.C, 2*t.A+t.B+t.C)
	}},
	MeasureRussellRao: {"rr", true, func(t Contingency) float64 {
		return div(t.A, t.N())
	}},
	MeasureSimpleMatching: {"sm", true, func(t Contingency) float64 {
		return div(t.A+t.D, t.N())
	}},
	MeasureJaccard: {"jaccard", true, func(t Contingency) float64 {
		return div(t.A, t.A+t.B+t.C)
	}},
	MeasureDice: {"dice", true, func(t Contingency) float64 {
		return div(2*t.A, 2*t.A+t.B+t.C)
	}},
	MeasureSokalSneath1: {"ss1", true, func(t Contingency) float64 {
		return div(2*(t.A+t.D), 2*(t.A+t.D)+t.B+t.C)
	}},
	MeasureRogersTanimoto: {"rt", true, func(t Contingency) float64 {
		return div(t.A+t.D, t.A+t.D+2*(t.B+t.C))
	}},
	MeasureSokalSneath2: {"ss2", true, func(t Contingency) float64 {
		return div(t.A, t.A+2*(t.B+t.C))
	}},
	// K1 and SS3 are unbounded ratios; a perfect match reports the sentinel.
	MeasureKulczynski1: {"k1", true, func(t Contingency) float64 {
		if t.B+t.C == 0 {
			return ratioSentinel
		}
		return t.A / (t.B + t.C)
	}},
	MeasureSokalSneath3: {"ss3", true, func(t Contingency) float64 {
		if t.B+t.C == 0 {
			return ratioSentinel
		}
		return (t.A + t.D) / (t.B + t.C)
	}},
	MeasureKulczynski2: {"k2", true, func(t Contingency) float64 {
		return (div(t.A, t.A+t.B) + div(t.A, t.A+t.C)) / 2
	}},
	MeasureSokalSneath4: {"ss4", true, func(t Contingency) float64 {
		return (div(t.A, t.A+t.B) + div(t.A, t.A+t.C) + div(t.D, t.B+t.D) + div(t.D, t.C+t.D)) / 4
	}},
	MeasureHamann: {"hamann", true, func(t Contingency) float64 {
		return div((t.A+t.D)-(t.B+t.C), t.N())
	}},
	MeasureLambda: {"lambda", true, func(t Contingency) float64 {
		t1, t2 := lambdaTerms(t)
		return div(t1-t2, 2*t.N()-t2)
	}},
	MeasureAnderbergD: {"d", true, func(t Contingency) float64 {
		t1, t2 := lambdaTerms(t)
		return div(t1-t2, 2*t.N())
	}},
	MeasureYuleY: {"y", true, func(t Contingency) float64 {
		ad, bc := math.Sqrt(t.A*t.D), math.Sqrt(t.B*t.C)
		return div(ad-bc, ad+bc)
	}},
	MeasureYuleQ: {"q", true, func(t Contingency) float64 {
		return div(t.A*t.D-t.B*t.C, t.A*t.D+t.B*t.C)
	}},
	MeasureOchiai: {"ochiai", true, func(t Contingency) float64 {
		return div(t.A, math.Sqrt((t.A+t.B)*(t.A+t.C)))
	}},
	MeasureSokalSneath5: {"ss5", true, func(t Contingency) float64 {
		return div(t.A*t.D, math.Sqrt((t.A+t.B)*(t.A+t.C)*(t.B+t.D)*(t.C+t.D)))
	}},
	MeasurePhi: {"phi", true, func(t Contingency) float64 {
		return div(t.A*t.D-t.B*t.C, math.Sqrt((t.A+t.B)*(t.A+t.C)*(t.B+t.D)*(t.C+t.D)))
	}},
	MeasureDispersion: {"disper", true, func(t Contingency) float64 {
		n := t.N()
		return div(t.A*t.D-t.B*t.C, n*n)
	}},
}

// BinaryMetric applies a binary coefficient to vectors coded with the
// Present and Absent values.
type BinaryMetric struct {
	Coefficient BinaryCoefficient
	Present     float64
	Absent      float64
}

func (m BinaryMetric) Distance(a, b []float64) float64 {
	return m.Coefficient.Fn(NewContingency(a, b, m.Present, m.Absent))
}

func (m BinaryMetric) Similarity() bool { return m.Coefficient.Similarity }
