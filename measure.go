package hclust

import (
	"fmt"
	"sort"
)

// Measure names a proximity measure.
type Measure string

// Interval measures.
const (
	MeasureSquaredEuclidean Measure = "sqeuclidean"
	MeasureEuclidean        Measure = "euclidean"
	MeasureManhattan        Measure = "manhattan"
	MeasureChebyshev        Measure = "chebyshev"
	MeasureMinkowski        Measure = "minkowski"
	MeasurePower            Measure = "power"
	MeasureCorrelation      Measure = "correlation"
	MeasureCosine           Measure = "cosine"
)

// Counts measures.
const (
	MeasureChiSquare Measure = "chisq"
	MeasurePhiSquare Measure = "ph2"
)

// Binary measures.
const (
	MeasureBinaryEuclidean   Measure = "beuclid"
	MeasureBinarySqEuclidean Measure = "bseuclid"
	MeasureSizeDifference    Measure = "size"
	MeasurePatternDifference Measure = "pattern"
	MeasureBinaryVariance    Measure = "variance"
	MeasureBinaryShape       Measure = "bshape"
	MeasureLance             Measure = "lance"
	MeasureRussellRao        Measure = "rr"
	MeasureSimpleMatching    Measure = "sm"
	MeasureJaccard           Measure = "jaccard"
	MeasureDice              Measure = "dice"
	MeasureSokalSneath1      Measure = "ss1"
	MeasureRogersTanimoto    Measure = "rt"
	MeasureSokalSneath2      Measure = "ss2"
	MeasureKulczynski1       Measure = "k1"
	MeasureSokalSneath3      Measure = "ss3"
	MeasureKulczynski2       Measure = "k2"
	MeasureSokalSneath4      Measure = "ss4"
	MeasureHamann            Measure = "hamann"
	MeasureLambda            Measure = "lambda"
	MeasureAnderbergD        Measure = "d"
	MeasureYuleY             Measure = "y"
	MeasureYuleQ             Measure = "q"
	MeasureOchiai            Measure = "ochiai"
	MeasureSokalSneath5      Measure = "ss5"
	MeasurePhi               Measure = "phi"
	MeasureDispersion        Measure = "disper"
)

// MeasureConfig selects a measure and its parameters.
type MeasureConfig struct {
	Measure Measure

	// P is the exponent for Minkowski and power measures. Default: 2.
	P float64

	// R is the root for the power measure. Default: 2.
	R float64

	// Present and Absent code the two states of a binary variable.
	// Defaults: 1 and 0. Any other value is ignored by binary measures.
	Present float64
	Absent  float64
}

// DefaultMeasureConfig returns squared Euclidean with the usual parameters.
func DefaultMeasureConfig() MeasureConfig {
	return MeasureConfig{Measure: MeasureSquaredEuclidean, P: 2, R: 2, Present: 1, Absent: 0}
}

// IsBinaryMeasure reports whether m is one of the binary coefficients.
func IsBinaryMeasure(m Measure) bool {
	_, ok := binaryCoefficients[m]
	return ok
}

// IsSimilarity reports whether m is a similarity measure, so that larger
// values mean closer cases.
func IsSimilarity(m Measure) bool {
	coef, ok := binaryCoefficients[m]
	return ok && coef.Similarity
}

// Measures lists every measure name NewMetric accepts, sorted.
func Measures() []Measure {
	out := []Measure{
		MeasureSquaredEuclidean, MeasureEuclidean, MeasureManhattan, MeasureChebyshev,
		MeasureMinkowski, MeasurePower, MeasureCorrelation, MeasureCosine,
		MeasureChiSquare, MeasurePhiSquare,
	}
	for m := range binaryCoefficients {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewMetric resolves cfg into a DistanceMetric, validating the parameters
// the chosen measure needs.
func NewMetric(cfg MeasureConfig) (DistanceMetric, error) {
	switch cfg.Measure {
	case "", MeasureSquaredEuclidean:
		return SquaredEuclideanMetric{}, nil
	case MeasureEuclidean:
		return EuclideanMetric{}, nil
	case MeasureManhattan:
		return ManhattanMetric{}, nil
	case MeasureChebyshev:
		return ChebyshevMetric{}, nil
	case MeasureMinkowski:
		if cfg.P < 1 {
			return nil, fmt.Errorf("hclust: minkowski P must be >= 1, got %g", cfg.P)
		}
		return MinkowskiMetric{P: cfg.P}, nil
	case MeasurePower:
		if cfg.P <= 0 || cfg.R <= 0 {
			return nil, fmt.Errorf("hclust: power measure needs P > 0 and R > 0, got P=%g R=%g", cfg.P, cfg.R)
		}
		return PowerMetric{P: cfg.P, R: cfg.R}, nil
	case MeasureCorrelation:
		return CorrelationMetric{}, nil
	case MeasureCosine:
		return CosineMetric{}, nil
	case MeasureChiSquare:
		return ChiSquareMetric{}, nil
	case MeasurePhiSquare:
		return PhiSquareMetric{}, nil
	}

	coef, ok := binaryCoefficients[cfg.Measure]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasure, cfg.Measure)
	}
	if cfg.Present == cfg.Absent {
		return nil, fmt.Errorf("hclust: binary present and absent values must differ, both are %g", cfg.Present)
	}
	return BinaryMetric{Coefficient: coef, Present: cfg.Present, Absent: cfg.Absent}, nil
}
