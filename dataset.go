package hclust

import (
	"fmt"
	"math"
	"strconv"
)

// Case is one row of the input: continuous values (NaN marks a missing
// value), categorical values and an optional display label.
type Case struct {
	Index       int
	Continuous  []float64
	Categorical []Value
	Label       string
}

// Dataset is a rectangular collection of cases. It is built once by the
// data-preparation layer and never mutated by the clustering code.
type Dataset struct {
	Cases            []Case
	ContinuousNames  []string
	CategoricalNames []string
}

// NewDataset builds a Dataset from a continuous matrix (cases x variables)
// and an optional parallel categorical matrix. Either matrix may be nil, but
// when both are present they must have the same number of rows. labels may
// be nil or hold one entry per case.
func NewDataset(continuous [][]float64, categorical [][]Value, labels []string) (*Dataset, error) {
	n := len(continuous)
	if n == 0 {
		n = len(categorical)
	}
	if continuous != nil && categorical != nil && len(continuous) != len(categorical) {
		return nil, fmt.Errorf("%w: %d continuous rows, %d categorical rows",
			ErrDimensionMismatch, len(continuous), len(categorical))
	}
	if labels != nil && len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d cases", ErrDimensionMismatch, len(labels), n)
	}

	var nCont, nCat int
	if len(continuous) > 0 {
		nCont = len(continuous[0])
	}
	if len(categorical) > 0 {
		nCat = len(categorical[0])
	}

	ds := &Dataset{Cases: make([]Case, n)}
	for i := 0; i < n; i++ {
		c := Case{Index: i}
		if continuous != nil {
			if len(continuous[i]) != nCont {
				return nil, fmt.Errorf("%w: case %d has %d continuous values, want %d",
					ErrDimensionMismatch, i, len(continuous[i]), nCont)
			}
			c.Continuous = continuous[i]
		}
		if categorical != nil {
			if len(categorical[i]) != nCat {
				return nil, fmt.Errorf("%w: case %d has %d categorical values, want %d",
					ErrDimensionMismatch, i, len(categorical[i]), nCat)
			}
			c.Categorical = categorical[i]
		}
		if labels != nil {
			c.Label = labels[i]
		}
		ds.Cases[i] = c
	}
	return ds, nil
}

// Len returns the number of cases.
func (d *Dataset) Len() int { return len(d.Cases) }

// NumContinuous returns the number of continuous variables.
func (d *Dataset) NumContinuous() int {
	if len(d.Cases) == 0 {
		return len(d.ContinuousNames)
	}
	return len(d.Cases[0].Continuous)
}

// NumCategorical returns the number of categorical variables.
func (d *Dataset) NumCategorical() int {
	if len(d.Cases) == 0 {
		return len(d.CategoricalNames)
	}
	return len(d.Cases[0].Categorical)
}

// Labels returns one display label per case, falling back to the 1-based
// case number for unlabeled cases.
func (d *Dataset) Labels() []string {
	out := make([]string, len(d.Cases))
	for i, c := range d.Cases {
		if c.Label != "" {
			out[i] = c.Label
		} else {
			out[i] = strconv.Itoa(i + 1)
		}
	}
	return out
}

// rows returns the continuous vectors of all cases.
func (d *Dataset) rows() [][]float64 {
	out := make([][]float64, len(d.Cases))
	for i, c := range d.Cases {
		out[i] = c.Continuous
	}
	return out
}

// HasMissing reports whether any continuous cell is NaN.
func (d *Dataset) HasMissing() bool {
	for _, c := range d.Cases {
		for _, v := range c.Continuous {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// withContinuous returns a shallow copy of d whose continuous rows are
// replaced by rows. Categorical data and labels are shared.
func (d *Dataset) withContinuous(rows [][]float64) *Dataset {
	out := &Dataset{
		Cases:            make([]Case, len(d.Cases)),
		ContinuousNames:  d.ContinuousNames,
		CategoricalNames: d.CategoricalNames,
	}
	for i, c := range d.Cases {
		c.Continuous = rows[i]
		out.Cases[i] = c
	}
	return out
}
