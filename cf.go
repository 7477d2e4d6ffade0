package hclust

import "maps"

// CFEntry holds the sufficient statistics of a group of cases: the count,
// per-variable sums and sums of squares, per-categorical-variable category
// counts, and the indices of the cases it stands for.
type CFEntry struct {
	N      int
	Sum    []float64
	SumSq  []float64
	Counts []map[Value]int
	Cases  []int
}

// NewCFEntry returns an empty entry for nCont continuous and nCat
// categorical variables.
func NewCFEntry(nCont, nCat int) *CFEntry {
	e := &CFEntry{
		Sum:    make([]float64, nCont),
		SumSq:  make([]float64, nCont),
		Counts: make([]map[Value]int, nCat),
	}
	for k := range e.Counts {
		e.Counts[k] = make(map[Value]int)
	}
	return e
}

// AddCase folds one case into the entry.
func (e *CFEntry) AddCase(idx int, cont []float64, cat []Value) {
	e.N++
	for k, v := range cont {
		e.Sum[k] += v
		e.SumSq[k] += v * v
	}
	for k, v := range cat {
		e.Counts[k][v]++
	}
	e.Cases = append(e.Cases, idx)
}

// Combine folds o into e. o is left untouched.
func (e *CFEntry) Combine(o *CFEntry) {
	e.N += o.N
	for k := range e.Sum {
		e.Sum[k] += o.Sum[k]
		e.SumSq[k] += o.SumSq[k]
	}
	for k, table := range o.Counts {
		for v, c := range table {
			e.Counts[k][v] += c
		}
	}
	e.Cases = append(e.Cases, o.Cases...)
}

// Clone returns a deep copy of e.
func (e *CFEntry) Clone() *CFEntry {
	c := &CFEntry{
		N:      e.N,
		Sum:    append([]float64(nil), e.Sum...),
		SumSq:  append([]float64(nil), e.SumSq...),
		Counts: make([]map[Value]int, len(e.Counts)),
		Cases:  append([]int(nil), e.Cases...),
	}
	for k, table := range e.Counts {
		c.Counts[k] = maps.Clone(table)
	}
	return c
}

// Combined returns a new entry holding the union of a and b.
func Combined(a, b *CFEntry) *CFEntry {
	c := a.Clone()
	c.Combine(b)
	return c
}

// Centroid returns the per-variable means. An empty entry has a zero
// centroid.
func (e *CFEntry) Centroid() []float64 {
	out := make([]float64, len(e.Sum))
	if e.N == 0 {
		return out
	}
	for k, s := range e.Sum {
		out[k] = s / float64(e.N)
	}
	return out
}

// Variance returns the population variance of continuous variable k within
// the entry, clamped at zero against rounding.
func (e *CFEntry) Variance(k int) float64 {
	if e.N == 0 {
		return 0
	}
	n := float64(e.N)
	mean := e.Sum[k] / n
	v := e.SumSq[k]/n - mean*mean
	if v < 0 {
		return 0
	}
	return v
}
