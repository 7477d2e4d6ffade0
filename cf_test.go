package hclust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func entryOf(rows [][]float64, cats [][]Value) *CFEntry {
	nCat := 0
	if len(cats) > 0 {
		nCat = len(cats[0])
	}
	e := NewCFEntry(len(rows[0]), nCat)
	for i, r := range rows {
		var c []Value
		if cats != nil {
			c = cats[i]
		}
		e.AddCase(i, r, c)
	}
	return e
}

func TestCFEntry_AddCase(t *testing.T) {
	e := entryOf(
		[][]float64{{1, 2}, {3, 6}},
		[][]Value{{Text("a")}, {Text("b")}},
	)
	require.Equal(t, 2, e.N)
	require.Equal(t, []float64{4, 8}, e.Sum)
	require.Equal(t, []float64{10, 40}, e.SumSq)
	require.Equal(t, map[Value]int{Text("a"): 1, Text("b"): 1}, e.Counts[0])
	require.Equal(t, []int{0, 1}, e.Cases)
	require.Equal(t, []float64{2, 4}, e.Centroid())
	require.InDelta(t, 1.0, e.Variance(0), floatTol)
	require.InDelta(t, 4.0, e.Variance(1), floatTol)
}

func TestCFEntry_SingleCaseCentroid(t *testing.T) {
	e := NewCFEntry(3, 0)
	e.AddCase(7, []float64{1.5, -2, 0}, nil)
	require.Equal(t, []float64{1.5, -2, 0}, e.Centroid())
	require.Zero(t, e.Variance(0))
	require.Equal(t, []int{7}, e.Cases)
}

func TestCFEntry_EmptyCentroid(t *testing.T) {
	e := NewCFEntry(2, 1)
	require.Equal(t, []float64{0, 0}, e.Centroid())
	require.Zero(t, e.Variance(1))
}

func TestCFEntry_CombineAndCombined(t *testing.T) {
	a := entryOf([][]float64{{0}, {2}}, [][]Value{{Text("x")}, {Text("x")}})
	b := NewCFEntry(1, 1)
	b.AddCase(5, []float64{4}, []Value{Text("y")})

	c := Combined(a, b)
	require.Equal(t, 3, c.N)
	require.Equal(t, []float64{6}, c.Sum)
	require.Equal(t, map[Value]int{Text("x"): 2, Text("y"): 1}, c.Counts[0])
	require.Equal(t, []int{0, 1, 5}, c.Cases)

	// Combined leaves its inputs alone.
	require.Equal(t, 2, a.N)
	require.Equal(t, map[Value]int{Text("x"): 2}, a.Counts[0])
	require.Equal(t, 1, b.N)

	a.Combine(b)
	require.Equal(t, c.N, a.N)
	require.Equal(t, c.Sum, a.Sum)
	require.Equal(t, c.SumSq, a.SumSq)
}

func TestCFEntry_CloneIsDeep(t *testing.T) {
	a := entryOf([][]float64{{1}}, [][]Value{{Number(3)}})
	c := a.Clone()
	c.AddCase(1, []float64{5}, []Value{Number(3)})
	require.Equal(t, 1, a.N)
	require.Equal(t, []float64{1}, a.Sum)
	require.Equal(t, 1, a.Counts[0][Number(3)])
	require.Equal(t, []int{0}, a.Cases)
}

func TestEuclideanCF(t *testing.T) {
	a := entryOf([][]float64{{0, 0}, {2, 0}}, nil)
	b := entryOf([][]float64{{4, 3}}, nil)
	m, err := newCFMetric(CFEuclidean, nil)
	require.NoError(t, err)
	// centroids (1,0) and (4,3)
	require.InDelta(t, math.Sqrt(18), m.distance(a, b), floatTol)
}

func TestLogLikelihoodCF(t *testing.T) {
	variances := []float64{1}
	m, err := newCFMetric(CFLogLikelihood, variances)
	require.NoError(t, err)
	ll := m.(logLikelihoodCF)

	a := NewCFEntry(1, 0)
	a.AddCase(0, []float64{0}, nil)
	b := NewCFEntry(1, 0)
	b.AddCase(1, []float64{2}, nil)

	// xi(single) = -0.5 ln(1); xi(a u b) = -2 * 0.5 ln(1 + 1)
	require.InDelta(t, 0, ll.xi(a), floatTol)
	require.InDelta(t, math.Log(2), m.distance(a, b), floatTol)
	require.InDelta(t, m.distance(a, b), m.distance(b, a), floatTol)
	require.InDelta(t, ll.xi(Combined(a, b)), ll.xiUnion(a, b), floatTol)

	// Identical cases cost nothing to merge.
	c := NewCFEntry(1, 0)
	c.AddCase(2, []float64{0}, nil)
	require.InDelta(t, 0, m.distance(a, c), floatTol)
}

func TestLogLikelihoodCF_Categorical(t *testing.T) {
	m, err := newCFMetric(CFLogLikelihood, nil)
	require.NoError(t, err)

	same := entryOf([][]float64{{}}, [][]Value{{Text("p")}})
	same2 := entryOf([][]float64{{}}, [][]Value{{Text("p")}})
	other := entryOf([][]float64{{}}, [][]Value{{Text("q")}})

	require.InDelta(t, 0, m.distance(same, same2), floatTol)
	// Merging two different categories: entropy ln 2 over two cases.
	require.InDelta(t, 2*math.Log(2), m.distance(same, other), floatTol)
}

func TestCFEntry_NaNCellsShareOneCategory(t *testing.T) {
	e := NewCFEntry(0, 1)
	for i := 0; i < 4; i++ {
		e.AddCase(i, nil, []Value{ParseValue("NaN")})
	}
	require.Equal(t, 4, e.N)
	require.Len(t, e.Counts[0], 1)
	require.Equal(t, 4, e.Counts[0][Null()])
	require.InDelta(t, 0, categoryEntropy(e.Counts[0], e.N), floatTol)

	// One NaN case against one text case: entropy ln 2, not 0.
	mixed := NewCFEntry(0, 1)
	mixed.AddCase(0, nil, []Value{ParseValue("NaN")})
	mixed.AddCase(1, nil, []Value{Text("a")})
	require.InDelta(t, math.Log(2), categoryEntropy(mixed.Counts[0], mixed.N), floatTol)
}

func TestLogLikelihoodCF_FloorKeepsDistanceFinite(t *testing.T) {
	m, err := newCFMetric(CFLogLikelihood, []float64{0})
	require.NoError(t, err)
	a := entryOf([][]float64{{1}}, nil)
	b := entryOf([][]float64{{1}}, nil)
	d := m.distance(a, b)
	require.False(t, math.IsNaN(d) || math.IsInf(d, 0))
}

func TestNewCFMetric_Unknown(t *testing.T) {
	_, err := newCFMetric("manhattan", nil)
	require.ErrorIs(t, err, ErrUnknownMeasure)
}

func TestSortedCategories(t *testing.T) {
	table := map[Value]int{Text("b"): 1, Number(2): 1, Text("a"): 1, Number(-1): 1, Null(): 1, Bool(true): 1}
	got := sortedCategories(table)
	want := []Value{Null(), Number(-1), Number(2), Text("a"), Text("b"), Bool(true)}
	require.Equal(t, want, got)
}
