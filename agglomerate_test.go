package hclust

import (
	"errors"
	"math"
	"testing"
)

var fourPoints = [][]float64{{0, 0}, {0, 1}, {5, 5}, {5, 6}}

// Squared Euclidean distances of fourPoints:
//
//	     0   1   2   3
//	0    0   1  50  61
//	1    1   0  41  50
//	2   50  41   0   1
//	3   61  50   1   0

// scheduleOf clusters rows under linkage and measure.
func scheduleOf(t *testing.T, rows [][]float64, linkage Linkage, measure Measure) *Schedule {
	t.Helper()
	ds, err := NewDataset(rows, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Linkage = linkage
	cfg.Measure.Measure = measure
	s, _, err := BuildSchedule(ds, cfg)
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	return s
}

func fourPointSchedule(t *testing.T, linkage Linkage) *Schedule {
	t.Helper()
	return scheduleOf(t, fourPoints, linkage, MeasureSquaredEuclidean)
}

// jaccardSchedule clusters four binary profiles with Jaccard similarity
// and average linkage. Similarities:
//
//	s01 = 2/3, s23 = 2/3, s13 = 1/2, s03 = 1/4, s12 = 1/4, s02 = 0
func jaccardSchedule(t *testing.T) *Schedule {
	t.Helper()
	rows := [][]float64{
		{1, 1, 0, 0},
		{1, 1, 1, 0},
		{0, 0, 1, 1},
		{0, 1, 1, 1},
	}
	return scheduleOf(t, rows, LinkageAverageBetween, MeasureJaccard)
}

func TestEngine_FourPointsAllLinkages(t *testing.T) {
	tests := []struct {
		linkage Linkage
		// final merge distance; the first two stages merge at 1.
		last float64
	}{
		{LinkageSingle, 41},
		{LinkageComplete, 61},
		{LinkageAverageBetween, 50.5},
		{LinkageAverageWithin, 50.5},
		// squared distance between centroids (0,0.5) and (5,5.5)
		{LinkageCentroid, 50},
		{LinkageMedian, 50},
		// twice the increase in within-cluster sum of squares
		{LinkageWard, 100},
	}
	for _, tt := range tests {
		t.Run(string(tt.linkage), func(t *testing.T) {
			s := fourPointSchedule(t, tt.linkage)
			if len(s.Stages) != 3 {
				t.Fatalf("got %d stages, want 3", len(s.Stages))
			}
			got := s.Distances()
			want := []float64{1, 1, tt.last}
			for i := range want {
				if !almostEqual(got[i], want[i], floatTol) {
					t.Errorf("stage %d distance = %v, want %v", i+1, got[i], want[i])
				}
			}
			if s.Method != string(tt.linkage) {
				t.Errorf("Method = %q, want %q", s.Method, tt.linkage)
			}
		})
	}
}

func TestEngine_ScheduleBookkeeping(t *testing.T) {
	s := fourPointSchedule(t, LinkageAverageBetween)
	want := []Stage{
		{Stage: 1, Cluster1: 0, Cluster2: 1, Coefficient: 1, Distance: 1, NextStage: 3},
		{Stage: 2, Cluster1: 2, Cluster2: 3, Coefficient: 1, Distance: 1, NextStage: 3},
		{Stage: 3, Cluster1: 0, Cluster2: 2, Coefficient: 50.5, Distance: 50.5, FirstAppear1: 1, FirstAppear2: 2},
	}
	for i, st := range s.Stages {
		if st != want[i] {
			t.Errorf("stage %d = %+v, want %+v", i+1, st, want[i])
		}
	}
}

func TestEngine_WardCoefficientIsCumulativeSumOfSquares(t *testing.T) {
	s := fourPointSchedule(t, LinkageWard)
	// Half of each merge distance accumulates: 0.5, 1, 51. The last value
	// is the total sum of squares of the four points around (2.5, 3).
	want := []float64{0.5, 1, 51}
	for i, st := range s.Stages {
		if !almostEqual(st.Coefficient, want[i], floatTol) {
			t.Errorf("stage %d coefficient = %v, want %v", i+1, st.Coefficient, want[i])
		}
	}
}

func TestNewEngine_CumulativeOnlyForWardDistances(t *testing.T) {
	if !NewEngine(LinkageWard, false).Cumulative {
		t.Error("ward over distances should accumulate")
	}
	if NewEngine(LinkageWard, true).Cumulative {
		t.Error("ward over similarities must not accumulate")
	}
	if NewEngine(LinkageComplete, false).Cumulative {
		t.Error("complete linkage should not accumulate")
	}
}

func TestEngine_SimilarityMergesMostSimilarFirst(t *testing.T) {
	s := jaccardSchedule(t)
	if !s.Similarity {
		t.Fatal("schedule should be flagged as similarity")
	}
	// Average linkage on similarities:
	//   s(01,2) = (0 + 1/4)/2 = 1/8, s(01,3) = (1/4 + 1/2)/2 = 3/8
	//   s(01,23) = (1/8 + 3/8)/2 = 1/4
	want := []struct {
		c1, c2 int
		coef   float64
	}{
		{0, 1, 2.0 / 3.0},
		{2, 3, 2.0 / 3.0},
		{0, 2, 0.25},
	}
	for i, st := range s.Stages {
		if st.Cluster1 != want[i].c1 || st.Cluster2 != want[i].c2 {
			t.Errorf("stage %d merged (%d,%d), want (%d,%d)", i+1, st.Cluster1, st.Cluster2, want[i].c1, want[i].c2)
		}
		if !almostEqual(st.Coefficient, want[i].coef, floatTol) {
			t.Errorf("stage %d coefficient = %v, want %v", i+1, st.Coefficient, want[i].coef)
		}
	}
}

func TestEngine_TieBreakTakesFirstPair(t *testing.T) {
	// All pairs equidistant: the first pair in scan order wins every stage.
	dist := []float64{
		0, 1, 1, 1,
		1, 0, 1, 1,
		1, 1, 0, 1,
		1, 1, 1, 0,
	}
	s, err := SchedulePrecomputed(dist, 4, Config{Linkage: LinkageSingle})
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]int{{0, 1}, {0, 2}, {0, 3}}
	for i, st := range s.Stages {
		if st.Cluster1 != want[i][0] || st.Cluster2 != want[i][1] {
			t.Errorf("stage %d merged (%d,%d), want %v", i+1, st.Cluster1, st.Cluster2, want[i])
		}
	}
}

func TestEngine_StageCountAndIds(t *testing.T) {
	rows := generateBenchData(30, 3)
	for _, linkage := range []Linkage{LinkageSingle, LinkageComplete, LinkageWard, LinkageCentroid} {
		s := scheduleOf(t, rows, linkage, MeasureSquaredEuclidean)
		if len(s.Stages) != 29 {
			t.Errorf("%s: got %d stages, want 29", linkage, len(s.Stages))
		}
		if err := s.validate(); err != nil {
			t.Errorf("%s: invalid schedule: %v", linkage, err)
		}
		for _, st := range s.Stages {
			if st.Cluster1 >= st.Cluster2 {
				t.Errorf("%s stage %d: kept id %d not below removed id %d", linkage, st.Stage, st.Cluster1, st.Cluster2)
			}
		}
	}
}

func TestEngine_MonotoneLinkagesNeverDecrease(t *testing.T) {
	rows := generateBenchData(25, 2)
	for _, linkage := range []Linkage{LinkageSingle, LinkageComplete, LinkageAverageBetween, LinkageWard} {
		d := scheduleOf(t, rows, linkage, MeasureSquaredEuclidean).Distances()
		for i := 1; i < len(d); i++ {
			if d[i] < d[i-1]-floatTol {
				t.Errorf("%s: stage %d distance %v below previous %v", linkage, i+1, d[i], d[i-1])
			}
		}
	}
}

func TestEngine_NoPairAvailable(t *testing.T) {
	nan := math.NaN()
	dist := []float64{
		0, nan, nan,
		nan, 0, nan,
		nan, nan, 0,
	}
	state, err := NewClusterState(dist, 3)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewEngine(LinkageSingle, false).Run(state)
	if !errors.Is(err, ErrClosestClusters) {
		t.Fatalf("got %v, want ErrClosestClusters", err)
	}
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("got %T, want *StageError", err)
	}
	if se.Stage != 1 || se.Remaining != 3 {
		t.Errorf("got stage %d remaining %d, want 1 and 3", se.Stage, se.Remaining)
	}
}

func TestEngine_SingleCluster(t *testing.T) {
	state, err := NewClusterState([]float64{0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(LinkageSingle, false).Run(state); !errors.Is(err, ErrClosestClusters) {
		t.Errorf("got %v, want ErrClosestClusters", err)
	}
}

func TestLinkage_Properties(t *testing.T) {
	for _, l := range []Linkage{LinkageCentroid, LinkageMedian} {
		if l.Monotone() {
			t.Errorf("%s should not be monotone", l)
		}
	}
	if !LinkageWard.NeedsSquaredEuclidean() || LinkageSingle.NeedsSquaredEuclidean() {
		t.Error("NeedsSquaredEuclidean mismatch")
	}
	if _, err := ParseLinkage("ward"); err != nil {
		t.Errorf("ParseLinkage(ward): %v", err)
	}
	if _, err := ParseLinkage("furthest"); !errors.Is(err, ErrUnknownLinkage) {
		t.Errorf("got %v, want ErrUnknownLinkage", err)
	}
}
