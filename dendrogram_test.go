package hclust

import (
	"errors"
	"testing"
)

func TestBuildDendrogram_FourPoints(t *testing.T) {
	s := fourPointSchedule(t, LinkageAverageBetween)
	d, err := BuildDendrogram(s, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Nodes) != 7 || d.Root != 6 || d.Len() != 4 {
		t.Fatalf("nodes %d root %d leaves %d, want 7, 6, 4", len(d.Nodes), d.Root, d.Len())
	}

	wantOrder := []int{0, 1, 2, 3}
	for i, leaf := range d.LeafOrder {
		if leaf != wantOrder[i] {
			t.Errorf("LeafOrder = %v, want %v", d.LeafOrder, wantOrder)
			break
		}
	}

	tests := []struct {
		id          int
		left, right int
		height      float64
		x           float64
	}{
		{4, 0, 1, 1, 0.5},
		{5, 2, 3, 1, 2.5},
		{6, 4, 5, 50.5, 1.5},
	}
	for _, tt := range tests {
		n := d.Nodes[tt.id]
		if n.IsLeaf || n.Left != tt.left || n.Right != tt.right {
			t.Errorf("node %d: leaf=%v children (%d,%d), want (%d,%d)", tt.id, n.IsLeaf, n.Left, n.Right, tt.left, tt.right)
		}
		if !almostEqual(n.Height, tt.height, floatTol) || !almostEqual(n.X, tt.x, floatTol) {
			t.Errorf("node %d: height %v x %v, want %v %v", tt.id, n.Height, n.X, tt.height, tt.x)
		}
	}

	for i := 0; i < 4; i++ {
		leaf := d.Nodes[i]
		if !leaf.IsLeaf || leaf.Left != -1 || leaf.Right != -1 || leaf.Label != []string{"a", "b", "c", "d"}[i] {
			t.Errorf("leaf %d = %+v", i, leaf)
		}
	}
	if got := len(d.Nodes[d.Root].Leaves); got != 4 {
		t.Errorf("root holds %d leaves, want 4", got)
	}
}

func TestBuildDendrogram_LargerChildLeft(t *testing.T) {
	// Chain 0, 1, 3, 7: every merge joins the growing cluster with a
	// singleton, and the growing cluster goes left.
	s := scheduleOf(t, [][]float64{{7}, {3}, {1}, {0}}, LinkageSingle, MeasureEuclidean)
	d, err := BuildDendrogram(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	for id := 5; id < len(d.Nodes); id++ {
		n := d.Nodes[id]
		if len(d.Nodes[n.Left].Leaves) < len(d.Nodes[n.Right].Leaves) {
			t.Errorf("node %d: left child smaller than right", id)
		}
	}
	want := []int{2, 3, 1, 0}
	for i, leaf := range d.LeafOrder {
		if leaf != want[i] {
			t.Fatalf("LeafOrder = %v, want %v", d.LeafOrder, want)
		}
	}
}

func TestBuildDendrogram_SimilarityHeights(t *testing.T) {
	d, err := BuildDendrogram(jaccardSchedule(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	// Heights are negated similarities, so the root is highest.
	if !almostEqual(d.Nodes[d.Root].Height, -0.25, floatTol) {
		t.Errorf("root height = %v, want -0.25", d.Nodes[d.Root].Height)
	}
	for id := 4; id < d.Root; id++ {
		if d.Nodes[id].Height > d.Nodes[d.Root].Height {
			t.Errorf("node %d above the root", id)
		}
	}
}

func TestBuildDendrogram_InvalidSchedule(t *testing.T) {
	tests := []struct {
		name string
		s    *Schedule
	}{
		{"nil", nil},
		{"missing stage", &Schedule{N: 3, Stages: []Stage{{Stage: 1, Cluster1: 0, Cluster2: 1}}}},
		{"dead cluster", &Schedule{N: 3, Stages: []Stage{
			{Stage: 1, Cluster1: 0, Cluster2: 1},
			{Stage: 2, Cluster1: 1, Cluster2: 2},
		}}},
		{"out of range", &Schedule{N: 2, Stages: []Stage{{Stage: 1, Cluster1: 0, Cluster2: 5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildDendrogram(tt.s, nil); !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("got %v, want ErrInvalidSchedule", err)
			}
		})
	}
}

func TestBuildDendrogram_LabelCount(t *testing.T) {
	s := fourPointSchedule(t, LinkageSingle)
	if _, err := BuildDendrogram(s, []string{"a"}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestDendrogram_Rescaled(t *testing.T) {
	d, err := BuildDendrogram(fourPointSchedule(t, LinkageAverageBetween), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := d.Rescaled(25)
	want := []float64{0, 0, 0, 0, 0, 0, 25}
	for i := range want {
		if !almostEqual(got[i], want[i], floatTol) {
			t.Errorf("Rescaled[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
