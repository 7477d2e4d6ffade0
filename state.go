package hclust

import (
	"fmt"
	"math"
)

// ClusterState is the mutable container an agglomeration run works on: the
// current clusters, each a set of original case indices with a stable id,
// and their symmetric distance matrix. It is owned by a single run and only
// changed through Merge.
type ClusterState struct {
	members [][]int
	ids     []int
	// formed[i] is the stage at which cluster i last absorbed another
	// cluster, 0 for an untouched singleton.
	formed []int
	// dist is m*m row-major; spare is the buffer the next Merge writes into.
	dist  []float64
	spare []float64
	m     int
}

// NewClusterState builds n singleton clusters from a flat row-major n*n
// distance matrix. The matrix is copied.
func NewClusterState(distMatrix []float64, n int) (*ClusterState, error) {
	if len(distMatrix) != n*n {
		return nil, fmt.Errorf("%w: distance matrix length %d does not match n*n = %d (n=%d)",
			ErrDimensionMismatch, len(distMatrix), n*n, n)
	}
	s := &ClusterState{
		members: make([][]int, n),
		ids:     make([]int, n),
		formed:  make([]int, n),
		dist:    make([]float64, n*n),
		spare:   make([]float64, 0, n*n),
		m:       n,
	}
	copy(s.dist, distMatrix)
	for i := 0; i < n; i++ {
		s.members[i] = []int{i}
		s.ids[i] = i
		s.dist[i*n+i] = 0
	}
	return s, nil
}

// Len returns the number of clusters currently held.
func (s *ClusterState) Len() int { return s.m }

// At returns the distance between clusters at positions i and j.
func (s *ClusterState) At(i, j int) float64 { return s.dist[i*s.m+j] }

// Size returns the number of cases in cluster i.
func (s *ClusterState) Size(i int) int { return len(s.members[i]) }

// Members returns the case indices owned by cluster i. The slice must not
// be modified.
func (s *ClusterState) Members(i int) []int { return s.members[i] }

// ID returns the stable id of cluster i: the smallest original case index
// it has ever held.
func (s *ClusterState) ID(i int) int { return s.ids[i] }

// FindClosest scans the upper triangle for the minimum distance. Ties go to
// the first pair found scanning i ascending, then j ascending. NaN cells are
// never selected; ok is false when no pair qualifies.
func (s *ClusterState) FindClosest() (i, j int, d float64, ok bool) {
	best := math.Inf(1)
	bi, bj := -1, -1
	m := s.m
	for a := 0; a < m; a++ {
		row := s.dist[a*m : (a+1)*m]
		for b := a + 1; b < m; b++ {
			v := row[b]
			if v < best || (bi < 0 && !math.IsNaN(v)) {
				best, bi, bj = v, a, b
			}
		}
	}
	if bi < 0 {
		return -1, -1, 0, false
	}
	return bi, bj, best, true
}

// Merge folds cluster remove into cluster keep. keep's row and column are
// recomputed through link from the pre-merge distances; every other cell is
// copied with positions above remove shifted down by one.
func (s *ClusterState) Merge(keep, remove int, link Linker) {
	if keep > remove {
		keep, remove = remove, keep
	}
	m := s.m
	newRow := make([]float64, m)
	for o := 0; o < m; o++ {
		if o == keep || o == remove {
			continue
		}
		newRow[o] = link.Link(s, keep, remove, o)
	}

	nm := m - 1
	next := s.spare[:nm*nm]
	for a, na := 0, 0; a < m; a++ {
		if a == remove {
			continue
		}
		for b, nb := 0, 0; b < m; b++ {
			if b == remove {
				continue
			}
			switch {
			case a == b:
				next[na*nm+nb] = 0
			case a == keep:
				next[na*nm+nb] = newRow[b]
			case b == keep:
				next[na*nm+nb] = newRow[a]
			default:
				next[na*nm+nb] = s.dist[a*m+b]
			}
			nb++
		}
		na++
	}
	s.spare, s.dist = s.dist[:0], next

	s.members[keep] = append(s.members[keep], s.members[remove]...)
	if s.ids[remove] < s.ids[keep] {
		s.ids[keep] = s.ids[remove]
	}
	s.members = append(s.members[:remove], s.members[remove+1:]...)
	s.ids = append(s.ids[:remove], s.ids[remove+1:]...)
	s.formed = append(s.formed[:remove], s.formed[remove+1:]...)
	s.m = nm

	link.Merged(keep, remove)
}
