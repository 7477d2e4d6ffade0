package hclust

import "fmt"

// Membership returns the cluster of every item when the schedule is cut at
// k clusters. Labels run from 1 to k, numbered in order of the first item
// each cluster holds.
func Membership(s *Schedule, k int) ([]int, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to compute membership", err)
	}
	if k < 1 || k > s.N {
		return nil, fmt.Errorf("%w: k=%d for %d items", ErrInvalidClusterCount, k, s.N)
	}
	rep := newReplayer(s)
	rep.advanceTo(s.N - k)
	return rep.labels(), nil
}

// MembershipRange returns Membership for every k in [lo, hi].
func MembershipRange(s *Schedule, lo, hi int) (map[int][]int, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to compute membership", err)
	}
	if lo < 1 || hi > s.N || lo > hi {
		return nil, fmt.Errorf("%w: range [%d, %d] for %d items", ErrInvalidClusterCount, lo, hi, s.N)
	}
	out := make(map[int][]int, hi-lo+1)
	rep := newReplayer(s)
	for k := hi; k >= lo; k-- {
		rep.advanceTo(s.N - k)
		out[k] = rep.labels()
	}
	return out, nil
}

// labels numbers the current clusters 1, 2, ... in order of first item.
func (r *replayer) labels() []int {
	n := r.sched.N
	out := make([]int, n)
	seen := make(map[int]int)
	for i := 0; i < n; i++ {
		root := r.clusterOf(i)
		label, ok := seen[root]
		if !ok {
			label = len(seen) + 1
			seen[root] = label
		}
		out[i] = label
	}
	return out
}
