package hclust

import "fmt"

// Linkage selects how the distance from a merged cluster to the others is
// derived.
type Linkage string

const (
	LinkageSingle         Linkage = "single"
	LinkageComplete       Linkage = "complete"
	LinkageAverageBetween Linkage = "average"
	LinkageAverageWithin  Linkage = "average_within"
	LinkageCentroid       Linkage = "centroid"
	LinkageMedian         Linkage = "median"
	LinkageWard           Linkage = "ward"
)

// Monotone reports whether merge heights are guaranteed not to decrease.
// Centroid and median linkage can produce inversions.
func (l Linkage) Monotone() bool {
	return l != LinkageCentroid && l != LinkageMedian
}

// NeedsSquaredEuclidean reports whether the linkage is only geometrically
// meaningful on squared Euclidean distances.
func (l Linkage) NeedsSquaredEuclidean() bool {
	return l == LinkageCentroid || l == LinkageMedian || l == LinkageWard
}

// ParseLinkage validates a linkage name.
func ParseLinkage(s string) (Linkage, error) {
	switch l := Linkage(s); l {
	case LinkageSingle, LinkageComplete, LinkageAverageBetween, LinkageAverageWithin,
		LinkageCentroid, LinkageMedian, LinkageWard:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLinkage, s)
}

// Linker computes distances for a merged cluster. Link is called for every
// other cluster o before the state changes and returns the distance from the
// union of k and r to o. Merged is called once the state has removed r, so
// linkers that carry per-cluster payload can follow the renumbering.
type Linker interface {
	Link(s *ClusterState, k, r, o int) float64
	Merged(k, r int)
}

// LanceWilliams returns the Linker applying the Lance-Williams recurrence of
// the given method. Sizes are the case counts of the kept (k), removed (r)
// and other (o) clusters.
func LanceWilliams(method Linkage) Linker {
	return lanceWilliams{method: method}
}

type lanceWilliams struct {
	method Linkage
}

func (lw lanceWilliams) Link(s *ClusterState, k, r, o int) float64 {
	dko := s.At(k, o)
	dro := s.At(r, o)
	nk := float64(s.Size(k))
	nr := float64(s.Size(r))

	switch lw.method {
	case LinkageSingle:
		return min(dko, dro)
	case LinkageComplete:
		return max(dko, dro)
	case LinkageAverageBetween:
		return (nk*dko + nr*dro) / (nk + nr)
	case LinkageAverageWithin:
		return (dko + dro) / 2
	case LinkageCentroid:
		dkr := s.At(k, r)
		return (nk*dko + nr*dro - nk*nr/(nk+nr)*dkr) / (nk + nr)
	case LinkageMedian:
		return (dko+dro)/2 - s.At(k, r)/4
	case LinkageWard:
		no := float64(s.Size(o))
		dkr := s.At(k, r)
		return ((no+nk)*dko + (no+nr)*dro - no*dkr) / (nk + nr + no)
	}
	panic("hclust: unhandled linkage " + string(lw.method))
}

func (lanceWilliams) Merged(int, int) {}
