package hclust

import (
	"fmt"
	"math"
)

// DendrogramNode is one node of a dendrogram. Nodes live in the
// Dendrogram's arena and refer to their children by id; -1 means no child.
type DendrogramNode struct {
	ID     int
	Height float64
	// Leaves holds the case indices under this node, in leaf order.
	Leaves []int
	Left   int
	Right  int
	IsLeaf bool
	// X is the horizontal layout position: the index in leaf order for
	// leaves, the mean of the children for internal nodes.
	X     float64
	Label string
}

// Dendrogram is the binary tree of a schedule. Leaves have ids 0..n-1 (the
// case index); the node formed at stage s has id n+s-1, so the root is the
// last node.
type Dendrogram struct {
	Nodes     []DendrogramNode
	Root      int
	LeafOrder []int
}

// BuildDendrogram converts a finished schedule into a dendrogram. labels, if
// not nil, must hold one label per original item.
func BuildDendrogram(s *Schedule, labels []string) (*Dendrogram, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to build dendrogram", err)
	}
	n := s.N
	if labels != nil && len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d leaves", ErrDimensionMismatch, len(labels), n)
	}

	d := &Dendrogram{Nodes: make([]DendrogramNode, 0, 2*n-1)}
	// current maps a live cluster id to the node that represents it.
	current := make(map[int]int, n)
	for i := 0; i < n; i++ {
		node := DendrogramNode{ID: i, Leaves: []int{i}, Left: -1, Right: -1, IsLeaf: true}
		if labels != nil {
			node.Label = labels[i]
		}
		d.Nodes = append(d.Nodes, node)
		current[i] = i
	}

	for _, st := range s.Stages {
		a, okA := current[st.Cluster1]
		b, okB := current[st.Cluster2]
		if !okA || !okB {
			return nil, fmt.Errorf("%w: failed to build dendrogram at stage %d", ErrInvalidSchedule, st.Stage)
		}
		delete(current, st.Cluster2)

		// The larger child goes left; on a tie the surviving cluster does.
		left, right := a, b
		if len(d.Nodes[b].Leaves) > len(d.Nodes[a].Leaves) {
			left, right = b, a
		}

		leaves := make([]int, 0, len(d.Nodes[left].Leaves)+len(d.Nodes[right].Leaves))
		leaves = append(leaves, d.Nodes[left].Leaves...)
		leaves = append(leaves, d.Nodes[right].Leaves...)

		id := len(d.Nodes)
		d.Nodes = append(d.Nodes, DendrogramNode{
			ID:     id,
			Height: s.height(st),
			Leaves: leaves,
			Left:   left,
			Right:  right,
		})
		current[st.Cluster1] = id
	}

	if len(current) != 1 {
		return nil, fmt.Errorf("%w: failed to build dendrogram: %d roots", ErrInvalidSchedule, len(current))
	}
	d.Root = len(d.Nodes) - 1
	d.layout()
	return d, nil
}

// layout fixes the leaf order and assigns x positions: leaves by their
// rank, internal nodes as the mean of their children. The root's leaf list
// was built left before right at every node, so it is the in-order leaf
// sequence. Child ids are always smaller than their parent's, so a single
// ascending pass sees children before parents.
func (d *Dendrogram) layout() {
	d.LeafOrder = d.Nodes[d.Root].Leaves
	for rank, leaf := range d.LeafOrder {
		d.Nodes[leaf].X = float64(rank)
	}
	for id := range d.Nodes {
		node := &d.Nodes[id]
		if node.IsLeaf {
			continue
		}
		node.X = (d.Nodes[node.Left].X + d.Nodes[node.Right].X) / 2
	}
}

// Len returns the number of leaves.
func (d *Dendrogram) Len() int { return len(d.LeafOrder) }

// Rescaled returns every node height mapped linearly onto [0, scale],
// the lowest merge height at 0 and the root at scale. Leaves map to 0.
func (d *Dendrogram) Rescaled(scale float64) []float64 {
	out := make([]float64, len(d.Nodes))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, node := range d.Nodes {
		if node.IsLeaf {
			continue
		}
		lo = min(lo, node.Height)
		hi = max(hi, node.Height)
	}
	span := hi - lo
	for i, node := range d.Nodes {
		if node.IsLeaf {
			continue
		}
		if span <= 0 {
			out[i] = scale
			continue
		}
		out[i] = (node.Height - lo) / span * scale
	}
	return out
}
