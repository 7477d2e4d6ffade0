package hclust

import (
	"math"
	"sort"
)

// centroidIndex is a KD-tree over a fixed set of points, answering
// nearest-point queries under Euclidean distance. The CF-tree uses it to
// route cases of dissolved noise entries to the nearest surviving centroid.
//
// The tree is stored as a complete binary tree in array form: node i has
// children 2i+1 and 2i+2, and per-node bounding boxes are kept as min/max
// per dimension.
type centroidIndex struct {
	data     []float64 // flat row-major points (n * dims)
	n        int
	dims     int
	leafSize int
	idx      []int // tree-order position -> original point index
	nodes    []kdNode
	boundMin []float64
	boundMax []float64
}

type kdNode struct {
	start, end int
	leaf       bool
	used       bool
}

// newCentroidIndex builds the tree over points, which must all have the
// same length.
func newCentroidIndex(points [][]float64, leafSize int) *centroidIndex {
	if leafSize < 1 {
		leafSize = 1
	}
	n := len(points)
	dims := 0
	if n > 0 {
		dims = len(points[0])
	}
	t := &centroidIndex{
		data:     make([]float64, n*dims),
		n:        n,
		dims:     dims,
		leafSize: leafSize,
		idx:      make([]int, n),
	}
	for i, p := range points {
		copy(t.data[i*dims:], p)
		t.idx[i] = i
	}
	if n > 0 {
		t.build(0, 0, n)
	}
	return t
}

func (t *centroidIndex) grow(node int) {
	for node >= len(t.nodes) {
		t.nodes = append(t.nodes, kdNode{})
		t.boundMin = append(t.boundMin, make([]float64, t.dims)...)
		t.boundMax = append(t.boundMax, make([]float64, t.dims)...)
	}
}

// build splits idx[start:end] at the median of the widest dimension.
func (t *centroidIndex) build(node, start, end int) {
	t.grow(node)
	base := node * t.dims
	for d := 0; d < t.dims; d++ {
		t.boundMin[base+d] = math.Inf(1)
		t.boundMax[base+d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		p := t.idx[i]
		for d := 0; d < t.dims; d++ {
			v := t.data[p*t.dims+d]
			t.boundMin[base+d] = math.Min(t.boundMin[base+d], v)
			t.boundMax[base+d] = math.Max(t.boundMax[base+d], v)
		}
	}

	if end-start <= t.leafSize {
		t.nodes[node] = kdNode{start: start, end: end, leaf: true, used: true}
		return
	}

	splitDim, spread := 0, -1.0
	for d := 0; d < t.dims; d++ {
		if s := t.boundMax[base+d] - t.boundMin[base+d]; s > spread {
			spread, splitDim = s, d
		}
	}
	sub := t.idx[start:end]
	sort.SliceStable(sub, func(i, j int) bool {
		return t.data[sub[i]*t.dims+splitDim] < t.data[sub[j]*t.dims+splitDim]
	})
	mid := start + (end-start)/2

	t.nodes[node] = kdNode{start: start, end: end, used: true}
	t.build(2*node+1, start, mid)
	t.build(2*node+2, mid, end)
}

// nearest returns the index of the point closest to q and its squared
// distance. Ties go to the lower point index. Returns -1 on an empty index.
func (t *centroidIndex) nearest(q []float64) (int, float64) {
	if t.n == 0 {
		return -1, math.Inf(1)
	}
	best, bestD := -1, math.Inf(1)
	t.search(0, q, &best, &bestD)
	return best, bestD
}

func (t *centroidIndex) search(node int, q []float64, best *int, bestD *float64) {
	if node >= len(t.nodes) || !t.nodes[node].used {
		return
	}
	nd := t.nodes[node]
	if nd.leaf {
		for i := nd.start; i < nd.end; i++ {
			p := t.idx[i]
			d := sqDist(q, t.data[p*t.dims:(p+1)*t.dims])
			if d < *bestD || (d == *bestD && p < *best) {
				*best, *bestD = p, d
			}
		}
		return
	}

	left, right := 2*node+1, 2*node+2
	ld, rd := t.boxDist(left, q), t.boxDist(right, q)
	near, far, farD := left, right, rd
	if rd < ld {
		near, far, farD = right, left, ld
	}
	t.search(near, q, best, bestD)
	// <= keeps equal-distance candidates with a lower index reachable.
	if farD <= *bestD {
		t.search(far, q, best, bestD)
	}
}

// boxDist is the squared distance from q to the bounding box of node.
func (t *centroidIndex) boxDist(node int, q []float64) float64 {
	if node >= len(t.nodes) || !t.nodes[node].used {
		return math.Inf(1)
	}
	base := node * t.dims
	var sum float64
	for d := 0; d < t.dims; d++ {
		lo, hi := t.boundMin[base+d], t.boundMax[base+d]
		var g float64
		switch {
		case q[d] < lo:
			g = lo - q[d]
		case q[d] > hi:
			g = q[d] - hi
		}
		sum += g * g
	}
	return sum
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
