package hclust

// UnionFind is a disjoint-set forest with path compression. It holds
// 2*n - 1 slots so that merged clusters can be given their own labels
// (original items 0..n-1, merged clusters n..2n-2) as the scipy linkage
// format expects.
type UnionFind struct {
	parent []int
	size   []int
	// nextLabel is the label the next Relabel call assigns, starting at n.
	nextLabel int
}

// NewUnionFind creates a UnionFind for n initial singletons.
func NewUnionFind(n int) *UnionFind {
	total := 2*n - 1
	if total < 1 {
		total = 1
	}
	parent := make([]int, total)
	size := make([]int, total)
	for i := range parent {
		parent[i] = -1 // -1 means "is a root"
	}
	for i := 0; i < n; i++ {
		size[i] = 1
	}
	return &UnionFind{
		parent:    parent,
		size:      size,
		nextLabel: n,
	}
}

// Find returns the root of the set containing x, with path compression.
func (uf *UnionFind) Find(x int) int {
	root := x
	for uf.parent[root] != -1 {
		root = uf.parent[root]
	}
	for uf.parent[x] != -1 {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// Size returns the number of items in the set rooted at root.
func (uf *UnionFind) Size(root int) int { return uf.size[root] }

// Union merges the sets containing x and y under the root of x and returns
// that root. Keeping the first argument's root lets a schedule replay use
// the surviving cluster id as the set representative.
func (uf *UnionFind) Union(x, y int) int {
	rootX := uf.Find(x)
	rootY := uf.Find(y)
	if rootX == rootY {
		return rootX
	}
	uf.parent[rootY] = rootX
	uf.size[rootX] += uf.size[rootY]
	return rootX
}

// Relabel merges the sets containing x and y under a fresh label
// (n, n+1, ...) and returns it.
func (uf *UnionFind) Relabel(x, y int) int {
	rootX := uf.Find(x)
	rootY := uf.Find(y)
	label := uf.nextLabel
	uf.size[label] = uf.size[rootX] + uf.size[rootY]
	uf.parent[rootX] = label
	uf.parent[rootY] = label
	uf.nextLabel++
	return label
}

// replayer applies schedule stages one at a time to a UnionFind keyed by
// cluster id, so that after stage s every item's root is the id of the
// cluster holding it at that point.
type replayer struct {
	sched   *Schedule
	uf      *UnionFind
	applied int
}

func newReplayer(s *Schedule) *replayer {
	return &replayer{sched: s, uf: NewUnionFind(s.N)}
}

// advanceTo applies stages until exactly stages of them have been replayed.
func (r *replayer) advanceTo(stages int) {
	for r.applied < stages {
		st := r.sched.Stages[r.applied]
		r.uf.Union(st.Cluster1, st.Cluster2)
		r.applied++
	}
}

// clusterOf returns the id of the cluster currently holding item i.
func (r *replayer) clusterOf(i int) int { return r.uf.Find(i) }

// sizeOf returns the size of the cluster currently holding item i.
func (r *replayer) sizeOf(i int) int { return r.uf.Size(r.uf.Find(i)) }
