package hclust

// LinkageMatrix converts the schedule into the scipy linkage format: one row
// per stage, [left, right, height, mergedSize]. Original items keep their
// index; the cluster formed at stage s gets id n+s-1. Heights follow the
// dendrogram convention (similarities are negated).
func (s *Schedule) LinkageMatrix() [][4]float64 {
	if s == nil || len(s.Stages) == 0 {
		return nil
	}

	uf := NewUnionFind(s.N)
	// labelOf maps a live cluster id to its current scipy label.
	labelOf := make(map[int]int, s.N)
	result := make([][4]float64, 0, len(s.Stages))

	for _, st := range s.Stages {
		a := st.Cluster1
		b := st.Cluster2
		la, ok := labelOf[a]
		if !ok {
			la = a
		}
		lb, ok := labelOf[b]
		if !ok {
			lb = b
		}

		aa := uf.Find(la)
		bb := uf.Find(lb)
		newSize := uf.Size(aa) + uf.Size(bb)
		result = append(result, [4]float64{float64(aa), float64(bb), s.height(st), float64(newSize)})

		labelOf[a] = uf.Relabel(aa, bb)
		delete(labelOf, b)
	}

	return result
}
