package hclust

import (
	"fmt"
	"math"
)

// CFTreeConfig controls the pre-clustering of cases into CF entries.
type CFTreeConfig struct {
	// MaxBranch and MaxDepth bound the number of leaf entries at
	// MaxBranch^MaxDepth. Defaults: 8 and 3.
	MaxBranch int
	MaxDepth  int

	// Threshold is the initial absorption threshold. It grows by 1.5x every
	// time the entry count exceeds capacity. Default: 0.
	Threshold float64

	// Distance selects the CF distance. Default: log-likelihood.
	Distance CFDistance

	// NoiseHandling dissolves entries smaller than NoiseThreshold times the
	// largest entry and reassigns their cases. NoiseThreshold must lie in
	// (0, 1]. Default: off, 0.25.
	NoiseHandling  bool
	NoiseThreshold float64

	// Seed fixes the random insertion order. 0 uses a fixed default seed.
	Seed int64
}

// DefaultCFTreeConfig returns the usual CF-tree settings.
func DefaultCFTreeConfig() CFTreeConfig {
	return CFTreeConfig{
		MaxBranch:      8,
		MaxDepth:       3,
		Distance:       CFLogLikelihood,
		NoiseThreshold: 0.25,
	}
}

func (c *CFTreeConfig) applyDefaults() {
	if c.MaxBranch == 0 {
		c.MaxBranch = 8
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 3
	}
	if c.Distance == "" {
		c.Distance = CFLogLikelihood
	}
	if c.NoiseThreshold == 0 {
		c.NoiseThreshold = 0.25
	}
}

func (c *CFTreeConfig) validate() error {
	if c.MaxBranch < 2 {
		return fmt.Errorf("hclust: MaxBranch must be >= 2, got %d", c.MaxBranch)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("hclust: MaxDepth must be >= 1, got %d", c.MaxDepth)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("hclust: Threshold must be >= 0, got %f", c.Threshold)
	}
	if c.NoiseThreshold <= 0 || c.NoiseThreshold > 1 {
		return fmt.Errorf("hclust: NoiseThreshold must lie in (0, 1], got %f", c.NoiseThreshold)
	}
	return nil
}

// capacity is the number of leaf entries a tree of the configured shape holds.
func (c *CFTreeConfig) capacity() int {
	capacity := 1
	for i := 0; i < c.MaxDepth; i++ {
		capacity *= c.MaxBranch
		if capacity > math.MaxInt32 {
			return math.MaxInt32
		}
	}
	return capacity
}

// CFTree is the result of pre-clustering: a partition of all cases into
// CF entries, frozen once the build finishes.
type CFTree struct {
	Entries   []*CFEntry
	Threshold float64
	Rebuilds  int
	Dissolved int
}

// cfBuilder holds the mutable state of one CF-tree build.
type cfBuilder struct {
	cfg       CFTreeConfig
	metric    cfMetric
	rows      [][]float64
	cats      [][]Value
	nCont     int
	nCat      int
	capacity  int
	threshold float64
	entries   []*CFEntry
	rebuilds  int
}

// BuildCFTree compresses the cases of ds into CF entries. Cases are inserted
// in a seeded random order; each is absorbed by its nearest entry when that
// entry lies within the current threshold, otherwise it opens a new entry.
func BuildCFTree(ds *Dataset, cfg CFTreeConfig, diag *Diagnostics) (*CFTree, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if ds.NumContinuous()+ds.NumCategorical() == 0 {
		return nil, ErrNoVariables
	}
	if ds.HasMissing() {
		return nil, ErrMissingValues
	}

	rows := ds.rows()
	cats := make([][]Value, ds.Len())
	for i, c := range ds.Cases {
		cats[i] = c.Categorical
	}
	metric, err := newCFMetric(cfg.Distance, columnVariances(rows))
	if err != nil {
		return nil, err
	}
	if cfg.Distance == CFEuclidean && ds.NumCategorical() > 0 {
		diag.Warnf("euclidean CF distance ignores %d categorical variables", ds.NumCategorical())
	}

	b := &cfBuilder{
		cfg:       cfg,
		metric:    metric,
		rows:      rows,
		cats:      cats,
		nCont:     ds.NumContinuous(),
		nCat:      ds.NumCategorical(),
		capacity:  cfg.capacity(),
		threshold: cfg.Threshold,
	}

	for _, i := range insertionOrder(ds.Len(), cfg.Seed) {
		b.insert(b.singleton(i))
		if len(b.entries) > b.capacity {
			b.rebuild()
		}
	}

	tree := &CFTree{Rebuilds: b.rebuilds}
	if cfg.NoiseHandling {
		tree.Dissolved = b.dissolveNoise()
	}
	tree.Entries = b.entries
	tree.Threshold = b.threshold

	diag.Notef("CF tree: %d entries from %d cases, threshold %g, %d rebuilds",
		len(tree.Entries), ds.Len(), tree.Threshold, tree.Rebuilds)
	if tree.Dissolved > 0 {
		diag.Notef("CF tree: dissolved %d noise entries", tree.Dissolved)
	}
	return tree, nil
}

func (b *cfBuilder) singleton(i int) *CFEntry {
	e := NewCFEntry(b.nCont, b.nCat)
	e.AddCase(i, b.rows[i], b.cats[i])
	return e
}

// nearest returns the position of the entry closest to e among entries.
// Ties go to the earliest entry.
func (b *cfBuilder) nearest(entries []*CFEntry, e *CFEntry) (int, float64) {
	best, bestD := -1, math.Inf(1)
	for i, cand := range entries {
		if d := b.metric.distance(cand, e); d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}

// insert absorbs e into its nearest entry if within the threshold, or
// appends it as a new entry.
func (b *cfBuilder) insert(e *CFEntry) {
	if i, d := b.nearest(b.entries, e); i >= 0 && d <= b.threshold {
		b.entries[i].Combine(e)
		return
	}
	b.entries = append(b.entries, e)
}

// rebuild raises the threshold and re-inserts the entries as units until
// the entry count fits the capacity. The threshold is raised to at least
// the smallest distance between two entries, so every pass merges at least
// one pair.
func (b *cfBuilder) rebuild() {
	for len(b.entries) > b.capacity {
		minPair := math.Inf(1)
		for i := range b.entries {
			for j := i + 1; j < len(b.entries); j++ {
				minPair = min(minPair, b.metric.distance(b.entries[i], b.entries[j]))
			}
		}
		b.threshold = max(b.threshold*1.5, minPair)

		old := b.entries
		b.entries = make([]*CFEntry, 0, len(old))
		for _, e := range old {
			b.insert(e)
		}
		b.rebuilds++
	}
}

// dissolveNoise removes entries smaller than NoiseThreshold times the
// largest entry and hands each of their cases to the nearest surviving
// entry, nearest as of the moment of dissolution. Returns the number of
// dissolved entries.
func (b *cfBuilder) dissolveNoise() int {
	largest := 0
	for _, e := range b.entries {
		largest = max(largest, e.N)
	}
	cutoff := float64(largest) * b.cfg.NoiseThreshold

	var survivors, noise []*CFEntry
	for _, e := range b.entries {
		if float64(e.N) < cutoff {
			noise = append(noise, e)
		} else {
			survivors = append(survivors, e)
		}
	}
	if len(noise) == 0 {
		return 0
	}

	var route func(i int) int
	if b.cfg.Distance == CFEuclidean {
		centroids := make([][]float64, len(survivors))
		for i, e := range survivors {
			centroids[i] = e.Centroid()
		}
		index := newCentroidIndex(centroids, 16)
		route = func(i int) int {
			s, _ := index.nearest(b.rows[i])
			return s
		}
	} else {
		frozen := make([]*CFEntry, len(survivors))
		for i, e := range survivors {
			frozen[i] = e.Clone()
		}
		route = func(i int) int {
			s, _ := b.nearest(frozen, b.singleton(i))
			return s
		}
	}

	for _, e := range noise {
		for _, c := range e.Cases {
			survivors[route(c)].AddCase(c, b.rows[c], b.cats[c])
		}
	}
	b.entries = survivors
	return len(noise)
}
