package hclust

import (
	"fmt"
	"math"
)

// TwoStepConfig holds the parameters of a two-step clustering run.
type TwoStepConfig struct {
	// Standardize z-scores the continuous variables before pre-clustering.
	// Default in DefaultTwoStepConfig: true.
	Standardize bool

	// Tree configures the CF-tree pre-clustering.
	Tree CFTreeConfig

	// NumClusters fixes K. 0 selects K automatically.
	NumClusters int

	// MaxClusters caps automatic selection. Default: 15.
	MaxClusters int

	// UseBIC bounds automatic selection with the BIC-change criterion.
	UseBIC bool

	// Selector chooses K. Default: RatioSelector{}.
	Selector KSelector
}

// DefaultTwoStepConfig returns the usual two-step settings.
func DefaultTwoStepConfig() TwoStepConfig {
	return TwoStepConfig{
		Standardize: true,
		Tree:        DefaultCFTreeConfig(),
		MaxClusters: 15,
		UseBIC:      true,
	}
}

func (c *TwoStepConfig) applyDefaults() {
	c.Tree.applyDefaults()
	if c.MaxClusters == 0 {
		c.MaxClusters = 15
	}
	if c.Selector == nil {
		c.Selector = RatioSelector{}
	}
}

func (c *TwoStepConfig) validate() error {
	if c.NumClusters < 0 {
		return fmt.Errorf("hclust: NumClusters must be >= 0, got %d", c.NumClusters)
	}
	if c.MaxClusters < 1 {
		return fmt.Errorf("hclust: MaxClusters must be >= 1, got %d", c.MaxClusters)
	}
	return c.Tree.validate()
}

// TwoStepResult is the outcome of TwoStep.
type TwoStepResult struct {
	// Labels holds the 1-based cluster of every case, numbered by first
	// appearance in case order.
	Labels []int
	// SubClusters are the CF entries produced by pre-clustering.
	SubClusters []*CFEntry
	// SubClusterLabels[i] is the cluster of SubClusters[i].
	SubClusterLabels []int
	// Schedule merges the sub-clusters. Nil when there is only one.
	Schedule *Schedule
	// K is the number of clusters chosen.
	K int
	// BIC[k-1] is the BIC of the k-cluster solution.
	BIC []float64
	// Threshold is the final CF absorption threshold.
	Threshold   float64
	Diagnostics *Diagnostics
}

// TwoStep clusters ds in two passes: a CF-tree compresses the cases into
// sub-clusters, which are then merged hierarchically with distances
// recomputed on the combined entries. The same input, config and seed
// always give the same schedule and labels.
func TwoStep(ds *Dataset, cfg TwoStepConfig) (*TwoStepResult, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if ds.HasMissing() {
		return nil, ErrMissingValues
	}

	diag := &Diagnostics{}
	work := ds
	if cfg.Standardize && ds.NumContinuous() > 0 {
		work = ds.withContinuous(Standardize(ds.rows(), diag))
	}

	tree, err := BuildCFTree(work, cfg.Tree, diag)
	if err != nil {
		return nil, err
	}
	res := &TwoStepResult{
		SubClusters: tree.Entries,
		Threshold:   tree.Threshold,
		Diagnostics: diag,
	}

	variances := columnVariances(work.rows())
	metric, err := newCFMetric(cfg.Tree.Distance, variances)
	if err != nil {
		return nil, err
	}

	m := len(tree.Entries)
	subLabels := make([]int, m)
	if m == 1 {
		res.K = 1
		subLabels[0] = 1
		res.BIC = bicCurve(work, tree.Entries, nil, variances)
	} else {
		sched, err := agglomerateEntries(tree.Entries, metric)
		if err != nil {
			return nil, err
		}
		res.Schedule = sched
		res.BIC = bicCurve(work, tree.Entries, sched, variances)

		res.K = cfg.NumClusters
		if res.K == 0 {
			crit := KCriteria{Distances: sched.Distances(), MaxK: cfg.MaxClusters}
			if cfg.UseBIC {
				crit.BIC = res.BIC
			}
			res.K = cfg.Selector.SelectK(crit)
			res.K = min(max(res.K, 1), m)
		} else if res.K > m {
			diag.Warnf("requested %d clusters but only %d sub-clusters exist", res.K, m)
			res.K = m
		}

		if subLabels, err = Membership(sched, res.K); err != nil {
			return nil, err
		}
	}

	res.Labels, res.SubClusterLabels = propagateLabels(ds.Len(), tree.Entries, subLabels)
	diag.Notef("two-step: %d sub-clusters, %d clusters", m, res.K)
	return res, nil
}

// agglomerateEntries merges CF entries bottom-up, recomputing the distance
// from every merged entry to the rest on the combined statistics.
func agglomerateEntries(entries []*CFEntry, metric cfMetric) (*Schedule, error) {
	m := len(entries)
	flat := make([]float64, m*m)
	for i := 0; i < m; i++ {
		for j := i + 1; j < m; j++ {
			d := metric.distance(entries[i], entries[j])
			flat[i*m+j] = d
			flat[j*m+i] = d
		}
	}
	state, err := NewClusterState(flat, m)
	if err != nil {
		return nil, err
	}
	engine := Engine{
		Link:   &cfLinker{metric: metric, entries: append([]*CFEntry(nil), entries...)},
		Method: "twostep",
	}
	return engine.Run(state)
}

// cfLinker is the Linker for CF entries. Positions in entries follow the
// cluster positions of the state it links.
type cfLinker struct {
	metric  cfMetric
	entries []*CFEntry

	merged *CFEntry
	k, r   int
}

func (l *cfLinker) combined(k, r int) *CFEntry {
	if l.merged == nil || l.k != k || l.r != r {
		l.merged = Combined(l.entries[k], l.entries[r])
		l.k, l.r = k, r
	}
	return l.merged
}

func (l *cfLinker) Link(_ *ClusterState, k, r, o int) float64 {
	return l.metric.distance(l.combined(k, r), l.entries[o])
}

func (l *cfLinker) Merged(k, r int) {
	l.entries[k] = l.combined(k, r)
	l.entries = append(l.entries[:r], l.entries[r+1:]...)
	l.merged = nil
}

// bicCurve returns BIC(k) for k = 1..m along sched:
//
//	BIC(k) = -2 * sum_j xi_j + p_k * ln(N)
//	p_k    = k * (2*Kc + sum_cat (L_v - 1))
//
// with Kc the number of continuous variables and L_v the number of
// categories of categorical variable v.
func bicCurve(ds *Dataset, entries []*CFEntry, sched *Schedule, variances []float64) []float64 {
	ll := logLikelihoodCF{variances: variances}
	m := len(entries)

	params := 2 * ds.NumContinuous()
	for v := 0; v < ds.NumCategorical(); v++ {
		seen := make(map[Value]struct{})
		for _, c := range ds.Cases {
			seen[c.Categorical[v]] = struct{}{}
		}
		params += len(seen) - 1
	}
	logN := math.Log(float64(ds.Len()))

	live := make(map[int]*CFEntry, m)
	var sumXi float64
	for i, e := range entries {
		live[i] = e
		sumXi += ll.xi(e)
	}

	bic := make([]float64, m)
	bic[m-1] = -2*sumXi + float64(m*params)*logN
	if sched == nil {
		return bic
	}
	for _, st := range sched.Stages {
		a, b := live[st.Cluster1], live[st.Cluster2]
		c := Combined(a, b)
		sumXi += ll.xi(c) - ll.xi(a) - ll.xi(b)
		live[st.Cluster1] = c
		delete(live, st.Cluster2)
		k := m - st.Stage
		bic[k-1] = -2*sumXi + float64(k*params)*logN
	}
	return bic
}

// propagateLabels maps sub-cluster labels onto cases and renumbers both so
// that clusters are numbered by first appearance in case order.
func propagateLabels(n int, entries []*CFEntry, subLabels []int) (cases, subs []int) {
	raw := make([]int, n)
	for i, e := range entries {
		for _, c := range e.Cases {
			raw[c] = subLabels[i]
		}
	}
	renumber := make(map[int]int)
	cases = make([]int, n)
	for i, l := range raw {
		if _, ok := renumber[l]; !ok {
			renumber[l] = len(renumber) + 1
		}
		cases[i] = renumber[l]
	}
	subs = make([]int, len(subLabels))
	for i, l := range subLabels {
		subs[i] = renumber[l]
	}
	return cases, subs
}
