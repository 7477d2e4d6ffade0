// Package hclust implements agglomerative hierarchical clustering and
// two-step clustering of cases described by continuous and categorical
// variables.
//
// Hierarchical clustering measures every pair of cases, then repeatedly
// merges the two closest clusters, updating distances with the
// Lance-Williams recurrence of the chosen linkage. The resulting
// agglomeration schedule can be turned into a dendrogram, an icicle plot or
// flat cluster memberships.
//
// Basic usage:
//
//	ds, err := hclust.NewDataset(rows, nil, nil)
//	cfg := hclust.DefaultConfig()
//	cfg.Linkage = hclust.LinkageWard
//	cfg.MinClusters, cfg.MaxClusters = 2, 5
//	result, err := hclust.Cluster(ds, cfg)
//	// result.Schedule.Stages[s] is the s+1-th merge
//	// result.Memberships[3][i] is the cluster of case i when cut at 3
//
// # Proximity measures
//
// Interval measures (squared Euclidean, Euclidean, block, Chebyshev,
// Minkowski, power, Pearson correlation, cosine), counts measures
// (chi-square, phi-square) and 27 binary coefficients are available through
// NewMetric. Similarity measures are clustered by merging the most similar
// pair first; schedules built from them report similarities.
//
// # Two-step clustering
//
// For large datasets TwoStep compresses the cases into at most
// MaxBranch^MaxDepth cluster-feature entries, agglomerates those with a
// log-likelihood or Euclidean distance and picks the number of clusters
// from the merge distances and the BIC curve:
//
//	cfg := hclust.DefaultTwoStepConfig()
//	result, err := hclust.TwoStep(ds, cfg)
//	// result.Labels[i] is the cluster (1..result.K) of case i
package hclust
