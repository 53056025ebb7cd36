// Package genie implements the Genie+ hierarchical clustering algorithm
// and its Information-Criterion variant.
//
// Genie+ walks the edges of a precomputed minimum spanning tree in weight
// order, merging the components they connect, but diverts a merge toward
// a smallest-size component whenever the Gini index of the current
// component-size distribution exceeds a threshold. This keeps cluster
// sizes balanced without sacrificing single linkage's speed.
//
// Basic usage:
//
//	p := genie.DefaultParams()
//	p.K = 4
//	result, err := genie.Run(mst, p)
//	// result.Labels[i] is the cluster ID for vertex i (-1 = noise)
//
// Genie+Information Criterion over-merges to K+AddClusters clusters under
// a schedule of Gini thresholds, scores each candidate with a pluggable
// ClusterIC, and collapses the best one down to K clusters:
//
//	p := genie.DefaultGICParams()
//	p.K = 4
//	result, err := genie.RunGIC(mst, p)
//
// # Scope
//
// Callers supply a precomputed MST via the MST type; building one from raw
// data, and computing the pairwise distances that would feed such a
// builder, are not this package's job. Comparison metrics (Rand index,
// Fowlkes-Mallows, mutual information) are likewise external
// collaborators, aside from an internal helper used by this package's own
// tests.
package genie
