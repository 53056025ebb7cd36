package genie

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ClusterIC scores a single cluster for the information-criterion
// collapse phase of GICMergeEngine. Lower scores are preferred; among
// pairs of clusters joined by an MST edge, the engine greedily merges the
// pair whose combined score minus the sum of their individual scores is
// smallest. The exact formula is
// intentionally pluggable and experimental: callers are expected to
// supply whichever IC fits their data, with DefaultClusterIC standing in
// only as a placeholder that exercises the surrounding control flow.
type ClusterIC interface {
	Score(size int, dispersion float64, dims float64) float64
}

// DefaultClusterIC is an experimental, size- and dispersion-penalized
// score: larger, more dispersed clusters score worse, with the penalty
// scaled by the caller-supplied dimensionality. It has no claim to
// optimality; callers with a specific IC in mind should supply their own
// ClusterIC.
type DefaultClusterIC struct{}

// Score implements ClusterIC.
func (DefaultClusterIC) Score(size int, dispersion float64, dims float64) float64 {
	if size <= 1 {
		return 0
	}
	return float64(size)*dispersion*dims + float64(size)
}

// GICParams controls a Genie+Information Criterion run.
// Start with [DefaultGICParams] and override the fields you need.
type GICParams struct {
	// K is the final number of clusters. Must be in [1, m].
	K int

	// AddClusters is the number of extra clusters to over-merge to before
	// the IC collapse phase (k_target + add). Ignored when Thresholds is
	// empty (Agglomerative-IC starts from all singletons). Must be >= 0.
	AddClusters int

	// Dimensionality is the caller-supplied dimensionality D fed to the
	// information criterion. Must be > 0.
	Dimensionality float64

	// Thresholds is the sequence of Gini thresholds tried, in order, for
	// the over-merge phase; the candidate with the lowest aggregate IC
	// score is kept. An empty slice selects Agglomerative-IC: start from
	// the fully disconnected partition and coarsen using the IC alone.
	// Default: {0.3, 0.5, 0.7}.
	Thresholds []float64

	// NoiseLeaves excludes MST leaves from clustering, as in Params.
	NoiseLeaves bool

	// IC scores candidate clusters during the collapse phase. Defaults to
	// DefaultClusterIC when nil.
	IC ClusterIC
}

// DefaultGICParams returns a GICParams with reasonable defaults.
func DefaultGICParams() GICParams {
	return GICParams{
		K:              2,
		AddClusters:    2,
		Dimensionality: 1,
		Thresholds:     []float64{0.3, 0.5, 0.7},
		IC:             DefaultClusterIC{},
	}
}

func validateGICParams(p *GICParams) error {
	if p.K < 1 {
		return fmt.Errorf("genie: K must be >= 1, got %d: %w", p.K, ErrInvalidK)
	}
	if p.AddClusters < 0 {
		return fmt.Errorf("genie: AddClusters must be >= 0, got %d: %w", p.AddClusters, ErrInvalidK)
	}
	if p.Dimensionality <= 0 {
		return fmt.Errorf("genie: Dimensionality must be > 0, got %v", p.Dimensionality)
	}
	for _, g := range p.Thresholds {
		if g < 0 || g > 1 {
			return fmt.Errorf("genie: threshold %v not in [0,1]: %w", g, ErrInvalidThreshold)
		}
	}
	return nil
}

// RunGIC performs Genie+Information Criterion clustering over a
// precomputed MST: an over-merge phase (plain Genie+ runs past the
// target cluster count) followed by an IC-guided collapse back down to
// the requested number of clusters.
func RunGIC(mst *MST, p GICParams) (*Result, error) {
	if err := validateGICParams(&p); err != nil {
		return nil, err
	}
	if p.IC == nil {
		p.IC = DefaultClusterIC{}
	}
	if err := mst.Validate(); err != nil {
		return nil, err
	}

	deg := mst.Degrees()
	nm, err := buildNoiseMapping(mst.N, deg, p.NoiseLeaves)
	if err != nil {
		return nil, err
	}
	m := mst.N - nm.noiseCount
	if p.K > m {
		return nil, fmt.Errorf("genie: K=%d exceeds %d non-noise points: %w", p.K, m, ErrInvalidK)
	}

	ds, records, err := overMerge(mst, nm, deg, p, m)
	if err != nil {
		return nil, err
	}

	if err := coarsenByIC(mst, nm, ds, &records, p.K, p.IC, p.Dimensionality); err != nil {
		return nil, err
	}

	labels, err := NewLabeler(ds, nm).Labels(mst.N)
	if err != nil {
		return nil, err
	}
	return &Result{Labels: labels, Merges: records}, nil
}

// overMerge runs the over-merge phase: either the fully disconnected
// partition (Thresholds empty) or the best-scoring candidate among
// running the merge core once per threshold to k_target+add clusters.
func overMerge(mst *MST, nm *noiseMapping, deg []int, p GICParams, m int) (*GiniDisjointSets, []MergeRecord, error) {
	if len(p.Thresholds) == 0 {
		return NewGiniDisjointSets(m), nil, nil
	}

	kOver := p.K + p.AddClusters
	if kOver > m {
		kOver = m
	}

	var bestDS *GiniDisjointSets
	var bestRecords []MergeRecord
	bestScore := 0.0
	haveBest := false

	for _, g := range p.Thresholds {
		ds, records, err := runMergeCore(mst, nm, deg, kOver, g)
		if err != nil {
			return nil, nil, err
		}
		score := scorePartition(mst, nm, ds, records, p.IC, p.Dimensionality)
		if !haveBest || score < bestScore {
			bestDS, bestRecords, bestScore, haveBest = ds, records, score, true
		}
	}
	return bestDS, bestRecords, nil
}

// scorePartition sums ClusterIC over every current component.
func scorePartition(mst *MST, nm *noiseMapping, ds *GiniDisjointSets, records []MergeRecord, ic ClusterIC, dims float64) float64 {
	sizes, dispersions := componentStats(ds, records)
	total := 0.0
	for root, size := range sizes {
		total += ic.Score(size, dispersions[root], dims)
	}
	return total
}

// componentStats groups MergeRecord weights by the final root each
// merge's surviving side resolves to, returning per-root size and
// dispersion (variance of the weights consumed while building it).
func componentStats(ds *GiniDisjointSets, records []MergeRecord) (sizes map[int]int, dispersions map[int]float64) {
	weights := make(map[int][]float64)
	sizes = make(map[int]int)
	for _, r := range records {
		root, err := ds.Find(r.RootA)
		if err != nil {
			continue
		}
		weights[root] = append(weights[root], r.Weight)
	}
	for root := 0; root < ds.N(); root++ {
		if rr, err := ds.Find(root); err == nil && rr == root {
			if c, err := ds.Count(root); err == nil {
				sizes[root] = c
			}
		}
	}
	dispersions = make(map[int]float64)
	for root, ws := range weights {
		if len(ws) < 2 {
			dispersions[root] = 0
			continue
		}
		dispersions[root] = stat.Variance(ws, nil)
	}
	return sizes, dispersions
}

// bridgeEdge is a candidate merge between two current clusters, derived
// from an MST edge whose endpoints currently resolve to distinct roots.
type bridgeEdge struct {
	rootA, rootB int
	weight       float64
}

// coarsenByIC collapses the current partition down to kTarget clusters
// by repeatedly merging the pair of clusters connected by a bridge edge
// that minimizes the increase in aggregate IC score. After any valid
// merge-core run leaves kCurrent clusters, the MST edges bridging
// distinct clusters number exactly kCurrent-1 and form a tree (an
// MST-contraction argument), so this never needs an all-pairs search: it
// re-derives the bridge set by rescanning every MST edge each round. After
// a threshold run that is at most AddClusters rounds; for Agglomerative-IC (empty
// Thresholds) it is m-kTarget rounds, starting from all singletons.
func coarsenByIC(mst *MST, nm *noiseMapping, ds *GiniDisjointSets, records *[]MergeRecord, kTarget int, ic ClusterIC, dims float64) error {
	for ds.K() > kTarget {
		bridges := findBridges(mst, nm, ds)
		if len(bridges) == 0 {
			return fmt.Errorf("genie: no bridge edges remain with %d clusters, need %d: %w", ds.K(), kTarget, ErrInsufficientEdges)
		}

		sizes, dispersions := componentStats(ds, *records)
		best := -1
		bestDelta := 0.0
		for i, be := range bridges {
			sa, sb := sizes[be.rootA], sizes[be.rootB]
			da, db := dispersions[be.rootA], dispersions[be.rootB]
			before := ic.Score(sa, da, dims) + ic.Score(sb, db, dims)
			combinedWeights := append(append([]float64{}, weightsOf(*records, ds, be.rootA)...), weightsOf(*records, ds, be.rootB)...)
			combinedWeights = append(combinedWeights, be.weight)
			combinedDispersion := 0.0
			if len(combinedWeights) >= 2 {
				combinedDispersion = stat.Variance(combinedWeights, nil)
			}
			after := ic.Score(sa+sb, combinedDispersion, dims)
			delta := after - before
			if best < 0 || delta < bestDelta ||
				(delta == bestDelta && tieBreakLess(bridges[i], bridges[best])) {
				best, bestDelta = i, delta
			}
		}

		chosen := bridges[best]
		if _, err := ds.Merge(chosen.rootA, chosen.rootB); err != nil {
			return err
		}
		// chosen.rootA < chosen.rootB already (findBridges normalizes each
		// pair), and rootA is the smaller pre-merge root, i.e. the
		// surviving one.
		size, _ := ds.Count(chosen.rootA)
		*records = append(*records, MergeRecord{
			RootA: chosen.rootA, RootB: chosen.rootB,
			EdgeIndex: -1, Weight: chosen.weight, MergedSize: size,
		})
	}
	return nil
}

func tieBreakLess(a, b bridgeEdge) bool {
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return min(a.rootA, a.rootB) < min(b.rootA, b.rootB)
}

// weightsOf returns the recorded weights belonging to the component
// currently rooted at root.
func weightsOf(records []MergeRecord, ds *GiniDisjointSets, root int) []float64 {
	var out []float64
	for _, r := range records {
		rr, err := ds.Find(r.RootA)
		if err != nil || rr != root {
			continue
		}
		out = append(out, r.Weight)
	}
	return out
}

// findBridges scans the MST edges for those whose endpoints currently
// resolve to distinct cluster roots, deduplicating by root pair and
// keeping the lightest candidate per pair (sorted for determinism).
func findBridges(mst *MST, nm *noiseMapping, ds *GiniDisjointSets) []bridgeEdge {
	best := make(map[[2]int]bridgeEdge)
	for i, e := range mst.Edges {
		u, v := e[0], e[1]
		x, y := nm.rev[u], nm.rev[v]
		if x < 0 || y < 0 {
			continue
		}
		ra, err := ds.Find(x)
		if err != nil {
			continue
		}
		rb, err := ds.Find(y)
		if err != nil || ra == rb {
			continue
		}
		if ra > rb {
			ra, rb = rb, ra
		}
		key := [2]int{ra, rb}
		w := mst.Weights[i]
		if cur, ok := best[key]; !ok || w < cur.weight {
			best[key] = bridgeEdge{rootA: ra, rootB: rb, weight: w}
		}
	}
	out := make([]bridgeEdge, 0, len(best))
	for _, be := range best {
		out = append(out, be)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].weight != out[j].weight {
			return out[i].weight < out[j].weight
		}
		return out[i].rootA < out[j].rootA
	})
	return out
}
