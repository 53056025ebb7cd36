package genie

import "fmt"

// MergeRecord describes one merge taken by the engine, in the order
// performed. RootA and RootB are the two components' roots *before* the
// merge, with RootA always the surviving (smaller) root, per the
// PlainDisjointSets par[max]=min invariant, so RootA < RootB always holds.
type MergeRecord struct {
	RootA, RootB int
	EdgeIndex    int
	Weight       float64
	MergedSize   int
}

// mergeState holds everything runMergeCore mutates over the course of a
// run: the Gini-tracking disjoint set over the (possibly denoised) index
// space, the edge skiplist, the probe cursor, and the merge log.
type mergeState struct {
	ds      *GiniDisjointSets
	list    *EdgeSkiplist
	probe   int
	lastMin int
	records []MergeRecord
}

// runMergeCore drives the Genie+ merge loop: at each step, either take the
// next MST edge in weight order (plain merge) or, once the running Gini
// index of the cluster-size distribution exceeds giniThreshold, divert to
// the smallest current component and merge along its lightest outgoing
// edge instead (Genie correction). mst is the (already validated) MST; nm
// is the denoise mapping (identity when noise_leaves is off); kTarget is
// the number of clusters to stop at in the denoised index space (i.e.
// the m = N - noise_count non-noise points collapsed to kTarget).
//
// It returns the final GiniDisjointSets and the ordered merge log. The
// Labeler (labeler.go) turns ds into a label vector.
func runMergeCore(mst *MST, nm *noiseMapping, deg []int, kTarget int, giniThreshold float64) (*GiniDisjointSets, []MergeRecord, error) {
	m := mst.N - nm.noiseCount
	if kTarget < 1 || kTarget > m {
		return nil, nil, fmt.Errorf("genie: k_target=%d not in [1,%d]: %w", kTarget, m, ErrInvalidK)
	}
	if giniThreshold < 0 || giniThreshold > 1 {
		return nil, nil, fmt.Errorf("genie: gini_threshold=%v not in [0,1]: %w", giniThreshold, ErrInvalidThreshold)
	}

	numEdges := mst.N - 1
	skipLeaves := nm.noiseCount > 0
	list := NewEdgeSkiplist(numEdges, mst.Edges, deg, skipLeaves)
	sentinel := list.Sentinel()

	ds := NewGiniDisjointSets(m)
	st := &mergeState{
		ds:      ds,
		list:    list,
		probe:   list.Head(),
		lastMin: 0,
	}

	steps := m - kTarget
	for i := 0; i < steps; i++ {
		if st.list.Head() == sentinel {
			return nil, nil, fmt.Errorf("genie: exhausted edges after %d/%d merges: %w", i, steps, ErrInsufficientEdges)
		}

		var err error
		if ds.K() > 1 && ds.GetGini() > giniThreshold {
			_, err = st.geniCorrectedMerge(mst, nm)
		} else {
			_, err = st.plainMerge(mst, nm)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	return ds, st.records, nil
}

// plainMerge takes the edge at the skiplist head, merges its endpoints'
// components, and advances the head.
func (st *mergeState) plainMerge(mst *MST, nm *noiseMapping) (int, error) {
	idx := st.list.Head()
	u, v := mst.Edges[idx][0], mst.Edges[idx][1]
	x, y := nm.rev[u], nm.rev[v]

	ra, err := st.ds.Find(x)
	if err != nil {
		return 0, err
	}
	rb, err := st.ds.Find(y)
	if err != nil {
		return 0, err
	}

	if _, err := st.ds.Merge(x, y); err != nil {
		return 0, err
	}
	st.recordMerge(ra, rb, idx, mst.Weights[idx])
	st.list.Remove(idx)
	return idx, nil
}

// geniCorrectedMerge probes forward from the skiplist head for the first
// edge touching the smallest current component, and merges along that
// edge instead of the head edge. The probe cursor only resets to head
// when the smallest size changes or the cursor has fallen behind head;
// otherwise it resumes from where the previous probe left off, since
// skiplist indices are only ever removed, never reordered, so a cursor
// that was valid last time remains at or ahead of head now.
func (st *mergeState) geniCorrectedMerge(mst *MST, nm *noiseMapping) (int, error) {
	s := st.ds.SmallestCount()
	head := st.list.Head()
	if s != st.lastMin || st.probe < head {
		st.probe = head
	}

	for {
		idx := st.probe
		u, v := mst.Edges[idx][0], mst.Edges[idx][1]
		cu, err := st.ds.Count(nm.rev[u])
		if err != nil {
			return 0, err
		}
		cv, err := st.ds.Count(nm.rev[v])
		if err != nil {
			return 0, err
		}
		if cu == s || cv == s {
			break
		}
		st.probe = st.list.Next(st.probe)
	}

	idx := st.probe
	u, v := mst.Edges[idx][0], mst.Edges[idx][1]
	x, y := nm.rev[u], nm.rev[v]

	ra, err := st.ds.Find(x)
	if err != nil {
		return 0, err
	}
	rb, err := st.ds.Find(y)
	if err != nil {
		return 0, err
	}

	wasHead := idx == st.list.Head()
	next := st.list.Next(idx)
	st.list.Remove(idx)
	if wasHead {
		st.probe = st.list.Head()
	} else {
		st.probe = next
	}

	if _, err := st.ds.Merge(x, y); err != nil {
		return 0, err
	}
	st.recordMerge(ra, rb, idx, mst.Weights[idx])
	st.lastMin = s
	return idx, nil
}

// recordMerge appends a MergeRecord for a merge of the two pre-merge
// component roots ra, rb (in either order); RootA is set to the smaller
// of the two, which is always the surviving root under the
// par[max]=min union convention.
func (st *mergeState) recordMerge(ra, rb, edgeIdx int, weight float64) {
	a, b := ra, rb
	if a > b {
		a, b = b, a
	}
	size, _ := st.ds.Count(a)
	st.records = append(st.records, MergeRecord{
		RootA:      a,
		RootB:      b,
		EdgeIndex:  edgeIdx,
		Weight:     weight,
		MergedSize: size,
	})
}
