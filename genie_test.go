package genie

import (
	"errors"
	"testing"
)

// fourSquaresMST builds an n=12 MST out of four size-3 cliques, each
// spanned internally by weight-1 edges, bridged into a single tree by
// three weight-10 edges, so that the four cliques are exactly reachable
// at k_target=4 without ever touching a bridge.
func fourSquaresMST() *MST {
	return &MST{
		N: 12,
		Weights: []float64{
			1, 1, 1, 1, 1, 1, 1, 1, // 8 internal edges
			10, 10, 10, // 3 bridges
		},
		Edges: [][2]int{
			{0, 1}, {0, 2},
			{3, 4}, {3, 5},
			{6, 7}, {6, 8},
			{9, 10}, {9, 11},
			{0, 3}, {0, 6}, {0, 9},
		},
	}
}

func TestRun_FourSquares(t *testing.T) {
	mst := fourSquaresMST()
	res, err := Run(mst, Params{K: 4, GiniThreshold: 0.3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3}
	if len(res.Labels) != len(want) {
		t.Fatalf("len(Labels) = %d, want %d", len(res.Labels), len(want))
	}
	for i := range want {
		if res.Labels[i] != want[i] {
			t.Errorf("Labels[%d] = %d, want %d (full: %v)", i, res.Labels[i], want[i], res.Labels)
		}
	}
}

func pathWithHeavyTail() *MST {
	// 0-1-2-3-4-5, weights [1,1,1,1,10].
	return &MST{
		N:       6,
		Weights: []float64{1, 1, 1, 1, 10},
		Edges:   [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}},
	}
}

func TestRun_PathSingleLinkage(t *testing.T) {
	mst := pathWithHeavyTail()
	res, err := Run(mst, Params{K: 2, GiniThreshold: 1.0})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{0, 0, 0, 0, 0, 1}
	for i := range want {
		if res.Labels[i] != want[i] {
			t.Errorf("g=1: Labels[%d] = %d, want %d (full: %v)", i, res.Labels[i], want[i], res.Labels)
		}
	}
}

// TestRun_PathGiniZero exercises the Genie correction (g=0) on a pure
// path. The correction cannot divert off the chain here: every
// unconsumed edge touches the growing main component and a size-1
// singleton, so the probe always lands on the same edge the plain head
// would have chosen, and the result matches single linkage on this
// input.
func TestRun_PathGiniZero(t *testing.T) {
	mst := pathWithHeavyTail()
	res, err := Run(mst, Params{K: 2, GiniThreshold: 0})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{0, 0, 0, 0, 0, 1}
	for i := range want {
		if res.Labels[i] != want[i] {
			t.Errorf("g=0: Labels[%d] = %d, want %d (full: %v)", i, res.Labels[i], want[i], res.Labels)
		}
	}
}

func starMST() *MST {
	// Center 0, leaves 1..4, all weights equal.
	return &MST{
		N:       5,
		Weights: []float64{1, 1, 1, 1},
		Edges:   [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
	}
}

func TestRun_StarNoiseLeaves(t *testing.T) {
	mst := starMST()
	res, err := Run(mst, Params{K: 1, GiniThreshold: 0.3, NoiseLeaves: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{0, -1, -1, -1, -1}
	for i := range want {
		if res.Labels[i] != want[i] {
			t.Errorf("Labels[%d] = %d, want %d (full: %v)", i, res.Labels[i], want[i], res.Labels)
		}
	}
}

func TestRun_ShuffledMSTFailsValidation(t *testing.T) {
	mst := pathWithHeavyTail()
	mst.Weights[0], mst.Weights[4] = mst.Weights[4], mst.Weights[0]
	_, err := Run(mst, Params{K: 2, GiniThreshold: 0.3})
	if !errors.Is(err, ErrMSTIllFormed) {
		t.Errorf("Run on shuffled MST: got %v, want ErrMSTIllFormed", err)
	}
}

func TestRun_InvalidK(t *testing.T) {
	mst := pathWithHeavyTail()
	_, err := Run(mst, Params{K: 100, GiniThreshold: 0.3})
	if !errors.Is(err, ErrInvalidK) {
		t.Errorf("Run with K too large: got %v, want ErrInvalidK", err)
	}
	_, err = Run(mst, Params{K: 0, GiniThreshold: 0.3})
	if !errors.Is(err, ErrInvalidK) {
		t.Errorf("Run with K=0: got %v, want ErrInvalidK", err)
	}
}

func TestRun_InvalidThreshold(t *testing.T) {
	mst := pathWithHeavyTail()
	_, err := Run(mst, Params{K: 2, GiniThreshold: 1.5})
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("Run with threshold 1.5: got %v, want ErrInvalidThreshold", err)
	}
}

// TestRun_MergesAreRootAMinor checks that each reported merge's RootA
// and RootB are themselves roots of their respective components at the
// moment the merge was taken (not arbitrary member vertices), and that
// RootA is the surviving one: replaying the merge log against a shadow
// disjoint-set confirms Find(RootA) == RootA and Find(RootB) == RootB
// hold immediately before each union, and Find(RootA) == RootA still
// holds immediately after.
func TestRun_MergesAreRootAMinor(t *testing.T) {
	mst := fourSquaresMST()
	res, err := Run(mst, Params{K: 1, GiniThreshold: 0.3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	shadow := NewPlainDisjointSets(mst.N)
	for _, m := range res.Merges {
		if m.RootA >= m.RootB {
			t.Fatalf("merge %+v violates RootA < RootB", m)
		}
		ra, err := shadow.Find(m.RootA)
		if err != nil {
			t.Fatalf("Find(RootA=%d): %v", m.RootA, err)
		}
		if ra != m.RootA {
			t.Errorf("merge %+v: RootA is not a root before the merge (Find(RootA)=%d)", m, ra)
		}
		rb, err := shadow.Find(m.RootB)
		if err != nil {
			t.Fatalf("Find(RootB=%d): %v", m.RootB, err)
		}
		if rb != m.RootB {
			t.Errorf("merge %+v: RootB is not a root before the merge (Find(RootB)=%d)", m, rb)
		}

		survivor, err := shadow.Union(m.RootA, m.RootB)
		if err != nil {
			t.Fatalf("Union(%d,%d): %v", m.RootA, m.RootB, err)
		}
		if survivor != m.RootA {
			t.Errorf("merge %+v: surviving root after union = %d, want RootA = %d", m, survivor, m.RootA)
		}
	}
}

// TestRun_LabelerIdempotent checks that relabeling the same finished
// state twice yields the same vector.
func TestRun_LabelerIdempotent(t *testing.T) {
	mst := fourSquaresMST()
	deg := mst.Degrees()
	nm, err := buildNoiseMapping(mst.N, deg, false)
	if err != nil {
		t.Fatalf("buildNoiseMapping: %v", err)
	}
	ds, _, err := runMergeCore(mst, nm, deg, 4, 0.3)
	if err != nil {
		t.Fatalf("runMergeCore: %v", err)
	}
	l := NewLabeler(ds, nm)
	a, err := l.Labels(mst.N)
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	b, err := l.Labels(mst.N)
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Labels differ between calls at %d: %d vs %d", i, a[i], b[i])
		}
	}
}
