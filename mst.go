package genie

import "fmt"

// MST is a minimum spanning tree over vertices {0,...,N-1}, given as N-1
// undirected edges with non-decreasing weights. Callers construct it from
// an external MST provider (MST construction itself is out of scope here);
// Validate checks the structural invariants the merge engine relies on.
type MST struct {
	N       int
	Weights []float64 // length N-1, non-decreasing
	Edges   [][2]int  // length N-1, unordered pairs (u, v), u != v, 0<=u,v<N
}

// Validate checks that m is well-formed: the right number of edges,
// non-decreasing weights, no self-loops, and endpoints in range. It does
// not verify full spanning-tree connectivity (that would require a
// traversal the engine does not otherwise need); malformed non-tree input
// that passes these checks will surface later as a degree/denoise
// inconsistency.
func (m *MST) Validate() error {
	if m.N < 1 {
		return fmt.Errorf("genie: N must be >= 1, got %d: %w", m.N, ErrMSTIllFormed)
	}
	wantEdges := m.N - 1
	if len(m.Weights) != wantEdges || len(m.Edges) != wantEdges {
		return fmt.Errorf("genie: expected %d edges, got %d weights and %d edges: %w",
			wantEdges, len(m.Weights), len(m.Edges), ErrMSTIllFormed)
	}
	for i := 1; i < len(m.Weights); i++ {
		if m.Weights[i-1] > m.Weights[i] {
			return fmt.Errorf("genie: weights not non-decreasing at index %d: %w", i, ErrMSTIllFormed)
		}
	}
	for i, e := range m.Edges {
		u, v := e[0], e[1]
		if u < 0 || v < 0 || u >= m.N || v >= m.N {
			return fmt.Errorf("genie: edge %d (%d,%d) out of range [0,%d): %w", i, u, v, m.N, ErrMSTIllFormed)
		}
		if u == v {
			return fmt.Errorf("genie: edge %d is a self-loop (%d): %w", i, u, ErrMSTIllFormed)
		}
	}
	return nil
}

// Degrees returns deg[i], the number of MST edges incident to vertex i.
func (m *MST) Degrees() []int {
	deg := make([]int, m.N)
	for _, e := range m.Edges {
		deg[e[0]]++
		deg[e[1]]++
	}
	return deg
}

// noiseMapping holds the bijections between original vertex indices and
// the compacted non-noise index space used internally by the merge
// engine, plus the count of detected noise points (MST leaves).
type noiseMapping struct {
	fwd        []int // fwd[j] = i: the j-th non-noise vertex is original vertex i
	rev        []int // rev[i] = j, or -1 if i is noise
	noiseCount int
}

// buildNoiseMapping computes the denoise bijections. When noiseLeaves is
// false, the mapping is the identity and noiseCount is 0. When true,
// vertices of degree 1 (leaves) are excluded; it fails with
// ErrInsufficientLeaves if leaves exist but fewer than two are found.
func buildNoiseMapping(n int, deg []int, noiseLeaves bool) (*noiseMapping, error) {
	nm := &noiseMapping{
		fwd: make([]int, 0, n),
		rev: make([]int, n),
	}
	if !noiseLeaves {
		nm.fwd = make([]int, n)
		for i := 0; i < n; i++ {
			nm.fwd[i] = i
			nm.rev[i] = i
		}
		return nm, nil
	}

	leafCount := 0
	for i := 0; i < n; i++ {
		if deg[i] == 1 {
			leafCount++
			nm.rev[i] = -1
		} else {
			nm.rev[i] = len(nm.fwd)
			nm.fwd = append(nm.fwd, i)
		}
	}
	if leafCount > 0 && leafCount < 2 {
		return nil, fmt.Errorf("genie: noise_leaves on, found %d leaf: %w", leafCount, ErrInsufficientLeaves)
	}
	nm.noiseCount = leafCount
	return nm, nil
}
