package genie

import "fmt"

// PlainDisjointSets is a union-find structure over the integers {0,...,n-1}
// with path compression. It maintains the invariant par[i] <= i: the root
// of any component is always the smallest original index it contains. That
// invariant lets GiniDisjointSets (and anything else iterating over roots)
// walk components in increasing order for free.
type PlainDisjointSets struct {
	par []int
	k   int
}

// NewPlainDisjointSets returns a disjoint-set structure over {0,...,n-1},
// with each element initially in its own singleton component.
func NewPlainDisjointSets(n int) *PlainDisjointSets {
	par := make([]int, n)
	for i := range par {
		par[i] = i
	}
	return &PlainDisjointSets{par: par, k: n}
}

// N returns the number of elements the structure was built over.
func (d *PlainDisjointSets) N() int {
	return len(d.par)
}

// K returns the current number of components.
func (d *PlainDisjointSets) K() int {
	return d.k
}

// Find returns the root of x's component, compressing the path from x to
// the root so that future lookups are faster.
func (d *PlainDisjointSets) Find(x int) (int, error) {
	if x < 0 || x >= len(d.par) {
		return 0, fmt.Errorf("genie: Find(%d): %w", x, ErrOutOfRange)
	}
	root := x
	for d.par[root] != root {
		root = d.par[root]
	}
	// second pass: relink every node on the path directly to root.
	for d.par[x] != root {
		next := d.par[x]
		d.par[x] = root
		x = next
	}
	return root, nil
}

// Union merges the components containing x and y. It requires that x and y
// are not already in the same component. The smaller of the two roots
// survives (par[max] = min), preserving the par[i] <= i invariant. It
// returns the surviving (smaller) root.
func (d *PlainDisjointSets) Union(x, y int) (int, error) {
	a, err := d.Find(x)
	if err != nil {
		return 0, err
	}
	b, err := d.Find(y)
	if err != nil {
		return 0, err
	}
	if a == b {
		return 0, fmt.Errorf("genie: Union(%d, %d): %w", x, y, ErrAlreadyMerged)
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	d.par[hi] = lo
	d.k--
	return lo, nil
}
