package genie

// Labeler assigns contiguous cluster ids to the roots of a finished
// GiniDisjointSets run, in order of first occurrence when scanning
// original vertex indices 0..N-1. Noise points (those with no entry in
// the denoise mapping) are labeled -1.
type Labeler struct {
	ds *GiniDisjointSets
	nm *noiseMapping
}

// NewLabeler builds a Labeler over a finished run's disjoint-set state
// and its denoise mapping.
func NewLabeler(ds *GiniDisjointSets, nm *noiseMapping) *Labeler {
	return &Labeler{ds: ds, nm: nm}
}

// Labels returns a length-N label vector: label[i] is -1 for a noise
// point, otherwise the 0-based id of i's cluster, assigned in order of
// first occurrence over i = 0..N-1. It is a pure read over ds and nm, so
// calling it twice on the same Labeler yields identical output.
func (l *Labeler) Labels(n int) ([]int, error) {
	labels := make([]int, n)
	seen := make(map[int]int)
	next := 0

	for i := 0; i < n; i++ {
		j := l.nm.rev[i]
		if j < 0 {
			labels[i] = -1
			continue
		}
		root, err := l.ds.Find(j)
		if err != nil {
			return nil, err
		}
		orig := l.nm.fwd[root]
		id, ok := seen[orig]
		if !ok {
			id = next
			seen[orig] = id
			next++
		}
		labels[i] = id
	}
	return labels, nil
}
