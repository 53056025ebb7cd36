package genie

import "errors"

// Sentinel errors returned by this package. Callers should use errors.Is
// to test for a specific failure mode; wrapped errors carry additional
// context via fmt.Errorf("genie: ...: %w", ...).
var (
	// ErrInvalidK is returned when the requested number of clusters is
	// not representable given the number of non-noise points.
	ErrInvalidK = errors.New("genie: invalid number of clusters")

	// ErrInvalidThreshold is returned when a Gini threshold lies outside [0, 1].
	ErrInvalidThreshold = errors.New("genie: invalid gini threshold")

	// ErrMSTIllFormed is returned when an MST fails validation: wrong edge
	// count, non-sorted weights, out-of-range or self-loop edges.
	ErrMSTIllFormed = errors.New("genie: malformed minimum spanning tree")

	// ErrInsufficientLeaves is returned when noise-leaf mode is requested
	// and leaves are present, but fewer than two of them (exactly one).
	ErrInsufficientLeaves = errors.New("genie: insufficient leaves for noise detection")

	// ErrAlreadyMerged is returned by PlainDisjointSets.Union and
	// GiniDisjointSets.Merge when both arguments already share a root.
	ErrAlreadyMerged = errors.New("genie: elements already in the same set")

	// ErrOutOfRange is returned when an index passed to a disjoint-set
	// operation falls outside its valid bounds.
	ErrOutOfRange = errors.New("genie: index out of range")

	// ErrInsufficientEdges is returned when the merge engine runs out of
	// MST edges before reaching the requested number of clusters.
	ErrInsufficientEdges = errors.New("genie: insufficient edges to reach requested cluster count")
)
