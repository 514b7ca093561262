package topology

import "errors"

// Sentinel errors for the topology package. Wrapped with %w and a method
// prefix at the call site; branch with errors.Is.
var (
	// ErrNilNode indicates a nil *Node was passed where a live node was
	// required.
	ErrNilNode = errors.New("topology: nil node")

	// ErrAlreadyParented indicates addChild was called for a child that
	// already has a parent edge tagged with one of the requested types.
	ErrAlreadyParented = errors.New("topology: child already parented for type")

	// ErrNotChild indicates removeChild was called for a child not present
	// among the parent's children.
	ErrNotChild = errors.New("topology: not a child of this node")

	// ErrUnknownNode indicates a node id was not found in the graph's arena.
	ErrUnknownNode = errors.New("topology: unknown node id")
)
