// Package node implements the MirrorNode overlay (SPEC_FULL §3, §4.2): a
// StructureNode optionally bound to a Mirror, plus the typed node variants
// (Tree, BalancedTree, DepthLimitTree, Line, Ring, Star, FullyConnected,
// NConnected) that each contribute a validator, an admission predicate, a
// removal predicate, and type-specific navigation.
package node

import "errors"

// Sentinel errors for the node package.
var (
	// ErrAlreadyBound indicates Bind was called on a MirrorNode that already
	// has a Mirror attached; the binding is immutable once set (SPEC_FULL
	// §3 MirrorNode lifecycle).
	ErrAlreadyBound = errors.New("node: mirror node already bound")

	// ErrNilMirrorNode indicates a nil *MirrorNode was passed where a live
	// node was required.
	ErrNilMirrorNode = errors.New("node: nil mirror node")

	// ErrInvalidStructure indicates a variant's isValidStructure check
	// failed; the error wraps a description of which invariant broke.
	ErrInvalidStructure = errors.New("node: structure invariant violated")

	// ErrTooFewMembers indicates an operation was attempted on a structure
	// below its minimum member count.
	ErrTooFewMembers = errors.New("node: too few members for structure")

	// ErrNotRemovable indicates canBeRemovedFromStructure rejected a
	// requested removal.
	ErrNotRemovable = errors.New("node: member not removable from structure")

	// ErrAtCapacity indicates canAcceptMoreChildren rejected a requested
	// admission.
	ErrAtCapacity = errors.New("node: member at capacity, cannot accept more children")
)
