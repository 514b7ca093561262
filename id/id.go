// Package id provides the process-wide monotone identifier source shared by
// every entity the simulator creates: StructureNodes, MirrorNodes, Mirrors,
// and Links. The engine draws node, mirror and link identifiers from one
// shared Source, so no two entities of a run ever carry the same id.
package id

import "sync/atomic"

// ID is a monotone, process-wide unique identifier. The zero value is never
// issued by a Source; it is reserved to mean "no id" where callers need one.
type ID uint64

// Source issues strictly increasing IDs starting at 1. A Source is safe for
// concurrent use, though the simulator itself is single-threaded (§5).
type Source struct {
	next uint64
}

// NewSource returns a Source whose first issued ID is 1.
func NewSource() *Source {
	return &Source{}
}

// Next returns the next unused ID from the source.
// Complexity: O(1).
func (s *Source) Next() ID {
	return ID(atomic.AddUint64(&s.next, 1))
}
