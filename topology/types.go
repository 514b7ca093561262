// Package topology implements the StructureNode planning graph (SPEC_FULL
// §3, §4.1): the typed, multi-membership graph that records intended
// topology independent of the physical Mirrors and Links that eventually
// realise it. Every typed node variant and every strategy builds on top of
// this package.
package topology

import "sort"

// StructureType is a tag drawn from the closed set of topology families a
// StructureNode may participate in.
type StructureType string

// The closed set of structure-type tags (SPEC_FULL §3).
const (
	TypeMirror         StructureType = "MIRROR"
	TypeTree           StructureType = "TREE"
	TypeBalancedTree   StructureType = "BALANCED_TREE"
	TypeDepthLimitTree StructureType = "DEPTH_LIMIT_TREE"
	TypeLine           StructureType = "LINE"
	TypeRing           StructureType = "RING"
	TypeStar           StructureType = "STAR"
	TypeFullyConnected StructureType = "FULLY_CONNECTED"
	TypeNConnected     StructureType = "N_CONNECTED"
	TypeSnowflake      StructureType = "SNOWFLAKE"
)

// TypeSet is an unordered set of StructureType tags.
type TypeSet map[StructureType]struct{}

// NewTypeSet returns a TypeSet containing exactly the given types.
func NewTypeSet(types ...StructureType) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is a member of the set.
func (s TypeSet) Has(t StructureType) bool {
	_, ok := s[t]
	return ok
}

// Add inserts t into the set.
func (s TypeSet) Add(t StructureType) { s[t] = struct{}{} }

// Remove deletes t from the set.
func (s TypeSet) Remove(t StructureType) { delete(s, t) }

// Empty reports whether the set has no members.
func (s TypeSet) Empty() bool { return len(s) == 0 }

// Union mutates s to additionally contain every member of other.
func (s TypeSet) Union(other TypeSet) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// Subtract mutates s to remove every member of other.
func (s TypeSet) Subtract(other TypeSet) {
	for t := range other {
		delete(s, t)
	}
}

// Slice returns the set's members in a deterministic (lexicographic) order.
func (s TypeSet) Slice() []StructureType {
	out := make([]StructureType, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a shallow copy of s.
func (s TypeSet) Clone() TypeSet {
	out := make(TypeSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}
