package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/topology"
)

// MinSnowflakeBridgeMembers is the smallest meaningful bridge: a central
// member plus at least one substructure anchor.
const MinSnowflakeBridgeMembers = 2

// Snowflake implements the composite-structure invariant (SPEC_FULL §4.2.7):
// a central bridge tree (tagged SNOWFLAKE) whose leaves are the anchors of
// independently-validating substructures. The bridge itself validates with
// the ordinary tree rule; SubstructureByAnchor supplies, per anchor node id,
// the Variant that built and therefore validates that anchor's substructure
// (the strategy layer populates this map at build time, since the factory
// parameters — e.g. an NConnected's N, a BalancedTree's TargetLinksPerNode —
// live there, not in the planning graph).
type Snowflake struct {
	BridgeDistance       int
	SubstructureByAnchor map[id.ID]Variant
}

var _ Variant = Snowflake{}

// DeriveTypeID returns TypeSnowflake.
func (Snowflake) DeriveTypeID() topology.StructureType { return topology.TypeSnowflake }

// IsValidStructure validates that the bridge forms a tree rooted at head,
// that every bridge leaf (anchor) has a registered substructure variant
// which independently validates, and that no mirror is a member of two
// substructures (P8).
func (s Snowflake) IsValidStructure(g *Graph, head *MirrorNode) error {
	if err := validateTree(g, topology.TypeSnowflake, head); err != nil {
		return err
	}
	ms := members(g, topology.TypeSnowflake, head)
	if len(ms) < MinSnowflakeBridgeMembers {
		return fmt.Errorf("snowflake: bridge rooted at %d has %d members, need >= %d: %w", head.ID, len(ms), MinSnowflakeBridgeMembers, ErrTooFewMembers)
	}

	seen := map[id.ID]bool{}
	anchorCount := 0
	for _, m := range ms {
		if childCount(m, topology.TypeSnowflake) > 0 {
			continue // bridge interior or central head, not an anchor
		}
		anchorCount++
		v, ok := s.SubstructureByAnchor[m.ID]
		if !ok {
			return fmt.Errorf("snowflake: anchor %d has no registered substructure variant: %w", m.ID, ErrInvalidStructure)
		}
		if !m.Node.IsHead(v.DeriveTypeID()) {
			return fmt.Errorf("snowflake: anchor %d is not marked head of %s: %w", m.ID, v.DeriveTypeID(), ErrInvalidStructure)
		}
		if err := v.IsValidStructure(g, m); err != nil {
			return fmt.Errorf("snowflake: anchor %d substructure invalid: %w", m.ID, err)
		}
		for _, sm := range members(g, v.DeriveTypeID(), m) {
			if seen[sm.ID] {
				return fmt.Errorf("snowflake: mirror %d belongs to two substructures: %w", sm.ID, ErrInvalidStructure)
			}
			seen[sm.ID] = true
		}
	}
	if anchorCount == 0 {
		return fmt.Errorf("snowflake: bridge rooted at %d has no substructure anchors: %w", head.ID, ErrInvalidStructure)
	}
	return nil
}

// CanAcceptMoreChildren reports true only for the central head: a new
// substructure may be wired in under it, but bridge interior members and
// anchors accept no further bridge children.
func (Snowflake) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return n.ID == head.ID
}

// CanBeRemovedFromStructure always reports false: the bridge itself is
// structural scaffolding maintained by the strategy's build algorithm, not
// by the generic single-member removal path; substructure members are
// removed through their own Variant instead.
func (Snowflake) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return false
}

// BridgeAnchors returns every substructure anchor reachable from head's
// bridge (the bridge-tree leaves).
func BridgeAnchors(g *Graph, head *MirrorNode) []*MirrorNode {
	var anchors []*MirrorNode
	for _, m := range members(g, topology.TypeSnowflake, head) {
		if childCount(m, topology.TypeSnowflake) == 0 {
			anchors = append(anchors, m)
		}
	}
	return anchors
}
