// Package strategy implements the topology strategy family (SPEC_FULL
// §4.3): the uniform initNetwork/restartNetwork/handleAddNewMirrors/
// handleRemoveMirrors/getPredictedNumTargetLinks/getNumTargetLinksPerMirror/
// initNetworkSub contract, one concrete type per structure family (Tree,
// BalancedTree, DepthLimitTree, Line, Ring, Star, FullyConnected,
// NConnected, Snowflake). Each strategy is a record of {kind, parameters,
// builder}, grounded on the teacher's builder.Constructor closures
// (builder/api.go) and the deterministic id/edge emission order of
// builder/impl_platonic.go.
package strategy

import (
	"math/rand"

	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
)

// BuildParams carries everything a strategy needs to materialise Mirrors'
// planning-graph nodes and Links, but nothing it should retain: strategies
// are pure with respect to now except to stamp newly created Links
// (SPEC_FULL §4.3).
type BuildParams struct {
	IDs   *id.Source
	Props mirror.Props
	Now   int
	RNG   *rand.Rand
}

// Result is what every build operation returns: the structure's head, every
// MirrorNode it placed (including pre-existing ones touched by the
// operation), and every Link freshly materialised.
type Result struct {
	Head  *node.MirrorNode
	Nodes []*node.MirrorNode
	Links []*mirror.Link
}

// Strategy is the uniform contract every topology family implements
// (SPEC_FULL §4.3).
type Strategy interface {
	// Kind returns the StructureType this strategy builds and maintains.
	Kind() topology.StructureType

	// PreferLIFORemoval reports whether the reconfiguration engine should
	// retire the most-recently-added mirrors first when shrinking under
	// this strategy (SPEC_FULL §4.4 step 4(a)), instead of the
	// strategy-specific order HandleRemoveMirrors otherwise applies.
	PreferLIFORemoval() bool

	// InitNetwork builds the planning graph and Links from scratch over
	// mirrors, binding each to a fresh MirrorNode.
	InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error)

	// RestartNetwork tears down any existing planning-graph presence for
	// mirrors (closing their current Links) and rebuilds from scratch.
	RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error)

	// HandleAddNewMirrors integrates added into the structure rooted at
	// head without disturbing existing links beyond what the invariant
	// forces.
	HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error)

	// HandleRemoveMirrors selects and removes mirrors from the structure
	// rooted at head until its member count reaches targetCount (or no
	// further removal is safe), returning the MirrorNodes it removed and any
	// Links the removal had to splice in to keep the remaining structure
	// connected (e.g. a ring's predecessor-to-successor splice). p supplies
	// the id source, props and RNG a splice needs to materialise that Link.
	HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link)

	// GetPredictedNumTargetLinks returns the scalar link count the
	// strategy converges to at targetMirrorCount members.
	GetPredictedNumTargetLinks(targetMirrorCount int) int

	// GetNumTargetLinksPerMirror returns the scalar degree the strategy
	// intends for mn specifically.
	GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int

	// InitNetworkSub behaves like InitNetwork but roots the structure at
	// an externally supplied anchor, so strategies compose under
	// Snowflake.
	InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error)
}

// PredictedLinks is a snapshot of a strategy's scalar link-count prediction
// at one targetMirrorCount, used by cmd/rdmsim describe and by tests that
// compare two predictions structurally (via google/go-cmp) rather than
// field by field.
type PredictedLinks struct {
	Kind              topology.StructureType
	TargetMirrorCount int
	Links             int
}

// Predict builds a PredictedLinks snapshot for s at targetMirrorCount.
func Predict(s Strategy, targetMirrorCount int) PredictedLinks {
	return PredictedLinks{
		Kind:              s.Kind(),
		TargetMirrorCount: targetMirrorCount,
		Links:             s.GetPredictedNumTargetLinks(targetMirrorCount),
	}
}

// wireEdge attaches child under parent tagged t in the planning graph and
// materialises the corresponding Link between their bound Mirrors. It is
// the single place every strategy turns a planned edge into an implemented
// one, grounded on the teacher's single-AddEdge-call-per-edge pattern in
// builder/impl_platonic.go.
func wireEdge(g *node.Graph, parent, child *node.MirrorNode, t topology.StructureType, p BuildParams) (*mirror.Link, error) {
	if err := g.Topo.AddChild(parent.Node, child.Node, topology.NewTypeSet(t), nil); err != nil {
		return nil, err
	}
	link, err := mirror.NewLink(p.IDs.Next(), parent.Mirror, child.Mirror, p.Now, p.Props, p.RNG)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// wirePeerEdge is wireEdge's symmetric-adjacency counterpart, for
// FullyConnected and NConnected.
func wirePeerEdge(g *node.Graph, a, b *node.MirrorNode, t topology.StructureType, p BuildParams) (*mirror.Link, error) {
	if err := node.ConnectPeers(g, a, b, t); err != nil {
		return nil, err
	}
	link, err := mirror.NewLink(p.IDs.Next(), a.Mirror, b.Mirror, p.Now, p.Props, p.RNG)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// bindAll allocates a fresh MirrorNode for each raw Mirror and binds it,
// tagging every node with types. The caller wires edges afterward.
func bindAll(g *node.Graph, mirrors []*mirror.Mirror, types ...topology.StructureType) ([]*node.MirrorNode, error) {
	out := make([]*node.MirrorNode, 0, len(mirrors))
	for _, m := range mirrors {
		mn := g.NewMirrorNode(types...)
		if err := mn.Bind(m); err != nil {
			return nil, err
		}
		out = append(out, mn)
	}
	return out, nil
}

// restart is the shared RestartNetwork implementation: tear down every
// mirror's existing planning-graph presence (if any), then delegate to
// init. Every concrete strategy's RestartNetwork is a one-line call to
// this helper (SPEC_FULL §4.4 step 1: "no attempt to minimise disruption
// across a strategy switch").
func restart(g *node.Graph, mirrors []*mirror.Mirror, init func([]*mirror.Mirror) (Result, error)) (Result, error) {
	for _, m := range mirrors {
		if mn, ok := g.FindByMirror(m.ID()); ok {
			for _, l := range m.GetLinks() {
				l.Close()
			}
			g.Remove(mn)
		}
	}
	return init(mirrors)
}
