package semgraph

import (
	"fmt"

	"github.com/dshills/semgraph-layout/pkg/geometry"
)

// Node is a wire-level symbol node as reported by the indexer (§6).
type Node struct {
	ID                 string            `json:"id"`
	Label              string            `json:"label"`
	Kind               NodeKind          `json:"kind"`
	Depth              int               `json:"depth"`
	MemberAccess       *MemberVisibility `json:"member_access,omitempty"`
	BadgeVisibleMembers *int             `json:"badge_visible_members,omitempty"`
	BadgeTotalMembers   *int             `json:"badge_total_members,omitempty"`
}

// Edge is a wire-level relationship edge as reported by the indexer (§6).
type Edge struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	Target    string     `json:"target"`
	Kind      EdgeKind   `json:"kind"`
	Certainty *Certainty `json:"certainty,omitempty"`
}

// CertaintyOrNone returns e.Certainty's value, defaulting to CertaintyNone
// when the field was omitted on the wire.
func (e Edge) CertaintyOrNone() Certainty {
	if e.Certainty == nil {
		return CertaintyNone
	}
	return *e.Certainty
}

// CanonicalSeedNode is one node of a server-precomputed canonical layout
// (§6 canonical_layout.nodes).
type CanonicalSeedNode struct {
	ID                  string    `json:"id"`
	Kind                NodeKind  `json:"kind"`
	Label               string    `json:"label"`
	Center              bool      `json:"center"`
	NodeStyle           NodeStyle `json:"node_style"`
	IsNonIndexed        bool      `json:"is_non_indexed"`
	DuplicateCount      int       `json:"duplicate_count"`
	MergedSymbolIDs     []string  `json:"merged_symbol_ids,omitempty"`
	MemberCount         int       `json:"member_count"`
	BadgeVisibleMembers *int      `json:"badge_visible_members,omitempty"`
	BadgeTotalMembers   *int      `json:"badge_total_members,omitempty"`
	Members             []Member  `json:"members,omitempty"`
	XRank               float64   `json:"x_rank"`
	YRank               float64   `json:"y_rank"`
	Width               float64   `json:"width"`
	Height              float64   `json:"height"`
	IsVirtualBundle     bool      `json:"is_virtual_bundle"`
}

// CanonicalSeedEdge is one edge of a server-precomputed canonical layout
// (§6 canonical_layout.edges).
type CanonicalSeedEdge struct {
	ID            string             `json:"id"`
	SourceEdgeIDs []string           `json:"source_edge_ids,omitempty"`
	Source        string             `json:"source"`
	Target        string             `json:"target"`
	SourceHandle  string             `json:"source_handle"`
	TargetHandle  string             `json:"target_handle"`
	Kind          EdgeKind           `json:"kind"`
	Certainty     Certainty          `json:"certainty"`
	Multiplicity  int                `json:"multiplicity"`
	Family        SemanticEdgeFamily `json:"family"`
	RouteKind     RouteKind          `json:"route_kind"`
}

// CanonicalSeed is a server-precomputed canonical layout that, when present
// and valid, short-circuits the canonical builder's recomputation (§4.2).
type CanonicalSeed struct {
	SchemaVersion int                 `json:"schema_version"`
	CenterNodeID  string              `json:"center_node_id"`
	Nodes         []CanonicalSeedNode `json:"nodes"`
	Edges         []CanonicalSeedEdge `json:"edges"`
}

// SupportedCanonicalSchemaVersion is the only canonical_layout schema
// version this builder recognizes (§4.2, §7).
const SupportedCanonicalSchemaVersion = 1

// GraphResponse is the complete, immutable input to the pipeline (§6).
type GraphResponse struct {
	CenterID       string         `json:"center_id"`
	Truncated      bool           `json:"truncated"`
	Nodes          []Node         `json:"nodes"`
	Edges          []Edge         `json:"edges"`
	CanonicalLayout *CanonicalSeed `json:"canonical_layout,omitempty"`
}

// Validate performs the boundary validation described in §4.8: unique,
// non-empty node/edge ids and a center_id present among the nodes. It does
// NOT validate the optional canonical_layout seed's internal consistency;
// that is the canonical builder's job (§4.2, §7), since a malformed seed is
// a recoverable condition (fall back to the raw graph), not a boundary
// rejection.
func (g GraphResponse) Validate() error {
	if g.CenterID == "" {
		return fmt.Errorf("semgraph: center_id is required")
	}
	seen := make(map[string]struct{}, len(g.Nodes))
	centerFound := false
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("semgraph: node[%d] has empty id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("semgraph: duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if n.Depth < 0 {
			return fmt.Errorf("semgraph: node %q has negative depth %d", n.ID, n.Depth)
		}
		if n.ID == g.CenterID {
			centerFound = true
		}
	}
	if !centerFound {
		return fmt.Errorf("semgraph: center_id %q not present in nodes", g.CenterID)
	}

	edgeIDs := make(map[string]struct{}, len(g.Edges))
	for i, e := range g.Edges {
		if e.ID == "" {
			return fmt.Errorf("semgraph: edge[%d] has empty id", i)
		}
		if _, dup := edgeIDs[e.ID]; dup {
			return fmt.Errorf("semgraph: duplicate edge id %q", e.ID)
		}
		edgeIDs[e.ID] = struct{}{}
	}
	return nil
}

// Member is a member row hosted by a card node, ordered by Label within a
// host (§3).
type Member struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Kind       NodeKind         `json:"kind"`
	Visibility MemberVisibility `json:"visibility"`
}

// NodePlacement is the output node shape (SemanticNodePlacement, §3):
// canonical attributes plus placement coordinates assigned by the ranked
// placer.
type NodePlacement struct {
	ID                  string    `json:"id"`
	Kind                NodeKind  `json:"kind"`
	Label               string    `json:"label"`
	IsCenter            bool      `json:"isCenter"`
	NodeStyle           NodeStyle `json:"nodeStyle"`
	IsNonIndexed        bool      `json:"isNonIndexed"`
	DuplicateCount      int       `json:"duplicateCount"`
	MergedSymbolIDs     []string  `json:"mergedSymbolIds,omitempty"`
	MemberCount         int       `json:"memberCount"`
	BadgeVisibleMembers *int      `json:"badgeVisibleMembers,omitempty"`
	BadgeTotalMembers   *int      `json:"badgeTotalMembers,omitempty"`
	Members             []Member  `json:"members,omitempty"`
	XRank               float64   `json:"xRank"`
	YRank               float64   `json:"yRank"`
	X                   float64   `json:"x"`
	Y                   float64   `json:"y"`
	Width               float64   `json:"width"`
	Height              float64   `json:"height"`
	IsVirtualBundle     bool      `json:"isVirtualBundle"`
}

// Rect returns the node's placed bounding rectangle.
func (n NodePlacement) Rect() geometry.Rect {
	return geometry.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// RoutedEdge is the output edge shape (RoutedEdgeSpec, §3).
type RoutedEdge struct {
	ID                 string             `json:"id"`
	SourceEdgeIDs      []string           `json:"sourceEdgeIds"`
	Source             string             `json:"source"`
	Target             string             `json:"target"`
	SourceHandle       string             `json:"sourceHandle"`
	TargetHandle       string             `json:"targetHandle"`
	Kind               EdgeKind           `json:"kind"`
	Certainty          Certainty          `json:"certainty"`
	Multiplicity       int                `json:"multiplicity"`
	Family             SemanticEdgeFamily `json:"family"`
	RouteKind          RouteKind          `json:"routeKind"`
	BundleCount        int                `json:"bundleCount"`
	RoutePoints        []geometry.Point   `json:"routePoints"`
	TrunkCoord         *float64           `json:"trunkCoord,omitempty"`
	ChannelID          *string            `json:"channelId,omitempty"`
	ChannelPairID      *string            `json:"channelPairId,omitempty"`
	ChannelWeight      *int               `json:"channelWeight,omitempty"`
	SharedTrunkPoints  []geometry.Point   `json:"sharedTrunkPoints,omitempty"`
	SourceMemberOrder  *int               `json:"sourceMemberOrder,omitempty"`
	TargetMemberOrder  *int               `json:"targetMemberOrder,omitempty"`
}

// LayoutElements is the pipeline's complete, immutable output (§3).
type LayoutElements struct {
	Nodes        []NodePlacement `json:"nodes"`
	Edges        []RoutedEdge    `json:"edges"`
	CenterNodeID string          `json:"centerNodeId"`
}

// Validate checks the output invariants from §3: centerNodeId names a
// present node, and every edge's source/target reference present nodes.
func (l LayoutElements) Validate() error {
	ids := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		ids[n.ID] = struct{}{}
	}
	if _, ok := ids[l.CenterNodeID]; !ok {
		return fmt.Errorf("semgraph: centerNodeId %q not present in nodes", l.CenterNodeID)
	}
	for _, e := range l.Edges {
		if _, ok := ids[e.Source]; !ok {
			return fmt.Errorf("semgraph: edge %q source %q not present in nodes", e.ID, e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			return fmt.Errorf("semgraph: edge %q target %q not present in nodes", e.ID, e.Target)
		}
	}
	return nil
}
