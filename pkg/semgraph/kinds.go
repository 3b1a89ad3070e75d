// Package semgraph defines the data model shared by every stage of the
// layout pipeline: the wire-level GraphResponse accepted from the indexer,
// the canonical/placed/routed node and edge shapes produced along the way,
// and the closed-but-extensible kind vocabularies the pipeline reasons
// about.
package semgraph

import "fmt"

// NodeKind identifies the symbol kind of a node as reported by the indexer.
// The set of values is open (the indexer may report kinds this package does
// not enumerate); the pipeline only special-cases the kinds named below and
// treats everything else as an ordinary pill node.
type NodeKind string

const (
	KindClass         NodeKind = "CLASS"
	KindStruct        NodeKind = "STRUCT"
	KindInterface     NodeKind = "INTERFACE"
	KindUnion         NodeKind = "UNION"
	KindEnum          NodeKind = "ENUM"
	KindNamespace     NodeKind = "NAMESPACE"
	KindModule        NodeKind = "MODULE"
	KindPackage       NodeKind = "PACKAGE"
	KindFile          NodeKind = "FILE"
	KindField         NodeKind = "FIELD"
	KindVariable      NodeKind = "VARIABLE"
	KindGlobalVar     NodeKind = "GLOBAL_VARIABLE"
	KindConstant      NodeKind = "CONSTANT"
	KindEnumConstant  NodeKind = "ENUM_CONSTANT"
	KindFunction      NodeKind = "FUNCTION"
	KindMethod        NodeKind = "METHOD"
	KindMacro         NodeKind = "MACRO"
)

// String satisfies fmt.Stringer so diagnostics and log lines can print a
// NodeKind directly.
func (k NodeKind) String() string {
	if k == "" {
		return "Unknown"
	}
	return string(k)
}

// structuralKinds backs IsStructural. Card nodes (structural kinds plus
// FILE) host member rows; everything else renders as a pill.
var structuralKinds = map[NodeKind]struct{}{
	KindClass:     {},
	KindStruct:    {},
	KindInterface: {},
	KindUnion:     {},
	KindEnum:      {},
	KindNamespace: {},
	KindModule:    {},
	KindPackage:   {},
}

// IsStructural reports whether k is one of STRUCTURAL_KINDS (§3).
func (k NodeKind) IsStructural() bool {
	_, ok := structuralKinds[k]
	return ok
}

// IsCardKind reports whether k belongs to CARD_NODE_KINDS (structural kinds
// plus FILE): nodes of this kind render as member-hosting cards.
func (k NodeKind) IsCardKind() bool {
	return k.IsStructural() || k == KindFile
}

var privateMemberKinds = map[NodeKind]struct{}{
	KindField:        {},
	KindVariable:     {},
	KindGlobalVar:    {},
	KindConstant:     {},
	KindEnumConstant: {},
}

var publicMemberKinds = map[NodeKind]struct{}{
	KindFunction: {},
	KindMethod:   {},
	KindMacro:    {},
}

// IsPrivateMemberKind reports whether k belongs to PRIVATE_MEMBER_KINDS.
func (k NodeKind) IsPrivateMemberKind() bool {
	_, ok := privateMemberKinds[k]
	return ok
}

// IsPublicMemberKind reports whether k belongs to PUBLIC_MEMBER_KINDS.
func (k NodeKind) IsPublicMemberKind() bool {
	_, ok := publicMemberKinds[k]
	return ok
}

// EdgeKind identifies the relationship kind of an edge as reported by the
// indexer. Like NodeKind, the set is open; only MEMBER and the hierarchy
// kinds are special-cased by the pipeline.
type EdgeKind string

const (
	KindMember                 EdgeKind = "MEMBER"
	KindInheritance            EdgeKind = "INHERITANCE"
	KindOverride               EdgeKind = "OVERRIDE"
	KindTypeArgument           EdgeKind = "TYPE_ARGUMENT"
	KindTemplateSpecialization EdgeKind = "TEMPLATE_SPECIALIZATION"
	KindCall                   EdgeKind = "CALL"
	KindUsage                  EdgeKind = "USAGE"
)

func (k EdgeKind) String() string {
	if k == "" {
		return "Unknown"
	}
	return string(k)
}

var hierarchyEdgeKinds = map[EdgeKind]struct{}{
	KindInheritance:            {},
	KindOverride:               {},
	KindTypeArgument:           {},
	KindTemplateSpecialization: {},
}

// IsHierarchy reports whether k belongs to HIERARCHY_EDGE_KINDS. Every other
// non-MEMBER edge kind is family "flow".
func (k EdgeKind) IsHierarchy() bool {
	_, ok := hierarchyEdgeKinds[k]
	return ok
}

// MemberVisibility is the access modifier inferred or reported for a member.
type MemberVisibility string

const (
	VisibilityPublic    MemberVisibility = "public"
	VisibilityProtected MemberVisibility = "protected"
	VisibilityPrivate   MemberVisibility = "private"
	VisibilityDefault   MemberVisibility = "default"
)

// Certainty reflects how confident the indexer is in an edge's resolution.
type Certainty string

const (
	CertaintyNone     Certainty = "none"
	CertaintyProbable Certainty = "probable"
	CertaintyUncertain Certainty = "uncertain"
)

// certaintyRank orders certainty values so folding can keep the strongest
// one seen across a folded group: uncertain > probable > none.
var certaintyRank = map[Certainty]int{
	CertaintyUncertain: 2,
	CertaintyProbable:  1,
	CertaintyNone:      0,
	"":                 0,
}

// StrongerCertainty returns whichever of a, b ranks higher.
func StrongerCertainty(a, b Certainty) Certainty {
	if certaintyRank[a] >= certaintyRank[b] {
		if a == "" {
			return CertaintyNone
		}
		return a
	}
	return b
}

// NodeStyle is the rendering shape of a placed node.
type NodeStyle string

const (
	StyleCard   NodeStyle = "card"
	StylePill   NodeStyle = "pill"
	StyleBundle NodeStyle = "bundle"
)

// SemanticEdgeFamily classifies a folded edge for bundling/routing purposes.
type SemanticEdgeFamily string

const (
	FamilyFlow      SemanticEdgeFamily = "flow"
	FamilyHierarchy SemanticEdgeFamily = "hierarchy"
)

// FamilyOf returns the family an edge kind belongs to.
func FamilyOf(kind EdgeKind) SemanticEdgeFamily {
	if kind.IsHierarchy() {
		return FamilyHierarchy
	}
	return FamilyFlow
}

// RouteKind identifies how an edge's polyline was derived.
type RouteKind string

const (
	RouteDirect     RouteKind = "direct"
	RouteFlowTrunk  RouteKind = "flow-trunk"
	RouteFlowBranch RouteKind = "flow-branch"
	RouteHierarchy  RouteKind = "hierarchy"
)

// LayoutDirection selects the dominant axis of the ranked placement.
type LayoutDirection string

const (
	DirectionHorizontal LayoutDirection = "horizontal"
	DirectionVertical   LayoutDirection = "vertical"
)

// Validate reports an error for any LayoutDirection other than the two
// closed values.
func (d LayoutDirection) Validate() error {
	switch d {
	case DirectionHorizontal, DirectionVertical, "":
		return nil
	default:
		return fmt.Errorf("semgraph: invalid layout direction %q", string(d))
	}
}
