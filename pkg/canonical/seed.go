package canonical

import (
	"fmt"
	"math"
	"sort"

	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// fromSeed adapts a server-precomputed canonical_layout directly, per
// §4.2's short-circuit. It returns an error (never panics) for anything the
// builder doesn't recognize or that fails basic internal consistency, so
// the caller can fall back to a recomputation from the raw graph (§7).
func fromSeed(seed semgraph.CanonicalSeed, resp semgraph.GraphResponse) (semgraph.LayoutElements, error) {
	if seed.SchemaVersion != semgraph.SupportedCanonicalSchemaVersion {
		return semgraph.LayoutElements{}, fmt.Errorf("canonical: unsupported schema version %d", seed.SchemaVersion)
	}

	ids := make(map[string]struct{}, len(seed.Nodes))
	nodes := make([]semgraph.NodePlacement, 0, len(seed.Nodes))
	for _, n := range seed.Nodes {
		if !finite(n.XRank) || !finite(n.YRank) || !finite(n.Width) || !finite(n.Height) {
			return semgraph.LayoutElements{}, fmt.Errorf("canonical: seed node %q has non-finite geometry", n.ID)
		}
		ids[n.ID] = struct{}{}
		nodes = append(nodes, semgraph.NodePlacement{
			ID:                  n.ID,
			Kind:                n.Kind,
			Label:               n.Label,
			IsCenter:            n.Center,
			NodeStyle:           n.NodeStyle,
			IsNonIndexed:        n.IsNonIndexed,
			DuplicateCount:      n.DuplicateCount,
			MergedSymbolIDs:     n.MergedSymbolIDs,
			MemberCount:         n.MemberCount,
			BadgeVisibleMembers: n.BadgeVisibleMembers,
			BadgeTotalMembers:   n.BadgeTotalMembers,
			Members:             n.Members,
			XRank:               n.XRank,
			YRank:               n.YRank,
			Width:               n.Width,
			Height:              n.Height,
			IsVirtualBundle:     n.IsVirtualBundle,
		})
	}
	if _, ok := ids[seed.CenterNodeID]; !ok {
		return semgraph.LayoutElements{}, fmt.Errorf("canonical: seed center_node_id %q not present", seed.CenterNodeID)
	}

	edges := make([]semgraph.RoutedEdge, 0, len(seed.Edges))
	for _, e := range seed.Edges {
		if _, ok := ids[e.Source]; !ok {
			return semgraph.LayoutElements{}, fmt.Errorf("canonical: seed edge %q source %q not present", e.ID, e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			return semgraph.LayoutElements{}, fmt.Errorf("canonical: seed edge %q target %q not present", e.ID, e.Target)
		}
		sourceEdgeIDs := e.SourceEdgeIDs
		if len(sourceEdgeIDs) == 0 {
			sourceEdgeIDs = []string{e.ID}
		}
		edges = append(edges, semgraph.RoutedEdge{
			ID:            e.ID,
			SourceEdgeIDs: sourceEdgeIDs,
			Source:        e.Source,
			Target:        e.Target,
			SourceHandle:  e.SourceHandle,
			TargetHandle:  e.TargetHandle,
			Kind:          e.Kind,
			Certainty:     e.Certainty,
			Multiplicity:  e.Multiplicity,
			Family:        e.Family,
			RouteKind:     e.RouteKind,
			BundleCount:   maxInt(1, e.Multiplicity),
		})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	elems := semgraph.LayoutElements{Nodes: nodes, Edges: edges, CenterNodeID: seed.CenterNodeID}
	if err := elems.Validate(); err != nil {
		return semgraph.LayoutElements{}, fmt.Errorf("canonical: seed failed validation: %w", err)
	}
	return elems, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
