package canonical

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// canonNode is the builder's working representation of one output node,
// before the ranked placer assigns real x/y coordinates.
type canonNode struct {
	canonicalID         string
	kind                semgraph.NodeKind
	label               string
	isCenter            bool
	isNonIndexed        bool
	duplicateCount      int
	mergedSymbolIDs     []string
	signedDepth         int
	xRank               float64
	yRank               float64
	width               float64
	height              float64
	nodeStyle           semgraph.NodeStyle
	isVirtualBundle     bool
	badgeVisibleMembers *int
	badgeTotalMembers   *int
}

func (c *canonNode) toPlacement(members []semgraph.Member) semgraph.NodePlacement {
	return semgraph.NodePlacement{
		ID:                  c.canonicalID,
		Kind:                c.kind,
		Label:               c.label,
		IsCenter:            c.isCenter,
		NodeStyle:           c.nodeStyle,
		IsNonIndexed:        c.isNonIndexed,
		DuplicateCount:      c.duplicateCount,
		MergedSymbolIDs:     c.mergedSymbolIDs,
		MemberCount:         len(members),
		BadgeVisibleMembers: c.badgeVisibleMembers,
		BadgeTotalMembers:   c.badgeTotalMembers,
		Members:             members,
		XRank:               c.xRank,
		YRank:               c.yRank,
		Width:               c.width,
		Height:              c.height,
		IsVirtualBundle:     c.isVirtualBundle,
	}
}

func isSynthesizedID(id string) bool {
	return strings.HasPrefix(id, "synthetic-host:")
}

func nodeStyleFor(kind semgraph.NodeKind) semgraph.NodeStyle {
	if kind.IsCardKind() {
		return semgraph.StyleCard
	}
	return semgraph.StylePill
}

// foldNodes implements §4.2 steps 4 and 6's node half: dedupe by fold key,
// keep the lexicographically smallest raw id per group as the canonical id
// (a determinism-preserving reading of "first occurrence wins", see
// DESIGN.md), and fold each group's members together.
func (b *builder) foldNodes(signedDepth map[string]int) ([]*canonNode, map[string]string, map[string][]semgraph.Member) {
	groups := make(map[string][]string) // fold key -> raw ids
	var groupOrder []string

	centerHostID := b.resolveHost(b.resp.CenterID)

	activeIDs := make([]string, 0, len(b.order))
	for _, id := range b.order {
		if b.isMember[id] || id == centerHostID {
			continue
		}
		activeIDs = append(activeIDs, id)
	}
	sort.Strings(activeIDs)

	for _, id := range activeIDs {
		n := b.nodeByID[id]
		var key string
		if n.Kind.IsCardKind() {
			key = "card:" + string(n.Kind) + ":" + strings.ToLower(n.Label)
		} else {
			key = "other:" + string(n.Kind) + ":" + strings.ToLower(n.Label) + ":" + strconv.Itoa(signedDepth[id])
		}
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], id)
	}

	rawToCanonical := map[string]string{b.resp.CenterID: centerHostID}
	memberRows := make(map[string][]semgraph.Member)

	var nodes []*canonNode

	if centerNode, ok := b.nodeByID[centerHostID]; ok {
		nodes = append(nodes, &canonNode{
			canonicalID:         centerNode.ID,
			kind:                centerNode.Kind,
			label:               centerNode.Label,
			isCenter:            true,
			isNonIndexed:        isSynthesizedID(centerHostID),
			duplicateCount:      1,
			signedDepth:         signedDepth[centerHostID],
			nodeStyle:           nodeStyleFor(centerNode.Kind),
			isVirtualBundle:     false,
			badgeVisibleMembers: centerNode.BadgeVisibleMembers,
			badgeTotalMembers:   centerNode.BadgeTotalMembers,
		})
		rawToCanonical[centerHostID] = centerHostID
		memberRows[centerNode.ID] = b.buildMembers([]string{centerHostID})
	}

	for _, key := range groupOrder {
		group := append([]string(nil), groups[key]...)
		sort.Strings(group)
		canonicalID := group[0]
		rep := b.nodeByID[canonicalID]

		merged := group
		if len(merged) > 6 {
			merged = merged[:6]
		}
		for _, raw := range group {
			rawToCanonical[raw] = canonicalID
		}

		nodes = append(nodes, &canonNode{
			canonicalID:         canonicalID,
			kind:                rep.Kind,
			label:               rep.Label,
			isNonIndexed:        isSynthesizedID(canonicalID),
			duplicateCount:      len(group),
			mergedSymbolIDs:     merged,
			signedDepth:         signedDepth[canonicalID],
			nodeStyle:           nodeStyleFor(rep.Kind),
			badgeVisibleMembers: rep.BadgeVisibleMembers,
			badgeTotalMembers:   rep.BadgeTotalMembers,
		})
		memberRows[canonicalID] = b.buildMembers(group)
	}

	return nodes, rawToCanonical, memberRows
}

// foldEdges implements §4.2 step 5: discard MEMBER edges, rewrite endpoints
// through the member->host and node->canonical mappings, drop self-loops and
// dangling references, then fold by (kind, source, sourceHandle, target,
// targetHandle).
func (b *builder) foldEdges(rawToCanonical map[string]string) []semgraph.RoutedEdge {
	type foldedGroup struct {
		kind         semgraph.EdgeKind
		source       string
		target       string
		sourceHandle string
		targetHandle string
		edgeIDs      []string
		certainty    semgraph.Certainty
	}

	groups := make(map[string]*foldedGroup)
	var keyOrder []string

	edges := append([]semgraph.Edge(nil), b.resp.Edges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for _, e := range edges {
		if e.Kind == semgraph.KindMember {
			continue
		}
		if _, ok := b.nodeByID[e.Source]; !ok {
			b.droppedEdges = append(b.droppedEdges, e.ID)
			continue
		}
		if _, ok := b.nodeByID[e.Target]; !ok {
			b.droppedEdges = append(b.droppedEdges, e.ID)
			continue
		}

		canonSource := rawToCanonical[b.resolveHost(e.Source)]
		canonTarget := rawToCanonical[b.resolveHost(e.Target)]
		if canonSource == "" || canonTarget == "" || canonSource == canonTarget {
			continue // dangling-after-fold or self-loop: silently dropped per §4.2 step 5
		}

		sourceHandle := resolveSourceHandle(b.isMember[e.Source], e.Source, e.Kind)
		targetHandle := resolveTargetHandle(b.isMember[e.Target], e.Target, e.Kind)

		key := string(e.Kind) + "|" + canonSource + "|" + sourceHandle + "|" + canonTarget + "|" + targetHandle
		g, ok := groups[key]
		if !ok {
			g = &foldedGroup{
				kind:         e.Kind,
				source:       canonSource,
				target:       canonTarget,
				sourceHandle: sourceHandle,
				targetHandle: targetHandle,
			}
			groups[key] = g
			keyOrder = append(keyOrder, key)
		}
		g.edgeIDs = append(g.edgeIDs, e.ID)
		g.certainty = semgraph.StrongerCertainty(g.certainty, e.CertaintyOrNone())
	}

	sort.Strings(keyOrder)

	out := make([]semgraph.RoutedEdge, 0, len(keyOrder))
	for _, key := range keyOrder {
		g := groups[key]
		ids := append([]string(nil), g.edgeIDs...)
		sort.Strings(ids)
		family := semgraph.FamilyOf(g.kind)
		routeKind := semgraph.RouteDirect
		if family == semgraph.FamilyHierarchy {
			routeKind = semgraph.RouteHierarchy
		}
		out = append(out, semgraph.RoutedEdge{
			ID:            ids[0],
			SourceEdgeIDs: ids,
			Source:        g.source,
			Target:        g.target,
			SourceHandle:  g.sourceHandle,
			TargetHandle:  g.targetHandle,
			Kind:          g.kind,
			Certainty:     g.certainty,
			Multiplicity:  len(ids),
			Family:        family,
			RouteKind:     routeKind,
			BundleCount:   len(ids),
			RoutePoints:   nil,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func resolveSourceHandle(isMember bool, rawID string, kind semgraph.EdgeKind) string {
	switch {
	case isMember:
		return semgraph.MemberHandle(semgraph.RoleSource, rawID)
	case kind.IsHierarchy():
		return semgraph.NodeHandle(semgraph.RoleSource, semgraph.SideTop)
	default:
		return semgraph.NodeHandle(semgraph.RoleSource, "")
	}
}

func resolveTargetHandle(isMember bool, rawID string, kind semgraph.EdgeKind) string {
	switch {
	case isMember:
		return semgraph.MemberHandle(semgraph.RoleTarget, rawID)
	case kind.IsHierarchy():
		return semgraph.NodeHandle(semgraph.RoleTarget, semgraph.SideBottom)
	default:
		return semgraph.NodeHandle(semgraph.RoleTarget, "")
	}
}

// assignColumnOrder implements §4.2 step 6: within each signed-depth column,
// nodes sort by label; xRank is the column, yRank the ordinal within it.
func assignColumnOrder(nodes []*canonNode) {
	byColumn := make(map[int][]*canonNode)
	for _, n := range nodes {
		byColumn[n.signedDepth] = append(byColumn[n.signedDepth], n)
	}
	for _, col := range byColumn {
		sort.Slice(col, func(i, j int) bool { return col[i].label < col[j].label })
		for i, n := range col {
			n.xRank = float64(n.signedDepth)
			n.yRank = float64(i)
		}
	}
}
