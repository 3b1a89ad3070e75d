package canonical

import (
	"fmt"
	"sort"

	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// applyFanOutBundling implements §4.2 step 8: any node whose outgoing flow
// fan reaches FanOutMinBranches is split into a binary tree of synthetic
// isVirtualBundle nodes at fractional ranks, resolving Open Question (b) in
// favor of fractional ranks consumed directly by the placer (see DESIGN.md).
func applyFanOutBundling(nodes []*canonNode, edges []semgraph.RoutedEdge, profile parity.Profile) ([]*canonNode, []semgraph.RoutedEdge) {
	threshold := profile.Bundling.FanOutMinBranches
	nodeByID := make(map[string]*canonNode, len(nodes))
	for _, n := range nodes {
		nodeByID[n.canonicalID] = n
	}

	bySource := make(map[string][]int)
	for i, e := range edges {
		if e.Family == semgraph.FamilyFlow {
			bySource[e.Source] = append(bySource[e.Source], i)
		}
	}

	var fanOutSources []string
	for s, idxs := range bySource {
		if len(idxs) >= threshold {
			fanOutSources = append(fanOutSources, s)
		}
	}
	sort.Strings(fanOutSources)

	consumed := make(map[int]bool)
	var synthesizedEdges []semgraph.RoutedEdge
	seq := 0

	for _, source := range fanOutSources {
		idxs := append([]int(nil), bySource[source]...)
		sort.Slice(idxs, func(i, j int) bool { return edges[idxs[i]].ID < edges[idxs[j]].ID })
		leaves := make([]semgraph.RoutedEdge, len(idxs))
		for i, idx := range idxs {
			leaves[i] = edges[idx]
			consumed[idx] = true
		}
		srcNode := nodeByID[source]
		built, bundleNodes := splitFanOut(srcNode, leaves, nodeByID, &seq)
		synthesizedEdges = append(synthesizedEdges, built...)
		nodes = append(nodes, bundleNodes...)
	}

	kept := make([]semgraph.RoutedEdge, 0, len(edges))
	for i, e := range edges {
		if !consumed[i] {
			kept = append(kept, e)
		}
	}
	kept = append(kept, synthesizedEdges...)
	sort.Slice(kept, func(i, j int) bool { return kept[i].ID < kept[j].ID })
	return nodes, kept
}

// splitFanOut recursively halves a fan-out group, inserting a virtual bundle
// node for each split and reparenting each half onto it, until every leaf
// edge's source is either the original node or a bundle node with ≤ 1 child
// on that branch.
func splitFanOut(source *canonNode, leaves []semgraph.RoutedEdge, nodeByID map[string]*canonNode, seq *int) ([]semgraph.RoutedEdge, []*canonNode) {
	var out []semgraph.RoutedEdge
	var bundleNodes []*canonNode

	var recurse func(from *canonNode, group []semgraph.RoutedEdge)
	recurse = func(from *canonNode, group []semgraph.RoutedEdge) {
		if len(group) <= 1 {
			for _, e := range group {
				e.Source = from.canonicalID
				e.SourceHandle = semgraph.NodeHandle(semgraph.RoleSource, "")
				out = append(out, e)
			}
			return
		}

		mid := len(group) / 2
		left, right := group[:mid], group[mid:]

		*seq++
		bundleID := fmt.Sprintf("virtual-bundle:%s:%d", source.canonicalID, *seq)
		xs, ys := make([]float64, 0, len(group)), make([]float64, 0, len(group))
		for _, e := range group {
			if t, ok := nodeByID[e.Target]; ok {
				xs = append(xs, t.xRank)
				ys = append(ys, t.yRank)
			}
		}
		bundleNode := &canonNode{
			canonicalID:     bundleID,
			nodeStyle:       semgraph.StyleBundle,
			isVirtualBundle: true,
			xRank:           (from.xRank + mean(xs)) / 2,
			yRank:           mean(ys),
		}
		nodeByID[bundleID] = bundleNode
		bundleNodes = append(bundleNodes, bundleNode)

		trunkID := "virtual-trunk:" + bundleID
		out = append(out, semgraph.RoutedEdge{
			ID:            trunkID,
			SourceEdgeIDs: []string{trunkID},
			Source:        from.canonicalID,
			Target:        bundleID,
			SourceHandle:  semgraph.NodeHandle(semgraph.RoleSource, ""),
			TargetHandle:  semgraph.NodeHandle(semgraph.RoleTarget, ""),
			Kind:          group[0].Kind,
			Certainty:     semgraph.CertaintyNone,
			Multiplicity:  1,
			Family:        semgraph.FamilyFlow,
			RouteKind:     semgraph.RouteDirect,
			BundleCount:   len(group),
		})

		recurse(bundleNode, left)
		recurse(bundleNode, right)
	}

	recurse(source, leaves)
	return out, bundleNodes
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range vs {
		total += v
	}
	return total / float64(len(vs))
}
