// Package routing implements the layout pipeline's fourth stage (§4.5): an
// obstacle-aware orthogonal router that turns each bundled edge's endpoints
// into a Manhattan polyline which avoids node interiors, honors assigned
// trunk coordinates, and anchors exactly at the resolved handle position.
//
// Grounded on the teacher's OrthogonalEmbedder.routeCorridors/
// createManhattanPath/createAlternateManhattanPath (pkg/embedding/
// orthogonal.go), a fixed choice between a horizontal-first and a
// vertical-first L-route, generalized here to a scored pool of several
// candidate families, and on the reference d2wueortho L/Z-router (studied
// in _examples/other_examples/) for the idea of biasing candidates toward a
// shared corridor before falling back to a direct L-route.
package routing

import (
	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// Route assigns a final, obstacle-aware RoutePoints polyline to every edge.
// Nodes must already carry placed x/y coordinates and edges their trunk
// metadata (i.e. elems has been through pkg/placement and pkg/bundling).
func Route(elems semgraph.LayoutElements, direction semgraph.LayoutDirection, profile parity.Profile) semgraph.LayoutElements {
	byID := make(map[string]semgraph.NodePlacement, len(elems.Nodes))
	for _, n := range elems.Nodes {
		byID[n.ID] = n
	}

	vObstacles := make(map[string]geometry.Rect, len(elems.Nodes))
	for _, n := range elems.Nodes {
		vObstacles[n.ID] = virtualRect(n.Rect(), direction).Pad(profile.Routing.ObstaclePadding)
	}

	edges := append([]semgraph.RoutedEdge(nil), elems.Edges...)
	for i, e := range edges {
		src, srcOK := byID[e.Source]
		dst, dstOK := byID[e.Target]
		if !srcOK || !dstOK {
			edges[i].RoutePoints = nil
			continue
		}
		edges[i].RoutePoints = routeOne(e, src, dst, direction, profile, vObstacles)
	}

	return semgraph.LayoutElements{Nodes: elems.Nodes, Edges: edges, CenterNodeID: elems.CenterNodeID}
}

func routeOne(e semgraph.RoutedEdge, src, dst semgraph.NodePlacement, direction semgraph.LayoutDirection, profile parity.Profile, vObstacles map[string]geometry.Rect) []geometry.Point {
	vSrcRect := virtualRect(src.Rect(), direction)
	vDstRect := virtualRect(dst.Rect(), direction)

	srcAnchor := anchorInVirtual(src, vSrcRect, e.SourceHandle, direction, profile)
	dstAnchor := anchorInVirtual(dst, vDstRect, e.TargetHandle, direction, profile)

	var vTrunk *float64
	if e.TrunkCoord != nil {
		t := virtualRankCoord(*e.TrunkCoord, direction)
		vTrunk = &t
	}

	candidates := buildCandidates(e, srcAnchor, dstAnchor, vSrcRect, vDstRect, vTrunk, profile)

	obstacles := make([]geometry.Rect, 0, len(vObstacles))
	for id, rect := range vObstacles {
		if id == src.ID || id == dst.ID {
			continue
		}
		obstacles = append(obstacles, rect)
	}

	best := selectBest(candidates, obstacles, e, vTrunk, profile)

	simplified := geometry.Simplify(best, profile.RasterStep)
	if len(simplified) == 0 {
		simplified = []geometry.Point{srcAnchor, dstAnchor}
	}
	simplified[0] = srcAnchor
	simplified[len(simplified)-1] = dstAnchor
	// An anchor off the raster can fall out of line with its snapped
	// neighbor once re-pinned; re-insert corners so every segment stays
	// axis-aligned.
	simplified = withOrthogonalBends(simplified, true)

	out := make([]geometry.Point, len(simplified))
	for i, p := range simplified {
		out[i] = unvirtualPoint(p, direction)
	}
	return out
}
