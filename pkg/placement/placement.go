// Package placement implements the layout pipeline's second stage (§4.3): a
// layered DAG placement that turns the canonical builder's xRank/yRank
// columns into raster-snapped x/y coordinates.
//
// Grounded on the teacher's OrthogonalEmbedder (pkg/embedding/orthogonal.go):
// assignLayers' BFS-layer-then-grid-position shape is kept, but layers come
// from the canonical builder's signed depth rather than BFS distance from a
// Start room, in-layer ordering is the canonical builder's label-sorted
// yRank rather than map iteration order, and spacing is driven by
// parity.Placement rather than a fixed MinRoomSpacing.
package placement

import (
	"sort"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// Place assigns x/y coordinates to every node in elems, given the already
// (canonically) assigned xRank/yRank columns, and writes a seed polyline
// (source center -> target center) onto every edge for the router to trust
// or override (§4.5).
func Place(elems semgraph.LayoutElements, direction semgraph.LayoutDirection, profile parity.Profile) semgraph.LayoutElements {
	nodes := append([]semgraph.NodePlacement(nil), elems.Nodes...)

	columns := groupByColumn(nodes)
	columnKeys := make([]float64, 0, len(columns))
	for k := range columns {
		columnKeys = append(columnKeys, k)
	}
	sort.Float64s(columnKeys)

	rankOffset := 0.0
	rankCoord := make(map[float64]float64, len(columnKeys))
	for _, key := range columnKeys {
		rankCoord[key] = rankOffset
		rankOffset += columnMaxExtent(columns[key], direction) + profile.Placement.RankSeparation
	}

	byID := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = i
	}

	for _, key := range columnKeys {
		col := columns[key]
		sort.Slice(col, func(i, j int) bool {
			if col[i].YRank != col[j].YRank {
				return col[i].YRank < col[j].YRank
			}
			return col[i].ID < col[j].ID
		})

		crossOffset := 0.0
		for _, n := range col {
			idx := byID[n.ID]
			placeNode(&nodes[idx], rankCoord[key], crossOffset, direction, profile.RasterStep)
			crossOffset += crossExtent(n, direction) + profile.Placement.NodeSeparation
		}
	}

	positioned := make(map[string]semgraph.NodePlacement, len(nodes))
	for _, n := range nodes {
		positioned[n.ID] = n
	}

	edges := append([]semgraph.RoutedEdge(nil), elems.Edges...)
	for i, e := range edges {
		src, srcOK := positioned[e.Source]
		dst, dstOK := positioned[e.Target]
		if !srcOK || !dstOK {
			continue
		}
		edges[i].RoutePoints = []geometry.Point{src.Rect().Center(), dst.Rect().Center()}
	}

	return semgraph.LayoutElements{
		Nodes:        nodes,
		Edges:        edges,
		CenterNodeID: elems.CenterNodeID,
	}
}

func groupByColumn(nodes []semgraph.NodePlacement) map[float64][]semgraph.NodePlacement {
	columns := make(map[float64][]semgraph.NodePlacement)
	for _, n := range nodes {
		columns[n.XRank] = append(columns[n.XRank], n)
	}
	return columns
}

// columnMaxExtent returns the widest rank-axis footprint among a column's
// nodes: width for Horizontal layouts (rank axis is X), height for Vertical
// (rank axis is Y, since the planar roles swap).
func columnMaxExtent(col []semgraph.NodePlacement, direction semgraph.LayoutDirection) float64 {
	max := 0.0
	for _, n := range col {
		extent := n.Width
		if direction == semgraph.DirectionVertical {
			extent = n.Height
		}
		if extent > max {
			max = extent
		}
	}
	return max
}

// crossExtent returns a single node's footprint along the cross axis
// (perpendicular to rank): height for Horizontal, width for Vertical.
func crossExtent(n semgraph.NodePlacement, direction semgraph.LayoutDirection) float64 {
	if direction == semgraph.DirectionVertical {
		return n.Width
	}
	return n.Height
}

func placeNode(n *semgraph.NodePlacement, rankCoord, crossCoord float64, direction semgraph.LayoutDirection, rasterStep float64) {
	if direction == semgraph.DirectionVertical {
		n.X = geometry.Snap(crossCoord, rasterStep)
		n.Y = geometry.Snap(rankCoord, rasterStep)
		return
	}
	n.X = geometry.Snap(rankCoord, rasterStep)
	n.Y = geometry.Snap(crossCoord, rasterStep)
}
