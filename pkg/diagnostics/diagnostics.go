// Package diagnostics implements the layout pipeline's final inspection
// stage (§4.7): a read-only pass over a routed, bundled LayoutElements that
// reports how well each edge's polyline behaved, plus a channel-level
// summary of the bundler's trunk assignments.
//
// Grounded on the teacher's validation package (NewValidationReport,
// Summary, HasErrors/HasWarnings, sorted hard/soft constraint results):
// this package follows the same report-object-plus-formatter shape,
// substituting per-edge and per-channel reports for hard/soft constraint
// results and HasCollisions/HasIntersections for HasErrors/HasWarnings;
// there is no Passed field.
package diagnostics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// EdgeDiagnostic reports how one routed edge's polyline behaved against its
// neighbors (§4.7).
type EdgeDiagnostic struct {
	EdgeID         string  `json:"edgeId"`
	Turns          int     `json:"turns"`
	Collisions     int     `json:"collisions"`
	TrunkDeviation float64 `json:"trunkDeviation"`
	Intersections  int     `json:"intersections"`
}

// ChannelDiagnostic summarizes one bundler-assigned trunk.
type ChannelDiagnostic struct {
	ChannelID string `json:"channelId"`
	EdgeCount int    `json:"edgeCount"`
	Weight    int    `json:"weight"`
}

// Report is the complete diagnostics output for one layout.
type Report struct {
	Edges    []EdgeDiagnostic    `json:"edges"`
	Channels []ChannelDiagnostic `json:"channels"`
}

// HasCollisions reports whether any edge crossed a non-endpoint node's
// interior.
func (r Report) HasCollisions() bool {
	for _, e := range r.Edges {
		if e.Collisions > 0 {
			return true
		}
	}
	return false
}

// HasIntersections reports whether any two edges' polylines crossed.
func (r Report) HasIntersections() bool {
	for _, e := range r.Edges {
		if e.Intersections > 0 {
			return true
		}
	}
	return false
}

// Diagnose implements §4.7 for a complete routed, bundled layout. direction
// is the layout direction the pipeline ran with, needed to resolve which
// axis a trunk coordinate was assigned on (§4.4). Edge reports are sorted
// by edge id for stable formatting; channel reports are sorted by channel
// id.
func Diagnose(elems semgraph.LayoutElements, direction semgraph.LayoutDirection) Report {
	nodesByID := make(map[string]semgraph.NodePlacement, len(elems.Nodes))
	for _, n := range elems.Nodes {
		nodesByID[n.ID] = n
	}

	edges := make([]EdgeDiagnostic, 0, len(elems.Edges))
	for i, e := range elems.Edges {
		obstacles := nonEndpointRects(nodesByID, e.Source, e.Target)
		edges = append(edges, EdgeDiagnostic{
			EdgeID:         e.ID,
			Turns:          geometry.TurnCount(e.RoutePoints),
			Collisions:     countRectCrossings(e.RoutePoints, obstacles),
			TrunkDeviation: trunkDeviation(e, direction),
			Intersections:  countEdgeCrossings(i, e.RoutePoints, elems.Edges),
		})
	}
	sort.Slice(edges, func(a, b int) bool { return edges[a].EdgeID < edges[b].EdgeID })

	channels := channelDiagnostics(elems.Edges)

	return Report{Edges: edges, Channels: channels}
}

// nonEndpointRects returns every node rectangle except the edge's own
// source and target, with zero padding (§4.7's strict interior test).
func nonEndpointRects(nodesByID map[string]semgraph.NodePlacement, source, target string) []geometry.Rect {
	rects := make([]geometry.Rect, 0, len(nodesByID))
	for id, n := range nodesByID {
		if id == source || id == target {
			continue
		}
		rects = append(rects, n.Rect())
	}
	return rects
}

func countRectCrossings(points []geometry.Point, obstacles []geometry.Rect) int {
	count := 0
	for i := 0; i < len(points)-1; i++ {
		for _, rect := range obstacles {
			if geometry.SegmentIntersectsRect(points[i], points[i+1], rect) {
				count++
			}
		}
	}
	return count
}

// countEdgeCrossings counts segments of edges[self] that cross a segment of
// any other edge's polyline.
func countEdgeCrossings(self int, points []geometry.Point, edges []semgraph.RoutedEdge) int {
	count := 0
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		for j, other := range edges {
			if j == self {
				continue
			}
			for k := 0; k < len(other.RoutePoints)-1; k++ {
				if segmentsCross(a, b, other.RoutePoints[k], other.RoutePoints[k+1]) {
					count++
				}
			}
		}
	}
	return count
}

// segmentsCross reports whether two axis-aligned segments cross at a point
// that is interior to both (touching at a shared endpoint is not a
// crossing).
func segmentsCross(a1, a2, b1, b2 geometry.Point) bool {
	aHoriz := a1.Y == a2.Y
	bHoriz := b1.Y == b2.Y
	if aHoriz == bHoriz {
		return false
	}
	var h1, h2, v1, v2 geometry.Point
	if aHoriz {
		h1, h2, v1, v2 = a1, a2, b1, b2
	} else {
		h1, h2, v1, v2 = b1, b2, a1, a2
	}
	y := h1.Y
	xlo, xhi := math.Min(h1.X, h2.X), math.Max(h1.X, h2.X)
	ylo, yhi := math.Min(v1.Y, v2.Y), math.Max(v1.Y, v2.Y)
	x := v1.X
	const eps = 1e-9
	return x > xlo+eps && x < xhi-eps && y > ylo+eps && y < yhi-eps
}

// trunkDeviation is the maximum distance of any interior route point from
// the edge's assigned trunk coordinate. Non-trunk edges report zero. The
// bundler assigns TrunkCoord on the rank axis (§4.4): the X axis for a
// horizontal layout, the Y axis for a vertical one, so the axis checked
// here must follow direction rather than always reading X.
func trunkDeviation(e semgraph.RoutedEdge, direction semgraph.LayoutDirection) float64 {
	if e.TrunkCoord == nil || len(e.RoutePoints) < 3 {
		return 0
	}
	maxDev := 0.0
	for _, p := range e.RoutePoints[1 : len(e.RoutePoints)-1] {
		coord := p.X
		if direction == semgraph.DirectionVertical {
			coord = p.Y
		}
		d := math.Abs(coord - *e.TrunkCoord)
		if d > maxDev {
			maxDev = d
		}
	}
	return maxDev
}

func channelDiagnostics(edges []semgraph.RoutedEdge) []ChannelDiagnostic {
	type accum struct {
		count  int
		weight int
	}
	byChannel := make(map[string]*accum)
	for _, e := range edges {
		if e.ChannelID == nil {
			continue
		}
		a, ok := byChannel[*e.ChannelID]
		if !ok {
			a = &accum{}
			byChannel[*e.ChannelID] = a
		}
		a.count++
		if e.ChannelWeight != nil && *e.ChannelWeight > a.weight {
			a.weight = *e.ChannelWeight
		}
	}

	out := make([]ChannelDiagnostic, 0, len(byChannel))
	for id, a := range byChannel {
		out = append(out, ChannelDiagnostic{ChannelID: id, EdgeCount: a.count, Weight: a.weight})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

// Summary returns a human-readable rendering of the report.
func Summary(r Report) string {
	var b strings.Builder
	b.WriteString("=== Layout Diagnostics ===\n\n")

	b.WriteString(fmt.Sprintf("Edges: %d\n", len(r.Edges)))
	for _, e := range r.Edges {
		b.WriteString(fmt.Sprintf("  %s: turns=%d collisions=%d trunkDeviation=%.2f intersections=%d\n",
			e.EdgeID, e.Turns, e.Collisions, e.TrunkDeviation, e.Intersections))
	}

	b.WriteString(fmt.Sprintf("\nChannels: %d\n", len(r.Channels)))
	for _, c := range r.Channels {
		b.WriteString(fmt.Sprintf("  %s: edges=%d weight=%d\n", c.ChannelID, c.EdgeCount, c.Weight))
	}

	return b.String()
}
