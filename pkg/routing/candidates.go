package routing

import (
	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// candidate is one fully-built orthogonal polyline competing for selection,
// tagged with its pool index (lower index wins ties, §4.5 step 5).
type candidate struct {
	points []geometry.Point
	index  int
}

// buildCandidates implements §4.5 step 3: a styled (Sourcetrail-parity)
// candidate pair plus a pool of corridor-biased fallback candidates.
func buildCandidates(e semgraph.RoutedEdge, src, dst geometry.Point, vSrcRect, vDstRect geometry.Rect, trunk *float64, profile parity.Profile) []candidate {
	var out []candidate
	idx := 0

	add := func(points []geometry.Point) {
		out = append(out, candidate{points: points, index: idx})
		idx++
	}

	offset := profile.Routing.OffsetFor(e.Kind)
	add(styledRoute(src, dst, offset, trunk, profile, true))
	add(styledRoute(src, dst, offset, trunk, profile, false))

	if e.Family == semgraph.FamilyHierarchy {
		preferredY := src.Y - profile.Routing.HierarchyYOffset
		if trunk != nil {
			preferredY = *trunk
		}
		midY := (src.Y + dst.Y) / 2
		for _, y := range []float64{preferredY, midY, preferredY + profile.Routing.HierarchyYOffset, preferredY - profile.Routing.HierarchyYOffset} {
			add(yCorridorRoute(src, dst, y))
		}
		return out
	}

	midX := (src.X + dst.X) / 2
	preferredX := midX
	if trunk != nil {
		preferredX = *trunk
	}
	for _, x := range []float64{preferredX, preferredX + profile.Routing.XDetourStep, preferredX - profile.Routing.XDetourStep} {
		add(xCorridorRoute(src, dst, x))
	}

	midY := (src.Y + dst.Y) / 2
	for _, y := range []float64{midY, midY + profile.Routing.YDetourStep, midY - profile.Routing.YDetourStep} {
		add(yCorridorRoute(src, dst, y))
	}

	return out
}

// styledRoute builds the 4-point Sourcetrail-parity candidate: an exit stub
// from src, an entry stub into dst, bent through one corner in either
// horizontal-first or vertical-first order. When trunk is set, the corner
// x-coordinates are forced onto it (clamped to the src/dst span).
func styledRoute(src, dst geometry.Point, offset parity.EdgeOffsetProfile, trunk *float64, profile parity.Profile, horizontalFirst bool) []geometry.Point {
	exitX := src.X + offset.OriginX
	exitY := src.Y + offset.OriginY + offset.VerticalOffset
	entryX := dst.X + offset.TargetX
	entryY := dst.Y + offset.TargetY + offset.VerticalOffset

	if trunk != nil {
		lo, hi := minF(src.X, dst.X), maxF(src.X, dst.X)
		tc := clampF(*trunk, lo, hi)
		exitX, entryX = tc, tc
	}

	waypoints := []geometry.Point{src, {X: exitX, Y: exitY}, {X: entryX, Y: entryY}, dst}
	return withOrthogonalBends(waypoints, horizontalFirst)
}

// xCorridorRoute is a vertical-corridor S-shape: src -> (x, src.Y) ->
// (x, dst.Y) -> dst. Already orthogonal by construction.
func xCorridorRoute(src, dst geometry.Point, x float64) []geometry.Point {
	return []geometry.Point{src, {X: x, Y: src.Y}, {X: x, Y: dst.Y}, dst}
}

// yCorridorRoute is a horizontal-corridor S-shape: src -> (src.X, y) ->
// (dst.X, y) -> dst. Already orthogonal by construction.
func yCorridorRoute(src, dst geometry.Point, y float64) []geometry.Point {
	return []geometry.Point{src, {X: src.X, Y: y}, {X: dst.X, Y: y}, dst}
}

// withOrthogonalBends walks consecutive waypoint pairs and inserts a corner
// point whenever a pair isn't already axis-aligned, guaranteeing every
// emitted segment is purely horizontal or vertical (generalizes the
// teacher's createManhattanPath/createAlternateManhattanPath from a single
// pair to an arbitrary waypoint chain).
func withOrthogonalBends(waypoints []geometry.Point, horizontalFirst bool) []geometry.Point {
	if len(waypoints) < 2 {
		return waypoints
	}
	out := make([]geometry.Point, 0, len(waypoints)*2)
	out = append(out, waypoints[0])
	for i := 0; i < len(waypoints)-1; i++ {
		a, b := waypoints[i], waypoints[i+1]
		if a.X == b.X || a.Y == b.Y {
			out = append(out, b)
			continue
		}
		if horizontalFirst {
			out = append(out, geometry.Point{X: b.X, Y: a.Y})
		} else {
			out = append(out, geometry.Point{X: a.X, Y: b.Y})
		}
		out = append(out, b)
	}
	return out
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampF(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
