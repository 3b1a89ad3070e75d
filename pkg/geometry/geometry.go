// Package geometry provides the axis-aligned primitives the layout pipeline
// builds on: points, rectangles, raster snapping, segment/rectangle
// intersection, and polyline simplification. It has no dependency on any
// other pipeline package and never fails on degenerate input.
//
// Grounded on the teacher's pkg/embedding/layout.go (Pose, Path, Rect,
// Length, BendCount), generalized from float64 grid-unit dungeon geometry to
// raster-snapped pixel geometry for diagram rendering.
package geometry

import "math"

// Point is a 2D coordinate in raster (pixel) units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding rectangle in top-left/width/height form,
// matching the node placement fields used across the pipeline.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MinX, MinY, MaxX, MaxY return the rectangle's bounds.
func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Pad returns a copy of r grown by amt on every side (negative amt shrinks).
func (r Rect) Pad(amt float64) Rect {
	return Rect{X: r.X - amt, Y: r.Y - amt, Width: r.Width + 2*amt, Height: r.Height + 2*amt}
}

// Overlaps reports whether r and other's interiors intersect. Touching
// edges do not count as overlap.
func (r Rect) Overlaps(other Rect) bool {
	if r.MaxX() <= other.MinX() || other.MaxX() <= r.MinX() {
		return false
	}
	if r.MaxY() <= other.MinY() || other.MaxY() <= r.MinY() {
		return false
	}
	return true
}

// ContainsPoint reports whether p lies within r's closed bounds.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.MinX() && p.X <= r.MaxX() && p.Y >= r.MinY() && p.Y <= r.MaxY()
}

// Snap quantizes v to the nearest multiple of step. A non-positive step
// returns v unchanged.
func Snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// SnapPoint snaps both coordinates of p to step.
func SnapPoint(p Point, step float64) Point {
	return Point{X: Snap(p.X, step), Y: Snap(p.Y, step)}
}

// approxEqual compares floats with a small epsilon to absorb floating point
// noise introduced by snapping/rotation arithmetic upstream.
func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// SegmentIntersectsRect reports whether the *interior* of the axis-aligned
// segment a→b crosses the *interior* of rect r. Shared boundaries are not a
// crossing: a route is allowed to graze an obstacle's edge, which lets the
// router hug obstacles tightly without being penalized.
//
// Diagonal segments (never emitted by the router, but not excluded from
// malformed input) fall back to a bounding-box-overlap-plus-midpoint test.
func SegmentIntersectsRect(a, b Point, r Rect) bool {
	horizontal := approxEqual(a.Y, b.Y)
	vertical := approxEqual(a.X, b.X)

	switch {
	case horizontal && vertical:
		// Degenerate (zero-length) segment: only an interior point counts.
		return a.X > r.MinX() && a.X < r.MaxX() && a.Y > r.MinY() && a.Y < r.MaxY()
	case horizontal:
		if a.Y <= r.MinY() || a.Y >= r.MaxY() {
			return false
		}
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		return hi > r.MinX() && lo < r.MaxX()
	case vertical:
		if a.X <= r.MinX() || a.X >= r.MaxX() {
			return false
		}
		lo, hi := a.Y, b.Y
		if lo > hi {
			lo, hi = hi, lo
		}
		return hi > r.MinY() && lo < r.MaxY()
	default:
		bbox := Rect{
			X:      math.Min(a.X, b.X),
			Y:      math.Min(a.Y, b.Y),
			Width:  math.Abs(a.X - b.X),
			Height: math.Abs(a.Y - b.Y),
		}
		if !bbox.Overlaps(r) {
			return false
		}
		mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		return r.ContainsPoint(mid)
	}
}

// Simplify dedupes consecutive equal points (after snapping to step) and
// collapses runs of collinear successive points down to their endpoints.
// Degenerate input (0 or 1 points) is returned unchanged.
func Simplify(points []Point, step float64) []Point {
	if len(points) <= 1 {
		return points
	}

	snapped := make([]Point, 0, len(points))
	for _, p := range points {
		sp := SnapPoint(p, step)
		if len(snapped) == 0 || snapped[len(snapped)-1] != sp {
			snapped = append(snapped, sp)
		}
	}
	if len(snapped) <= 2 {
		return snapped
	}

	out := make([]Point, 0, len(snapped))
	out = append(out, snapped[0])
	for i := 1; i < len(snapped)-1; i++ {
		prev, cur, next := out[len(out)-1], snapped[i], snapped[i+1]
		if isCollinear(prev, cur, next) {
			continue // drop cur: prev-next remains axis-aligned through it
		}
		out = append(out, cur)
	}
	out = append(out, snapped[len(snapped)-1])
	return out
}

// isCollinear reports whether cur lies on the orthogonal segment from prev
// to next, i.e. dropping cur would not change the path's shape.
func isCollinear(prev, cur, next Point) bool {
	prevHoriz := approxEqual(prev.Y, cur.Y)
	curHoriz := approxEqual(cur.Y, next.Y)
	prevVert := approxEqual(prev.X, cur.X)
	curVert := approxEqual(cur.X, next.X)
	return (prevHoriz && curHoriz) || (prevVert && curVert)
}

// RouteLength returns the Manhattan (taxicab) length of a polyline.
func RouteLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += math.Abs(points[i+1].X-points[i].X) + math.Abs(points[i+1].Y-points[i].Y)
	}
	return total
}

// TurnCount returns the number of direction changes (bends) in a polyline.
func TurnCount(points []Point) int {
	if len(points) < 3 {
		return 0
	}
	turns := 0
	for i := 1; i < len(points)-1; i++ {
		dx1, dy1 := points[i].X-points[i-1].X, points[i].Y-points[i-1].Y
		dx2, dy2 := points[i+1].X-points[i].X, points[i+1].Y-points[i].Y
		if (dx1 == 0) != (dx2 == 0) || (dy1 == 0) != (dy2 == 0) {
			turns++
		}
	}
	return turns
}
