// Package render implements the layout pipeline's fifth stage (§4.6): a
// pure translation from a routed edge's polyline and metadata into portable
// rendering instructions: a path string, stroke color/width, opacity,
// marker kind, interaction width, and label coordinate. It never touches an
// image surface; pkg/svgexport is the one concrete consumer that does.
//
// Grounded on the teacher's kind → style switch-based palette functions
// (getEdgeStyle, getNodeColor, getHeatmapColor in pkg/export/svg.go): a
// fixed map keyed by kind with a safe default entry, generalized here from
// connector type to EdgeKind and enriched with the certainty/multiplicity
// styling §4.6 adds on top.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// MarkerKind is the arrowhead shape drawn at an edge's target end.
type MarkerKind string

const (
	MarkerOpen   MarkerKind = "open"
	MarkerClosed MarkerKind = "closed"
)

// EdgeRenderSpec is the render adapter's output for one routed edge: a
// renderer-agnostic description of how to draw it.
type EdgeRenderSpec struct {
	EdgeID           string         `json:"edgeId"`
	PathString       string         `json:"pathString"`
	LabelPoint       geometry.Point `json:"labelPoint"`
	StrokeColor      string         `json:"strokeColor"`
	StrokeWidth      float64        `json:"strokeWidth"`
	StrokeDasharray  string         `json:"strokeDasharray,omitempty"`
	Opacity          float64        `json:"opacity"`
	Marker           MarkerKind     `json:"marker"`
	MarkerSize       float64        `json:"markerSize"`
	InteractionWidth float64        `json:"interactionWidth"`
}

// edgeColors is the stable EdgeKind -> palette entry mapping (§4.6's color
// contract). Unknown kinds fall back to colorUnknown.
var edgeColors = map[semgraph.EdgeKind]string{
	semgraph.KindInheritance:            "#4299e1",
	semgraph.KindOverride:               "#38b2ac",
	semgraph.KindTypeArgument:           "#9f7aea",
	semgraph.KindTemplateSpecialization: "#805ad5",
	semgraph.KindCall:                   "#48bb78",
	semgraph.KindUsage:                  "#ed8936",
}

const colorUnknown = "#718096"

// openArrowKinds draws an open (unfilled) arrowhead; every other kind draws
// a closed (filled) one.
var openArrowKinds = map[semgraph.EdgeKind]struct{}{
	semgraph.KindInheritance:            {},
	semgraph.KindOverride:               {},
	semgraph.KindTypeArgument:           {},
	semgraph.KindTemplateSpecialization: {},
}

func colorFor(kind semgraph.EdgeKind) string {
	if c, ok := edgeColors[kind]; ok {
		return c
	}
	return colorUnknown
}

func markerFor(kind semgraph.EdgeKind, bundled bool, profile parity.Profile) (MarkerKind, float64) {
	m := profile.Rendering.Markers
	if kind == semgraph.KindInheritance {
		return MarkerOpen, m.Inheritance
	}
	if kind == semgraph.KindTemplateSpecialization {
		return MarkerOpen, m.TemplateSpecialization
	}
	shape := MarkerClosed
	if _, open := openArrowKinds[kind]; open {
		shape = MarkerOpen
	}
	if bundled {
		return shape, m.Bundled
	}
	return shape, m.Default
}

// Render builds the complete set of EdgeRenderSpecs for a routed, bundled
// layout, in the order of elems.Edges (the pipeline passes them in edge-id
// order).
func Render(elems semgraph.LayoutElements, profile parity.Profile) []EdgeRenderSpec {
	specs := make([]EdgeRenderSpec, 0, len(elems.Edges))
	for _, e := range elems.Edges {
		specs = append(specs, RenderEdge(e, profile))
	}
	return specs
}

// RenderEdge implements §4.6 for a single edge.
func RenderEdge(e semgraph.RoutedEdge, profile parity.Profile) EdgeRenderSpec {
	r := profile.Rendering
	bundled := e.Multiplicity > 1 || e.RouteKind == semgraph.RouteFlowTrunk

	strokeWidth := r.StrokeBase +
		math.Min(r.BundledMaxBoost, math.Log2(math.Max(1, float64(e.BundleCount)))*r.BundledLogMultiplier) +
		math.Min(r.MultiplicityMaxBoost, math.Max(0, float64(e.Multiplicity-1))*r.MultiplicityStep)
	if e.Family == semgraph.FamilyHierarchy {
		strokeWidth += r.HierarchyBoost
	}

	opacity := r.CertaintyOpacity.None
	dasharray := ""
	switch e.Certainty {
	case semgraph.CertaintyUncertain:
		opacity = r.CertaintyOpacity.Uncertain
		dasharray = "4,4"
	case semgraph.CertaintyProbable:
		opacity = r.CertaintyOpacity.Probable
	}
	if e.Family == semgraph.FamilyHierarchy {
		opacity = math.Min(1, opacity+r.HierarchyOpacityBias)
	}

	marker, markerSize := markerFor(e.Kind, bundled, profile)

	return EdgeRenderSpec{
		EdgeID:           e.ID,
		PathString:       buildPathString(e, profile),
		LabelPoint:       labelPoint(e.RoutePoints),
		StrokeColor:      colorFor(e.Kind),
		StrokeWidth:      strokeWidth,
		StrokeDasharray:  dasharray,
		Opacity:          opacity,
		Marker:           marker,
		MarkerSize:       markerSize,
		InteractionWidth: strokeWidth + r.InteractionWidthBoost,
	}
}

// labelPoint is the polyline's middle point by point count (§4.6).
func labelPoint(points []geometry.Point) geometry.Point {
	if len(points) == 0 {
		return geometry.Point{}
	}
	return points[len(points)/2]
}

// buildPathString renders the polyline as straight segments joined by
// quarter-arc fillets, with an optional hook decoration at trunk branch
// exits (§4.6).
func buildPathString(e semgraph.RoutedEdge, profile parity.Profile) string {
	points := e.RoutePoints
	if len(points) < 2 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %s", fmtPoint(points[0]))

	isTrunkVertex := make([]bool, len(points))
	if e.RouteKind == semgraph.RouteFlowTrunk && e.TrunkCoord != nil {
		for i := 1; i < len(points)-1; i++ {
			if onTrunk(points[i], *e.TrunkCoord) && perpendicularAfter(points, i) {
				isTrunkVertex[i] = true
			}
		}
	}

	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		if i < len(points)-1 && isTrunkVertex[i] {
			if hook, ok := buildHook(prev, cur, points[i+1], profile); ok {
				b.WriteString(hook)
				continue
			}
		}
		if i > 0 && i < len(points)-1 {
			radius := filletRadius(points[i-1], points[i], points[i+1], profile.Rendering.CornerRadius)
			if radius > 0 {
				writeFillet(&b, points[i-1], points[i], points[i+1], radius)
				continue
			}
		}
		fmt.Fprintf(&b, " L %s", fmtPoint(cur))
	}
	return b.String()
}

func onTrunk(p geometry.Point, trunk float64) bool {
	const eps = 0.5
	return math.Abs(p.X-trunk) < eps || math.Abs(p.Y-trunk) < eps
}

// perpendicularAfter reports whether the segment leaving points[i] changes
// axis relative to the segment arriving at it, the "branch exit" shape
// the hook decoration is for.
func perpendicularAfter(points []geometry.Point, i int) bool {
	if i == 0 || i >= len(points)-1 {
		return false
	}
	inHoriz := points[i].Y == points[i-1].Y
	outHoriz := points[i+1].Y == points[i].Y
	return inHoriz != outHoriz
}

// filletRadius returns the largest fillet radius that fits within half of
// each adjacent segment's length, capped at cornerRadius.
func filletRadius(prev, cur, next geometry.Point, cornerRadius float64) float64 {
	in := geometry.RouteLength([]geometry.Point{prev, cur})
	out := geometry.RouteLength([]geometry.Point{cur, next})
	r := math.Min(cornerRadius, math.Min(in, out)/2)
	if r < 0.5 {
		return 0
	}
	return r
}

func writeFillet(b *strings.Builder, prev, cur, next geometry.Point, radius float64) {
	entry := pointToward(cur, prev, radius)
	exit := pointToward(cur, next, radius)
	fmt.Fprintf(b, " L %s Q %s %s", fmtPoint(entry), fmtPoint(cur), fmtPoint(exit))
}

// pointToward returns the point at distance d from `from` along the
// from->toward direction (axis-aligned, since routes are orthogonal).
func pointToward(from, toward geometry.Point, d float64) geometry.Point {
	switch {
	case toward.X > from.X:
		return geometry.Point{X: from.X + d, Y: from.Y}
	case toward.X < from.X:
		return geometry.Point{X: from.X - d, Y: from.Y}
	case toward.Y > from.Y:
		return geometry.Point{X: from.X, Y: from.Y + d}
	default:
		return geometry.Point{X: from.X, Y: from.Y - d}
	}
}

// buildHook draws a small upper-then-outward-then-lower lobe at a trunk
// branch exit, when the adjacent segments admit a hook of at least
// TrunkJoinMinRadius/TrunkJoinMinDepth (§4.6). Returns ok=false when the
// vertex doesn't have room for one, in which case the caller falls back to
// an ordinary fillet/line join.
func buildHook(prev, cur, next geometry.Point, profile parity.Profile) (string, bool) {
	r := profile.Rendering
	in := geometry.RouteLength([]geometry.Point{prev, cur})
	out := geometry.RouteLength([]geometry.Point{cur, next})
	depth := math.Min(in, out) / 2
	if depth < r.TrunkJoinMinDepth {
		return "", false
	}
	radius := math.Min(r.TrunkElbowGutter, depth)
	if radius < r.TrunkJoinMinRadius {
		return "", false
	}

	entry := pointToward(cur, prev, radius)
	lobe := pointToward(cur, next, radius/2)
	exit := pointToward(cur, next, radius)

	var b strings.Builder
	fmt.Fprintf(&b, " L %s Q %s %s Q %s %s", fmtPoint(entry), fmtPoint(cur), fmtPoint(lobe), fmtPoint(cur), fmtPoint(exit))
	return b.String(), true
}

func fmtPoint(p geometry.Point) string {
	return fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
}
