// Package svgexport implements the ambient SVG debug renderer (§4.10): it
// paints a routed, rendered LayoutElements onto an actual SVG canvas for
// human inspection, built on the teacher's own svg dependency.
//
// Grounded on the teacher's pkg/export/svg.go (ExportSVG, SaveSVGToFile,
// sorted-ID deterministic draw order, a header-plus-legend layering of
// background -> edges -> nodes -> labels -> header). Node rectangles and
// member rows are drawn from the placed nodes; per-edge
// path/color/dash/opacity come from pkg/render's portable EdgeRenderSpec
// contract rather than this package recomputing
// styling itself; svgexport is a consumer of that contract, not a second
// implementation of it.
package svgexport

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/render"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// Options configures the debug SVG canvas.
type Options struct {
	Margin        float64
	ShowLabels    bool
	DebugChannels bool
	Title         string
}

// DefaultOptions returns the teacher's DefaultSVGOptions posture adapted to
// this package's smaller surface: labels and a title on, channel guides off
// (they're a diagnostic overlay, not a default view).
func DefaultOptions() Options {
	return Options{
		Margin:     60,
		ShowLabels: true,
		Title:      "Layout",
	}
}

// nodeColors mirrors the teacher's color-by-type palette, keyed by node
// style instead of room archetype.
var nodeColors = map[semgraph.NodeStyle]string{
	semgraph.StyleCard:   "#2d3748",
	semgraph.StylePill:   "#4a5568",
	semgraph.StyleBundle: "#1a202c",
}

const colorNodeDefault = "#4a5568"
const colorBackground = "#1a1a2e"
const colorBorder = "#718096"
const colorText = "#e2e8f0"
const colorChannelGuide = "#ffd70066"

// Export renders elems to a complete SVG document, sized to fit every node
// plus Options.Margin.
func Export(elems semgraph.LayoutElements, profile parity.Profile, opts Options) ([]byte, error) {
	if len(elems.Nodes) == 0 {
		return nil, fmt.Errorf("svgexport: layout has no nodes")
	}

	margin := opts.Margin
	if margin <= 0 {
		margin = 60
	}

	bounds := computeBounds(elems.Nodes, margin)
	width := int(math.Ceil(bounds.Width))
	height := int(math.Ceil(bounds.Height))

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", colorBackground))

	specs := render.Render(elems, profile)
	specsByID := make(map[string]render.EdgeRenderSpec, len(specs))
	for _, s := range specs {
		specsByID[s.EdgeID] = s
	}

	if opts.DebugChannels {
		drawChannelGuides(canvas, elems, bounds)
	}
	drawEdges(canvas, elems, specsByID, bounds)
	drawNodes(canvas, elems.Nodes, bounds, opts)
	drawHeader(canvas, elems, opts, width)

	canvas.End()
	return buf.Bytes(), nil
}

// SaveToFile renders elems and writes the SVG document to path.
func SaveToFile(elems semgraph.LayoutElements, profile parity.Profile, path string, opts Options) error {
	data, err := Export(elems, profile, opts)
	if err != nil {
		return fmt.Errorf("svgexport: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("svgexport: writing %s: %w", path, err)
	}
	return nil
}

// canvasBounds translates layout-space coordinates into canvas-space ones
// (origin at the top-left, margin on every side).
type canvasBounds struct {
	MinX, MinY    float64
	Width, Height float64
	Margin        float64
}

func computeBounds(nodes []semgraph.NodePlacement, margin float64) canvasBounds {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		r := n.Rect()
		minX = math.Min(minX, r.MinX())
		minY = math.Min(minY, r.MinY())
		maxX = math.Max(maxX, r.MaxX())
		maxY = math.Max(maxY, r.MaxY())
	}
	return canvasBounds{
		MinX:   minX,
		MinY:   minY,
		Width:  (maxX - minX) + 2*margin,
		Height: (maxY - minY) + 2*margin,
		Margin: margin,
	}
}

func (b canvasBounds) tx(x float64) int { return int(math.Round(x - b.MinX + b.Margin)) }
func (b canvasBounds) ty(y float64) int { return int(math.Round(y - b.MinY + b.Margin)) }

func drawNodes(canvas *svg.SVG, nodes []semgraph.NodePlacement, bounds canvasBounds, opts Options) {
	sorted := append([]semgraph.NodePlacement(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, n := range sorted {
		color, ok := nodeColors[n.NodeStyle]
		if !ok {
			color = colorNodeDefault
		}
		x, y := bounds.tx(n.X), bounds.ty(n.Y)
		w, h := int(math.Round(n.Width)), int(math.Round(n.Height))
		canvas.Rect(x, y, w, h, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1;rx:4", color, colorBorder))

		if opts.ShowLabels && n.Label != "" {
			canvas.Text(x+6, y+16, n.Label, fmt.Sprintf("font-size:12px;fill:%s", colorText))
		}
		if opts.ShowLabels && n.NodeStyle == semgraph.StyleCard {
			for i, m := range n.Members {
				rowY := y + 16 + (i+1)*16
				if rowY > y+h-4 {
					break
				}
				canvas.Text(x+10, rowY, m.Label, fmt.Sprintf("font-size:10px;fill:%s", colorText))
			}
		}
	}
}

func drawEdges(canvas *svg.SVG, elems semgraph.LayoutElements, specsByID map[string]render.EdgeRenderSpec, bounds canvasBounds) {
	edges := append([]semgraph.RoutedEdge(nil), elems.Edges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for _, e := range edges {
		if len(e.RoutePoints) < 2 {
			continue
		}
		spec, ok := specsByID[e.ID]
		if !ok {
			continue
		}
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f;opacity:%.2f",
			spec.StrokeColor, spec.StrokeWidth, spec.Opacity)
		if spec.StrokeDasharray != "" {
			style += fmt.Sprintf(";stroke-dasharray:%s", spec.StrokeDasharray)
		}
		canvas.Path(translatePath(spec.PathString, bounds), style)
		drawArrowhead(canvas, e.RoutePoints, spec, bounds)
	}
}

// translatePath rewrites an M/L/Q path string's coordinates from layout
// space into canvas space. The render adapter's path commands always use
// "x,y" pairs in command/argument order, so a straightforward token scan
// suffices without a full SVG path parser.
func translatePath(pathString string, bounds canvasBounds) string {
	var out bytes.Buffer
	tokens := bytes.Fields([]byte(pathString))
	for _, tok := range tokens {
		s := string(tok)
		if s == "M" || s == "L" || s == "Q" {
			out.WriteString(s)
			out.WriteByte(' ')
			continue
		}
		var x, y float64
		if _, err := fmt.Sscanf(s, "%f,%f", &x, &y); err == nil {
			fmt.Fprintf(&out, "%d,%d ", bounds.tx(x), bounds.ty(y))
			continue
		}
		out.WriteString(s)
		out.WriteByte(' ')
	}
	return out.String()
}

func drawArrowhead(canvas *svg.SVG, points []geometry.Point, spec render.EdgeRenderSpec, bounds canvasBounds) {
	if len(points) < 2 {
		return
	}
	tip := points[len(points)-1]
	from := points[len(points)-2]
	dx, dy := tip.X-from.X, tip.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dx, dy = dx/length, dy/length
	size := spec.MarkerSize
	perpX, perpY := -dy, dx

	xs := []int{
		bounds.tx(tip.X),
		bounds.tx(tip.X - dx*size + perpX*size*0.5),
		bounds.tx(tip.X - dx*size - perpX*size*0.5),
	}
	ys := []int{
		bounds.ty(tip.Y),
		bounds.ty(tip.Y - dy*size + perpY*size*0.5),
		bounds.ty(tip.Y - dy*size - perpY*size*0.5),
	}

	fill := spec.StrokeColor
	if spec.Marker == render.MarkerOpen {
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", fill))
		return
	}
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s", fill))
}

// drawChannelGuides draws a faint dashed line at each distinct trunk
// coordinate, for -debug-channels inspection.
func drawChannelGuides(canvas *svg.SVG, elems semgraph.LayoutElements, bounds canvasBounds) {
	seen := make(map[string]bool)
	for _, e := range elems.Edges {
		if e.ChannelID == nil || e.TrunkCoord == nil {
			continue
		}
		if seen[*e.ChannelID] {
			continue
		}
		seen[*e.ChannelID] = true

		x := bounds.tx(*e.TrunkCoord)
		canvas.Line(x, bounds.ty(bounds.MinY), x, bounds.ty(bounds.MinY+bounds.Height),
			fmt.Sprintf("stroke:%s;stroke-width:1;stroke-dasharray:6,4", colorChannelGuide))
	}
}

func drawHeader(canvas *svg.SVG, elems semgraph.LayoutElements, opts Options, width int) {
	if opts.Title == "" {
		return
	}
	channels := make(map[string]bool)
	for _, e := range elems.Edges {
		if e.ChannelID != nil {
			channels[*e.ChannelID] = true
		}
	}
	canvas.Text(width/2, 24, opts.Title, fmt.Sprintf("font-size:18px;fill:%s;text-anchor:middle", colorText))
	stats := fmt.Sprintf("%d nodes, %d edges, %d channels", len(elems.Nodes), len(elems.Edges), len(channels))
	canvas.Text(width/2, 42, stats, fmt.Sprintf("font-size:11px;fill:%s;text-anchor:middle", colorBorder))
}
