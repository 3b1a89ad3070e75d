package svgexport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

func fixtureElements() semgraph.LayoutElements {
	trunk := 150.0
	channelID := "channel:CALL:a<->b:0"
	return semgraph.LayoutElements{
		CenterNodeID: "a",
		Nodes: []semgraph.NodePlacement{
			{
				ID: "a", Label: "a", Kind: semgraph.KindClass, NodeStyle: semgraph.StyleCard,
				X: 0, Y: 0, Width: 160, Height: 80,
				Members: []semgraph.Member{{ID: "m1", Label: "m1", Visibility: semgraph.VisibilityPublic}},
			},
			{ID: "b", Label: "b", Kind: semgraph.KindClass, NodeStyle: semgraph.StylePill, X: 300, Y: 0, Width: 120, Height: 44},
		},
		Edges: []semgraph.RoutedEdge{
			{
				ID: "e1", Source: "a", Target: "b", Kind: semgraph.KindCall, Family: semgraph.FamilyFlow,
				RouteKind: semgraph.RouteFlowTrunk, Multiplicity: 1, BundleCount: 2,
				TrunkCoord: &trunk, ChannelID: &channelID,
				RoutePoints: []geometry.Point{{X: 160, Y: 20}, {X: 150, Y: 20}, {X: 150, Y: 60}, {X: 300, Y: 22}},
			},
		},
	}
}

func TestExportProducesValidSVGDocument(t *testing.T) {
	data, err := Export(fixtureElements(), parity.Default(), DefaultOptions())
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "</svg>") {
		t.Fatalf("output is not a complete SVG document: %s", s)
	}
	if !strings.Contains(s, "<path") {
		t.Fatalf("expected at least one <path> element for the routed edge")
	}
	if !strings.Contains(s, "<rect") {
		t.Fatalf("expected at least one <rect> element for a node")
	}
}

func TestExportRejectsEmptyLayout(t *testing.T) {
	_, err := Export(semgraph.LayoutElements{}, parity.Default(), DefaultOptions())
	if err == nil {
		t.Fatalf("expected an error for a layout with no nodes")
	}
}

func TestExportOnePathPerResolvableEdge(t *testing.T) {
	elems := fixtureElements()
	elems.Edges = append(elems.Edges, semgraph.RoutedEdge{ID: "dangling", Source: "a", Target: "ghost"})
	data, err := Export(elems, parity.Default(), DefaultOptions())
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if count := bytes.Count(data, []byte("<path")); count != 1 {
		t.Fatalf("expected exactly 1 <path> element (dangling edge skipped), got %d", count)
	}
}

func TestExportChannelGuidesOnlyWhenRequested(t *testing.T) {
	opts := DefaultOptions()
	withoutGuides, err := Export(fixtureElements(), parity.Default(), opts)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	opts.DebugChannels = true
	withGuides, err := Export(fixtureElements(), parity.Default(), opts)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if len(withGuides) <= len(withoutGuides) {
		t.Fatalf("expected debug-channels output to be larger than the default output")
	}
}

func TestSaveToFileWritesNonEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.svg")
	if err := SaveToFile(fixtureElements(), parity.Default(), path, DefaultOptions()); err != nil {
		t.Fatalf("SaveToFile returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected a non-empty SVG file")
	}
}

func TestTranslatePathPreservesCommandLetters(t *testing.T) {
	bounds := canvasBounds{MinX: 0, MinY: 0, Margin: 10}
	out := translatePath("M 0.00,0.00 L 100.00,0.00", bounds)
	if !strings.Contains(out, "M") || !strings.Contains(out, "L") {
		t.Fatalf("translatePath dropped a command letter: %q", out)
	}
}
