package placement

import (
	"testing"

	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

func fixture() semgraph.LayoutElements {
	return semgraph.LayoutElements{
		CenterNodeID: "center",
		Nodes: []semgraph.NodePlacement{
			{ID: "center", XRank: 0, YRank: 0, Width: 160, Height: 72, NodeStyle: semgraph.StyleCard},
			{ID: "left", XRank: -1, YRank: 0, Width: 160, Height: 72, NodeStyle: semgraph.StyleCard},
			{ID: "right-a", XRank: 1, YRank: 0, Width: 120, Height: 44, NodeStyle: semgraph.StylePill},
			{ID: "right-b", XRank: 1, YRank: 1, Width: 120, Height: 44, NodeStyle: semgraph.StylePill},
		},
		Edges: []semgraph.RoutedEdge{
			{ID: "e1", Source: "center", Target: "right-a", Kind: semgraph.KindCall, Family: semgraph.FamilyFlow, SourceEdgeIDs: []string{"e1"}, Multiplicity: 1, BundleCount: 1},
			{ID: "e2", Source: "left", Target: "center", Kind: semgraph.KindInheritance, Family: semgraph.FamilyHierarchy, SourceEdgeIDs: []string{"e2"}, Multiplicity: 1, BundleCount: 1},
		},
	}
}

func rectsOverlap(a, b semgraph.NodePlacement) bool {
	return a.Rect().Overlaps(b.Rect())
}

func TestPlaceNoOverlap(t *testing.T) {
	placed := Place(fixture(), semgraph.DirectionHorizontal, parity.Default())
	for i := 0; i < len(placed.Nodes); i++ {
		for j := i + 1; j < len(placed.Nodes); j++ {
			if rectsOverlap(placed.Nodes[i], placed.Nodes[j]) {
				t.Fatalf("nodes %s and %s overlap: %+v / %+v", placed.Nodes[i].ID, placed.Nodes[j].ID, placed.Nodes[i].Rect(), placed.Nodes[j].Rect())
			}
		}
	}
}

func spread(nodes []semgraph.NodePlacement) (xSpread, ySpread float64) {
	minX, maxX := nodes[0].X, nodes[0].X
	minY, maxY := nodes[0].Y, nodes[0].Y
	for _, n := range nodes {
		if n.X < minX {
			minX = n.X
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}
	return maxX - minX, maxY - minY
}

func TestOrientationSpread(t *testing.T) {
	horiz := Place(fixture(), semgraph.DirectionHorizontal, parity.Default())
	xSpread, ySpread := spread(horiz.Nodes)
	if xSpread <= ySpread {
		t.Fatalf("horizontal layout: xSpread=%v, ySpread=%v, want xSpread > ySpread", xSpread, ySpread)
	}

	vert := Place(fixture(), semgraph.DirectionVertical, parity.Default())
	xSpread, ySpread = spread(vert.Nodes)
	if ySpread <= xSpread {
		t.Fatalf("vertical layout: xSpread=%v, ySpread=%v, want ySpread > xSpread", xSpread, ySpread)
	}
}

func TestHierarchyEdgeDistanceExceeds120(t *testing.T) {
	placed := Place(fixture(), semgraph.DirectionHorizontal, parity.Default())
	byID := make(map[string]semgraph.NodePlacement, len(placed.Nodes))
	for _, n := range placed.Nodes {
		byID[n.ID] = n
	}
	for _, e := range placed.Edges {
		if e.Family != semgraph.FamilyHierarchy {
			continue
		}
		src, dst := byID[e.Source], byID[e.Target]
		dist := abs(src.X-dst.X) + abs(src.Y-dst.Y)
		if dist <= 120 {
			t.Fatalf("hierarchy edge %s Manhattan distance = %v, want > 120", e.ID, dist)
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestPlaceIsDeterministic(t *testing.T) {
	a := Place(fixture(), semgraph.DirectionHorizontal, parity.Default())
	b := Place(fixture(), semgraph.DirectionHorizontal, parity.Default())
	for i := range a.Nodes {
		if a.Nodes[i].X != b.Nodes[i].X || a.Nodes[i].Y != b.Nodes[i].Y {
			t.Fatalf("non-deterministic placement for node %s", a.Nodes[i].ID)
		}
	}
}
