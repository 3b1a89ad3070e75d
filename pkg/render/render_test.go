package render

import (
	"strings"
	"testing"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

func straightEdge() semgraph.RoutedEdge {
	return semgraph.RoutedEdge{
		ID: "e1", Source: "a", Target: "b",
		Kind: semgraph.KindCall, Family: semgraph.FamilyFlow, RouteKind: semgraph.RouteDirect,
		Multiplicity: 1, BundleCount: 1, Certainty: semgraph.CertaintyNone,
		RoutePoints: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}},
	}
}

func TestRenderEdgeColorFallback(t *testing.T) {
	e := straightEdge()
	e.Kind = "NOT_A_REAL_KIND"
	spec := RenderEdge(e, parity.Default())
	if spec.StrokeColor != colorUnknown {
		t.Fatalf("unknown kind got color %q, want fallback %q", spec.StrokeColor, colorUnknown)
	}
}

func TestRenderEdgeKnownColor(t *testing.T) {
	e := straightEdge()
	spec := RenderEdge(e, parity.Default())
	if spec.StrokeColor != edgeColors[semgraph.KindCall] {
		t.Fatalf("CALL edge got color %q, want %q", spec.StrokeColor, edgeColors[semgraph.KindCall])
	}
}

func TestRenderMarkerOpenForHierarchyKinds(t *testing.T) {
	profile := parity.Default()
	for _, kind := range []semgraph.EdgeKind{
		semgraph.KindInheritance, semgraph.KindOverride,
		semgraph.KindTypeArgument, semgraph.KindTemplateSpecialization,
	} {
		e := straightEdge()
		e.Kind = kind
		e.Family = semgraph.FamilyOf(kind)
		spec := RenderEdge(e, profile)
		if spec.Marker != MarkerOpen {
			t.Fatalf("kind %s got marker %s, want open", kind, spec.Marker)
		}
	}
	e := straightEdge() // CALL
	if spec := RenderEdge(e, profile); spec.Marker != MarkerClosed {
		t.Fatalf("CALL got marker %s, want closed", spec.Marker)
	}
}

func TestRenderMarkerSizeBundledTier(t *testing.T) {
	profile := parity.Default()
	e := straightEdge()
	e.Multiplicity = 3
	e.BundleCount = 3
	spec := RenderEdge(e, profile)
	if spec.MarkerSize != profile.Rendering.Markers.Bundled {
		t.Fatalf("bundled edge marker size = %v, want %v", spec.MarkerSize, profile.Rendering.Markers.Bundled)
	}
}

func TestRenderCertaintyStyling(t *testing.T) {
	profile := parity.Default()
	uncertain := straightEdge()
	uncertain.Certainty = semgraph.CertaintyUncertain
	spec := RenderEdge(uncertain, profile)
	if spec.StrokeDasharray == "" {
		t.Fatalf("uncertain edge should have a dash pattern")
	}
	if spec.Opacity != profile.Rendering.CertaintyOpacity.Uncertain {
		t.Fatalf("uncertain opacity = %v, want %v", spec.Opacity, profile.Rendering.CertaintyOpacity.Uncertain)
	}

	probable := straightEdge()
	probable.Certainty = semgraph.CertaintyProbable
	spec = RenderEdge(probable, profile)
	if spec.StrokeDasharray != "" {
		t.Fatalf("probable edge should not be dashed")
	}
	if spec.Opacity != profile.Rendering.CertaintyOpacity.Probable {
		t.Fatalf("probable opacity = %v, want %v", spec.Opacity, profile.Rendering.CertaintyOpacity.Probable)
	}
}

func TestRenderHierarchyStrokeBoost(t *testing.T) {
	profile := parity.Default()
	flow := straightEdge()
	flowSpec := RenderEdge(flow, profile)

	hier := straightEdge()
	hier.Kind = semgraph.KindInheritance
	hier.Family = semgraph.FamilyHierarchy
	hierSpec := RenderEdge(hier, profile)

	if hierSpec.StrokeWidth <= flowSpec.StrokeWidth {
		t.Fatalf("hierarchy stroke width %v should exceed flow stroke width %v", hierSpec.StrokeWidth, flowSpec.StrokeWidth)
	}
}

func TestRenderPathStringStartsAndEndsAtRouteEndpoints(t *testing.T) {
	e := straightEdge()
	spec := RenderEdge(e, parity.Default())
	if !strings.HasPrefix(spec.PathString, "M 0.00,0.00") {
		t.Fatalf("path string %q does not start at first route point", spec.PathString)
	}
	if !strings.Contains(spec.PathString, "100.00,100.00") {
		t.Fatalf("path string %q does not reach last route point", spec.PathString)
	}
}

func TestRenderLabelPointIsMiddleByCount(t *testing.T) {
	e := straightEdge() // 3 points -> index 1
	spec := RenderEdge(e, parity.Default())
	want := e.RoutePoints[1]
	if spec.LabelPoint != want {
		t.Fatalf("label point = %+v, want middle point %+v", spec.LabelPoint, want)
	}
}

func TestRenderEmptyRouteProducesEmptyPath(t *testing.T) {
	e := straightEdge()
	e.RoutePoints = nil
	spec := RenderEdge(e, parity.Default())
	if spec.PathString != "" {
		t.Fatalf("empty route should produce empty path string, got %q", spec.PathString)
	}
}

func TestRenderDeterministicOrder(t *testing.T) {
	elems := semgraph.LayoutElements{
		Edges: []semgraph.RoutedEdge{straightEdge(), func() semgraph.RoutedEdge { e := straightEdge(); e.ID = "e0"; return e }()},
	}
	specs := Render(elems, parity.Default())
	if specs[0].EdgeID != "e1" || specs[1].EdgeID != "e0" {
		t.Fatalf("Render should preserve input edge order: got %v", specs)
	}
}
