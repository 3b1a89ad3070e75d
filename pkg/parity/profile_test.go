package parity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

func TestDefaultProfileValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() returned error: %v", err)
	}
}

func TestValidateCatchesBadRasterStep(t *testing.T) {
	p := Default()
	p.RasterStep = 0
	if err := p.Validate(); err == nil {
		t.Fatalf("expected an error for a zero rasterStep")
	}
}

func TestValidateCatchesInvertedWidthBounds(t *testing.T) {
	p := Default()
	p.Dimensions.CardWidthMax = p.Dimensions.CardWidthMin - 1
	if err := p.Validate(); err == nil {
		t.Fatalf("expected an error for cardWidthMax < cardWidthMin")
	}
}

func TestValidateCatchesInvertedTrunkGapBounds(t *testing.T) {
	p := Default()
	p.Bundling.MaxTrunkGap = p.Bundling.MinTrunkGap - 1
	if err := p.Validate(); err == nil {
		t.Fatalf("expected an error for maxTrunkGap < minTrunkGap")
	}
}

func TestValidateCatchesNegativeObstaclePadding(t *testing.T) {
	p := Default()
	p.Routing.ObstaclePadding = -1
	if err := p.Validate(); err == nil {
		t.Fatalf("expected an error for negative obstaclePadding")
	}
}

func TestMinGroupSizeForUsesDenseRowWhenDensityQualifies(t *testing.T) {
	b := Default().Bundling
	if got := b.MinGroupSizeFor(0, 3.5); got != 3 {
		t.Fatalf("MinGroupSizeFor(depth=0, density=3.5) = %d, want 3", got)
	}
}

func TestMinGroupSizeForUsesDeepRowWhenDepthQualifies(t *testing.T) {
	b := Default().Bundling
	if got := b.MinGroupSizeFor(4, 0); got != 3 {
		t.Fatalf("MinGroupSizeFor(depth=4, density=0) = %d, want 3", got)
	}
}

func TestMinGroupSizeForUsesShallowRowWhenOnlyItQualifies(t *testing.T) {
	b := Default().Bundling
	if got := b.MinGroupSizeFor(2, 1.5); got != 4 {
		t.Fatalf("MinGroupSizeFor(depth=2, density=1.5) = %d, want 4", got)
	}
}

func TestMinGroupSizeForFallsBackToDefault(t *testing.T) {
	b := Default().Bundling
	if got := b.MinGroupSizeFor(0, 0); got != b.DefaultMinGroupSize {
		t.Fatalf("MinGroupSizeFor(depth=0, density=0) = %d, want default %d", got, b.DefaultMinGroupSize)
	}
}

func TestOffsetForFallsBackToDefaultOffset(t *testing.T) {
	r := Default().Routing
	if got := r.OffsetFor(semgraph.KindUsage); got != r.DefaultOffset {
		t.Fatalf("OffsetFor(unmapped kind) = %+v, want DefaultOffset %+v", got, r.DefaultOffset)
	}
}

func TestOffsetForReturnsSpecificEntry(t *testing.T) {
	r := Default().Routing
	want := r.EdgeOffsets[semgraph.KindInheritance]
	if got := r.OffsetFor(semgraph.KindInheritance); got != want {
		t.Fatalf("OffsetFor(KindInheritance) = %+v, want %+v", got, want)
	}
}

func TestLoadProfileOverlaysOntoDefaults(t *testing.T) {
	yamlDoc := `
rasterStep: 16
bundling:
  minEdgesForBundling: 3
`
	path := filepath.Join(t.TempDir(), "tight.yaml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatalf("writing temp profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile returned error: %v", err)
	}
	if p.RasterStep != 16 {
		t.Fatalf("RasterStep = %v, want 16 (overridden)", p.RasterStep)
	}
	if p.Bundling.MinEdgesForBundling != 3 {
		t.Fatalf("Bundling.MinEdgesForBundling = %d, want 3 (overridden)", p.Bundling.MinEdgesForBundling)
	}

	def := Default()
	if p.Dimensions != def.Dimensions {
		t.Fatalf("Dimensions changed despite not being present in the override document")
	}
	if p.Routing.ObstaclePadding != def.Routing.ObstaclePadding {
		t.Fatalf("Routing.ObstaclePadding changed despite not being present in the override document")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected an error for a missing profile file")
	}
}

func TestLoadProfileRejectsInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rasterStep: -1\n"), 0o644); err != nil {
		t.Fatalf("writing temp profile: %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Fatalf("expected an error for a profile that fails Validate")
	}
}

func TestLoadProfileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "malformed.yaml")
	if err := os.WriteFile(path, []byte("rasterStep: [not a number\n"), 0o644); err != nil {
		t.Fatalf("writing temp profile: %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}
