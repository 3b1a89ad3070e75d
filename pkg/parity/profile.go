// Package parity holds the single tunable-constants record the rest of the
// pipeline reads from: raster step, bundling thresholds, routing weights,
// per-edge-kind offset profiles, and render amplification. A Profile is
// built once by Default (or LoadProfile) and treated as read-only
// thereafter, so pipeline stages and tests can share one without risk of one
// stage mutating another's view of the constants.
//
// Grounded on the teacher's pkg/embedding.Config (a single validated
// parameter record threaded through the embedder) and pkg/dungeon.Config's
// YAML-with-defaults loading idiom.
package parity

import (
	"fmt"

	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// MinGroupRule is one row of the bundler's minimum-group-size table (§4.4
// step 4): the first row (ordered by MinDensity desc, then MinDepth desc)
// whose MinDepth <= depth or MinDensity <= density supplies MinGroupSize.
type MinGroupRule struct {
	MinDensity   float64 `yaml:"minDensity" json:"minDensity"`
	MinDepth     int     `yaml:"minDepth" json:"minDepth"`
	MinGroupSize int     `yaml:"minGroupSize" json:"minGroupSize"`
}

// Dimensions controls node footprint estimation (§4.2 step 7).
type Dimensions struct {
	CardWidthMin   float64 `yaml:"cardWidthMin" json:"cardWidthMin"`
	CardWidthMax   float64 `yaml:"cardWidthMax" json:"cardWidthMax"`
	PillWidthMin   float64 `yaml:"pillWidthMin" json:"pillWidthMin"`
	PillWidthMax   float64 `yaml:"pillWidthMax" json:"pillWidthMax"`
	CardHeightMin  float64 `yaml:"cardHeightMin" json:"cardHeightMin"`
	CardHeightMax  float64 `yaml:"cardHeightMax" json:"cardHeightMax"`
	PillHeight     float64 `yaml:"pillHeight" json:"pillHeight"`
	CharWidth      float64 `yaml:"charWidth" json:"charWidth"`
	SectionHeight  float64 `yaml:"sectionHeight" json:"sectionHeight"`
	MemberRowHeight float64 `yaml:"memberRowHeight" json:"memberRowHeight"`
	// MemberSectionBaseY, MemberSectionRowPad feed the member-anchor formula
	// (§4.5 step 2): y = MemberSectionBaseY + sections*SectionHeight +
	// memberIndex*MemberRowHeight + MemberSectionRowPad.
	MemberSectionBaseY  float64 `yaml:"memberSectionBaseY" json:"memberSectionBaseY"`
	MemberSectionRowPad float64 `yaml:"memberSectionRowPad" json:"memberSectionRowPad"`
}

// Bundling controls the adaptive edge bundler (§4.4).
type Bundling struct {
	MinEdgesForBundling int            `yaml:"minEdgesForBundling" json:"minEdgesForBundling"`
	LaneBandHeightBase  float64        `yaml:"laneBandHeightBase" json:"laneBandHeightBase"`
	LaneBandHeightDense float64        `yaml:"laneBandHeightDense" json:"laneBandHeightDense"`
	DensityThreshold    float64        `yaml:"densityThreshold" json:"densityThreshold"`
	MinGroupSizeTable   []MinGroupRule `yaml:"minGroupSizeTable" json:"minGroupSizeTable"`
	DefaultMinGroupSize int            `yaml:"defaultMinGroupSize" json:"defaultMinGroupSize"`
	MinTrunkGap         float64        `yaml:"minTrunkGap" json:"minTrunkGap"`
	MaxTrunkGap         float64        `yaml:"maxTrunkGap" json:"maxTrunkGap"`
	DensityGapBoost     float64        `yaml:"densityGapBoost" json:"densityGapBoost"`
	CorridorPadding     float64        `yaml:"corridorPadding" json:"corridorPadding"`
	TrunkGutter         float64        `yaml:"trunkGutter" json:"trunkGutter"`
	SharedTrunkPadding  float64        `yaml:"sharedTrunkPadding" json:"sharedTrunkPadding"`
	MaxLaneBand         int            `yaml:"maxLaneBand" json:"maxLaneBand"`
	FanOutMinBranches   int            `yaml:"fanOutMinBranches" json:"fanOutMinBranches"`
}

// EdgeOffsetProfile is the per-edge-kind styled-candidate offset table used
// by the router's "Sourcetrail parity" candidate (§4.5 step 3).
type EdgeOffsetProfile struct {
	OriginX        float64 `yaml:"originX" json:"originX"`
	OriginY        float64 `yaml:"originY" json:"originY"`
	TargetX        float64 `yaml:"targetX" json:"targetX"`
	TargetY        float64 `yaml:"targetY" json:"targetY"`
	VerticalOffset float64 `yaml:"verticalOffset" json:"verticalOffset"`
}

// ScoreWeights parameterizes the router's candidate scoring formula (§4.5
// step 4).
type ScoreWeights struct {
	CollisionWeight      float64 `yaml:"collisionWeight" json:"collisionWeight"`
	TurnBase             float64 `yaml:"turnBase" json:"turnBase"`
	TurnBundleCap        float64 `yaml:"turnBundleCap" json:"turnBundleCap"`
	TurnBundleScale      float64 `yaml:"turnBundleScale" json:"turnBundleScale"`
	LengthWeight         float64 `yaml:"lengthWeight" json:"lengthWeight"`
	TrunkPenaltyWeight   float64 `yaml:"trunkPenaltyWeight" json:"trunkPenaltyWeight"`
	CandidateIndexWeight float64 `yaml:"candidateIndexWeight" json:"candidateIndexWeight"`
}

// Routing controls the obstacle-aware router (§4.5).
type Routing struct {
	ObstaclePadding  float64                             `yaml:"obstaclePadding" json:"obstaclePadding"`
	SourceExit       float64                             `yaml:"sourceExit" json:"sourceExit"`
	TargetEntry      float64                             `yaml:"targetEntry" json:"targetEntry"`
	BranchStub       float64                             `yaml:"branchStub" json:"branchStub"`
	XDetourStep      float64                             `yaml:"xDetourStep" json:"xDetourStep"`
	YDetourStep      float64                             `yaml:"yDetourStep" json:"yDetourStep"`
	HierarchyYOffset float64                             `yaml:"hierarchyYOffset" json:"hierarchyYOffset"`
	Weights          ScoreWeights                        `yaml:"weights" json:"weights"`
	EdgeOffsets      map[semgraph.EdgeKind]EdgeOffsetProfile `yaml:"edgeOffsets" json:"edgeOffsets"`
	DefaultOffset    EdgeOffsetProfile                   `yaml:"defaultOffset" json:"defaultOffset"`
}

// OffsetFor returns the styled-candidate offset profile for kind, falling
// back to DefaultOffset for kinds with no specific entry.
func (r Routing) OffsetFor(kind semgraph.EdgeKind) EdgeOffsetProfile {
	if p, ok := r.EdgeOffsets[kind]; ok {
		return p
	}
	return r.DefaultOffset
}

// CertaintyOpacities controls the render adapter's opacity-by-certainty
// table (§4.6).
type CertaintyOpacities struct {
	Uncertain float64 `yaml:"uncertain" json:"uncertain"`
	Probable  float64 `yaml:"probable" json:"probable"`
	None      float64 `yaml:"none" json:"none"`
}

// MarkerSizes controls the four marker-size tiers (§4.6).
type MarkerSizes struct {
	Default                float64 `yaml:"default" json:"default"`
	Bundled                float64 `yaml:"bundled" json:"bundled"`
	Inheritance            float64 `yaml:"inheritance" json:"inheritance"`
	TemplateSpecialization float64 `yaml:"templateSpecialization" json:"templateSpecialization"`
}

// Rendering controls the render adapter (§4.6).
type Rendering struct {
	CornerRadius          float64            `yaml:"cornerRadius" json:"cornerRadius"`
	TrunkElbowGutter      float64            `yaml:"trunkElbowGutter" json:"trunkElbowGutter"`
	TrunkJoinMinRadius    float64            `yaml:"trunkJoinMinRadius" json:"trunkJoinMinRadius"`
	TrunkJoinMinDepth     float64            `yaml:"trunkJoinMinDepth" json:"trunkJoinMinDepth"`
	StrokeBase            float64            `yaml:"strokeBase" json:"strokeBase"`
	BundledMaxBoost       float64            `yaml:"bundledMaxBoost" json:"bundledMaxBoost"`
	BundledLogMultiplier  float64            `yaml:"bundledLogMultiplier" json:"bundledLogMultiplier"`
	MultiplicityMaxBoost  float64            `yaml:"multiplicityMaxBoost" json:"multiplicityMaxBoost"`
	MultiplicityStep      float64            `yaml:"multiplicityStep" json:"multiplicityStep"`
	HierarchyBoost        float64            `yaml:"hierarchyBoost" json:"hierarchyBoost"`
	HierarchyOpacityBias  float64            `yaml:"hierarchyOpacityBias" json:"hierarchyOpacityBias"`
	InteractionWidthBoost float64            `yaml:"interactionWidthBoost" json:"interactionWidthBoost"`
	CertaintyOpacity      CertaintyOpacities `yaml:"certaintyOpacity" json:"certaintyOpacity"`
	Markers               MarkerSizes        `yaml:"markers" json:"markers"`
}

// Placement controls the ranked placer (§4.3).
type Placement struct {
	NodeSeparation float64 `yaml:"nodeSeparation" json:"nodeSeparation"`
	RankSeparation float64 `yaml:"rankSeparation" json:"rankSeparation"`
}

// Profile is the complete tunable-constants record (§6). A Profile is
// built once and never mutated; pass it by value or pointer-to-const to
// pipeline stages.
type Profile struct {
	RasterStep float64      `yaml:"rasterStep" json:"rasterStep"`
	Dimensions Dimensions   `yaml:"dimensions" json:"dimensions"`
	Placement  Placement    `yaml:"placement" json:"placement"`
	Bundling   Bundling     `yaml:"bundling" json:"bundling"`
	Routing    Routing      `yaml:"routing" json:"routing"`
	Rendering  Rendering    `yaml:"rendering" json:"rendering"`
}

// Default returns the compiled default parity profile. Every pipeline entry
// point accepts a Profile explicitly (never a package-level global) so
// tests can instantiate alternative profiles without mutating shared state.
func Default() Profile {
	return Profile{
		RasterStep: 8,
		Dimensions: Dimensions{
			CardWidthMin:        160,
			CardWidthMax:        360,
			PillWidthMin:        96,
			PillWidthMax:        240,
			CardHeightMin:       72,
			CardHeightMax:       480,
			PillHeight:          36,
			CharWidth:           7.2,
			SectionHeight:       28,
			MemberRowHeight:     21,
			MemberSectionBaseY:  74,
			MemberSectionRowPad: 10,
		},
		Placement: Placement{
			NodeSeparation: 48,
			RankSeparation: 220,
		},
		Bundling: Bundling{
			MinEdgesForBundling: 8,
			LaneBandHeightBase:  48,
			LaneBandHeightDense: 24,
			DensityThreshold:    2.0,
			MinGroupSizeTable: []MinGroupRule{
				{MinDensity: 3.0, MinDepth: 4, MinGroupSize: 3},
				{MinDensity: 1.5, MinDepth: 2, MinGroupSize: 4},
			},
			DefaultMinGroupSize: 4,
			MinTrunkGap:         40,
			MaxTrunkGap:         220,
			DensityGapBoost:     12,
			CorridorPadding:     24,
			TrunkGutter:         32,
			SharedTrunkPadding:  20,
			MaxLaneBand:         12,
			FanOutMinBranches:   3,
		},
		Routing: Routing{
			ObstaclePadding:  6,
			SourceExit:       24,
			TargetEntry:      24,
			BranchStub:       16,
			XDetourStep:      40,
			YDetourStep:      40,
			HierarchyYOffset: 64,
			Weights: ScoreWeights{
				CollisionWeight:      1e5,
				TurnBase:             8,
				TurnBundleCap:        24,
				TurnBundleScale:      2.5,
				LengthWeight:         0.035,
				TrunkPenaltyWeight:   0.08,
				CandidateIndexWeight: 0.002,
			},
			EdgeOffsets: map[semgraph.EdgeKind]EdgeOffsetProfile{
				semgraph.KindInheritance: {OriginX: 0, OriginY: -12, TargetX: 0, TargetY: 12, VerticalOffset: 0},
				semgraph.KindCall:        {OriginX: 16, OriginY: 0, TargetX: -16, TargetY: 0, VerticalOffset: 18},
			},
			DefaultOffset: EdgeOffsetProfile{OriginX: 16, OriginY: 0, TargetX: -16, TargetY: 0, VerticalOffset: 18},
		},
		Rendering: Rendering{
			CornerRadius:          6,
			TrunkElbowGutter:      10,
			TrunkJoinMinRadius:    4,
			TrunkJoinMinDepth:     8,
			StrokeBase:            1.5,
			BundledMaxBoost:       3.0,
			BundledLogMultiplier:  1.2,
			MultiplicityMaxBoost:  2.0,
			MultiplicityStep:      0.4,
			HierarchyBoost:        0.5,
			HierarchyOpacityBias:  0.05,
			InteractionWidthBoost: 10,
			CertaintyOpacity: CertaintyOpacities{
				Uncertain: 0.45,
				Probable:  0.75,
				None:      1.0,
			},
			Markers: MarkerSizes{
				Default:                8,
				Bundled:                11,
				Inheritance:            10,
				TemplateSpecialization: 12,
			},
		},
	}
}

// Validate reports the first structural problem found in the profile (zero
// or negative values where the pipeline divides by or clamps against a
// field), mirroring the teacher's Config.Validate pattern.
func (p Profile) Validate() error {
	if p.RasterStep <= 0 {
		return fmt.Errorf("parity: rasterStep must be > 0, got %v", p.RasterStep)
	}
	if p.Dimensions.CardWidthMin <= 0 || p.Dimensions.CardWidthMax < p.Dimensions.CardWidthMin {
		return fmt.Errorf("parity: invalid card width bounds [%v, %v]", p.Dimensions.CardWidthMin, p.Dimensions.CardWidthMax)
	}
	if p.Dimensions.PillWidthMin <= 0 || p.Dimensions.PillWidthMax < p.Dimensions.PillWidthMin {
		return fmt.Errorf("parity: invalid pill width bounds [%v, %v]", p.Dimensions.PillWidthMin, p.Dimensions.PillWidthMax)
	}
	if p.Dimensions.CardHeightMin <= 0 || p.Dimensions.CardHeightMax < p.Dimensions.CardHeightMin {
		return fmt.Errorf("parity: invalid card height bounds [%v, %v]", p.Dimensions.CardHeightMin, p.Dimensions.CardHeightMax)
	}
	if p.Bundling.MinTrunkGap <= 0 || p.Bundling.MaxTrunkGap < p.Bundling.MinTrunkGap {
		return fmt.Errorf("parity: invalid trunk gap bounds [%v, %v]", p.Bundling.MinTrunkGap, p.Bundling.MaxTrunkGap)
	}
	if p.Bundling.DefaultMinGroupSize <= 0 {
		return fmt.Errorf("parity: defaultMinGroupSize must be > 0, got %d", p.Bundling.DefaultMinGroupSize)
	}
	if p.Routing.ObstaclePadding < 0 {
		return fmt.Errorf("parity: obstaclePadding must be >= 0, got %v", p.Routing.ObstaclePadding)
	}
	if p.Rendering.StrokeBase <= 0 {
		return fmt.Errorf("parity: strokeBase must be > 0, got %v", p.Rendering.StrokeBase)
	}
	return nil
}

// MinGroupSizeFor resolves the bundler's minimum-group-size table (§4.4 step
// 4) for the given depth and density: the first row, in (MinDensity desc,
// MinDepth desc) order, whose MinDepth <= depth or MinDensity <= density.
func (b Bundling) MinGroupSizeFor(depth int, density float64) int {
	rows := append([]MinGroupRule(nil), b.MinGroupSizeTable...)
	sortMinGroupRules(rows)
	for _, row := range rows {
		if row.MinDepth <= depth || row.MinDensity <= density {
			return row.MinGroupSize
		}
	}
	return b.DefaultMinGroupSize
}

func sortMinGroupRules(rows []MinGroupRule) {
	// Small fixed tables: simple insertion sort keeps the dependency-free
	// stdlib-only posture and is plenty fast for the handful of rows a
	// profile configures.
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && lessMinGroupRule(rows[j], rows[j-1]); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

func lessMinGroupRule(a, b MinGroupRule) bool {
	if a.MinDensity != b.MinDensity {
		return a.MinDensity > b.MinDensity
	}
	return a.MinDepth > b.MinDepth
}
