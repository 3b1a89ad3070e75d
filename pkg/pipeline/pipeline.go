// Package pipeline orchestrates the complete layout pipeline (§4): the
// canonical builder, ranked placer, adaptive bundler, obstacle-aware
// router, render adapter, and diagnostics pass, in that order, over a
// single GraphResponse.
//
// Grounded on the teacher's DefaultGenerator.Generate (pkg/dungeon/dungeon.go):
// a single ordered method that validates its input and runs each stage in
// turn. Unlike the teacher's generator, the core stages here never block
// and never fail (§7), so ctx is checked once at entry, for API symmetry
// with Generate(ctx, cfg), not because any stage can suspend (§5), and
// that single check is this package's only source of a non-nil error.
package pipeline

import (
	"context"

	"github.com/dshills/semgraph-layout/pkg/bundling"
	"github.com/dshills/semgraph-layout/pkg/canonical"
	"github.com/dshills/semgraph-layout/pkg/diagnostics"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/placement"
	"github.com/dshills/semgraph-layout/pkg/render"
	"github.com/dshills/semgraph-layout/pkg/routing"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// Logger is the minimal injected logging interface debugChannels/debugRoutes
// write through (§6's "Ambient interfaces").
type Logger interface {
	Debugf(format string, args ...any)
}

// noopLogger discards every message; the default when Options.Logger is nil.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}

// Options controls pipeline behavior (§6).
type Options struct {
	LayoutDirection   semgraph.LayoutDirection
	BundleFanOutEdges bool
	DebugChannels     bool
	DebugRoutes       bool
	Logger            Logger
}

// Diagnostics is the pipeline's diagnostic output, combining the router's
// post-hoc inspection report with the canonical builder's error-recovery
// context (§7).
type Diagnostics struct {
	Report             diagnostics.Report
	RejectedSeedReason string
	DroppedEdgeIDs     []string
}

// RenderSpecs is the render adapter's per-edge output (§4.6), returned
// alongside LayoutElements so a caller doesn't need to re-derive it.
type RenderSpecs = []render.EdgeRenderSpec

// Result is the complete output of one pipeline run.
type Result struct {
	Elements    semgraph.LayoutElements
	RenderSpecs RenderSpecs
	Diagnostics Diagnostics
}

// Run executes the full pipeline: canonicalize, place, bundle, route,
// render, diagnose. It is the pure core's only entry point with an error
// return, and that return is reserved for context cancellation; the core
// stages themselves never fail (§7); malformed input is rejected earlier,
// at the config loader boundary (§4.8).
func Run(ctx context.Context, resp semgraph.GraphResponse, opts Options, profile parity.Profile) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	direction := opts.LayoutDirection
	if direction == "" {
		direction = semgraph.DirectionHorizontal
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	canonResult := canonical.Build(resp, canonical.Options{BundleFanOutEdges: opts.BundleFanOutEdges}, profile)
	if canonResult.RejectedSeedReason != "" {
		logger.Debugf("canonical: rejected seed: %s", canonResult.RejectedSeedReason)
	}
	if len(canonResult.DroppedEdgeIDs) > 0 {
		logger.Debugf("canonical: dropped %d dangling edge(s): %v", len(canonResult.DroppedEdgeIDs), canonResult.DroppedEdgeIDs)
	}

	placed := placement.Place(canonResult.Elements, direction, profile)
	bundled := bundling.Bundle(placed, direction, profile)
	if opts.DebugChannels {
		logger.Debugf("bundling: %d edge(s) assigned a channel", countChanneled(bundled))
	}

	routed := routing.Route(bundled, direction, profile)
	if opts.DebugRoutes {
		for _, e := range routed.Edges {
			logger.Debugf("routing: edge %s -> %d point(s)", e.ID, len(e.RoutePoints))
		}
	}

	specs := render.Render(routed, profile)
	report := diagnostics.Diagnose(routed, direction)

	return Result{
		Elements:    routed,
		RenderSpecs: specs,
		Diagnostics: Diagnostics{
			Report:             report,
			RejectedSeedReason: canonResult.RejectedSeedReason,
			DroppedEdgeIDs:     canonResult.DroppedEdgeIDs,
		},
	}, nil
}

func countChanneled(elems semgraph.LayoutElements) int {
	n := 0
	for _, e := range elems.Edges {
		if e.ChannelID != nil {
			n++
		}
	}
	return n
}
