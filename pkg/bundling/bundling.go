// Package bundling implements the layout pipeline's third stage (§4.4):
// grouping co-directional, non-hierarchy edges into shared trunks so the
// rendered diagram reads like a Sourcetrail plot instead of a rat's nest of
// individually-routed lines.
//
// Grounded on the fan-in/fan-out face-load-balancing pass of the reference
// orthogonal router (`d2wueortho` gridroute.go, studied in
// _examples/other_examples/): that router picks a shared face per group of
// edges converging on the same side of a node; this module generalizes the
// idea from per-edge face selection to a per-group trunk-coordinate
// selection along the rank axis.
package bundling

import (
	"math"
	"sort"
	"strconv"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// Bundle groups qualifying flow edges into shared trunks. Nodes must already
// carry placed x/y coordinates (i.e. elems has been through pkg/placement).
func Bundle(elems semgraph.LayoutElements, direction semgraph.LayoutDirection, profile parity.Profile) semgraph.LayoutElements {
	if len(elems.Edges) < profile.Bundling.MinEdgesForBundling {
		return elems
	}

	byID := make(map[string]semgraph.NodePlacement, len(elems.Nodes))
	for _, n := range elems.Nodes {
		byID[n.ID] = n
	}

	depth := maxAbsXRank(elems.Nodes)
	density := float64(depth)*0.45 + float64(len(elems.Nodes))/90 + float64(len(elems.Edges))/180
	laneBandHeight := profile.Bundling.LaneBandHeightBase
	if density >= profile.Bundling.DensityThreshold {
		laneBandHeight = profile.Bundling.LaneBandHeightDense
	}

	type groupKey struct {
		kind     semgraph.EdgeKind
		pairID   string
		laneBand int
	}
	groups := make(map[groupKey][]int) // index into elems.Edges

	passThrough := make([]semgraph.RoutedEdge, 0, len(elems.Edges))
	candidateIdx := make([]int, 0, len(elems.Edges))

	for i, e := range elems.Edges {
		if e.Family == semgraph.FamilyHierarchy || e.RouteKind == semgraph.RouteHierarchy {
			passThrough = append(passThrough, e)
			continue
		}
		src, srcOK := byID[e.Source]
		dst, dstOK := byID[e.Target]
		if !srcOK || !dstOK {
			passThrough = append(passThrough, e)
			continue
		}
		dy := crossCoord(dst, direction) - crossCoord(src, direction)
		laneBand := clampInt(int(math.Round(math.Abs(dy)/nonZero(laneBandHeight))), 0, profile.Bundling.MaxLaneBand)
		key := groupKey{kind: e.Kind, pairID: unorderedPair(e.Source, e.Target), laneBand: laneBand}
		groups[key] = append(groups[key], i)
		candidateIdx = append(candidateIdx, i)
	}

	minGroupSize := profile.Bundling.MinGroupSizeFor(depth, density)

	bundled := make([]semgraph.RoutedEdge, 0, len(candidateIdx))
	handled := make(map[int]bool, len(candidateIdx))

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		if keys[i].pairID != keys[j].pairID {
			return keys[i].pairID < keys[j].pairID
		}
		return keys[i].laneBand < keys[j].laneBand
	})

	for _, key := range keys {
		idxs := groups[key]
		if len(idxs) < 2 || len(idxs) < minGroupSize {
			for _, idx := range idxs {
				bundled = append(bundled, elems.Edges[idx])
				handled[idx] = true
			}
			continue
		}
		group := make([]semgraph.RoutedEdge, len(idxs))
		for i, idx := range idxs {
			group[i] = elems.Edges[idx]
			handled[idx] = true
		}
		channel := buildChannel(group, byID, key.pairID, string(key.kind)+":"+key.pairID+":"+strconv.Itoa(key.laneBand), direction, profile)
		bundled = append(bundled, channel...)
	}

	for _, idx := range candidateIdx {
		if !handled[idx] {
			bundled = append(bundled, elems.Edges[idx])
		}
	}

	out := append(passThrough, bundled...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return semgraph.LayoutElements{Nodes: elems.Nodes, Edges: out, CenterNodeID: elems.CenterNodeID}
}

func maxAbsXRank(nodes []semgraph.NodePlacement) int {
	max := 0.0
	for _, n := range nodes {
		if v := math.Abs(n.XRank); v > max {
			max = v
		}
	}
	return int(max)
}

func rankCoord(n semgraph.NodePlacement, direction semgraph.LayoutDirection) float64 {
	if direction == semgraph.DirectionVertical {
		return n.Y
	}
	return n.X
}

func crossCoord(n semgraph.NodePlacement, direction semgraph.LayoutDirection) float64 {
	if direction == semgraph.DirectionVertical {
		return n.X
	}
	return n.Y
}

func rankMin(n semgraph.NodePlacement, direction semgraph.LayoutDirection) float64 {
	return rankCoord(n, direction)
}

func rankMax(n semgraph.NodePlacement, direction semgraph.LayoutDirection) float64 {
	if direction == semgraph.DirectionVertical {
		return n.Y + n.Height
	}
	return n.X + n.Width
}

func unorderedPair(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "<->" + b
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// buildChannel implements §4.4 steps 5 and 6 for one qualifying group.
func buildChannel(group []semgraph.RoutedEdge, byID map[string]semgraph.NodePlacement, pairID, channelSuffix string, direction semgraph.LayoutDirection, profile parity.Profile) []semgraph.RoutedEdge {
	anchors := make([]float64, 0, len(group))
	counters := make([]float64, 0, len(group))
	crosses := make([]float64, 0, len(group)*2)

	for _, e := range group {
		src, dst := byID[e.Source], byID[e.Target]
		targetIsAhead := rankCoord(dst, direction) >= rankCoord(src, direction)
		var anchor, counter float64
		if targetIsAhead {
			anchor = rankMax(src, direction)
			counter = rankMin(dst, direction)
		} else {
			anchor = rankMin(src, direction)
			counter = rankMax(dst, direction)
		}
		anchors = append(anchors, anchor)
		counters = append(counters, counter)
		crosses = append(crosses, crossCoord(src, direction), crossCoord(dst, direction))
	}

	anchor := median(anchors)
	counter := median(counters)
	dir := sign(counter - anchor)
	b := profile.Bundling
	gap := clampFloat(math.Abs(counter-anchor)*0.34+b.DensityGapBoost, b.MinTrunkGap, b.MaxTrunkGap)
	desired := anchor + dir*gap

	lo, hi := math.Min(anchor, counter)+b.CorridorPadding, math.Max(anchor, counter)-b.CorridorPadding
	var trunkCoord float64
	if lo > hi {
		trunkCoord = anchor + dir*b.TrunkGutter
	} else {
		trunkCoord = clampFloat(desired, lo, hi)
	}

	minCross, maxCross := crosses[0], crosses[0]
	for _, c := range crosses {
		if c < minCross {
			minCross = c
		}
		if c > maxCross {
			maxCross = c
		}
	}

	weight := 0
	for _, e := range group {
		weight += maxIntVal(1, e.Multiplicity)
	}

	sourceHandles := distinctSorted(group, func(e semgraph.RoutedEdge) string { return e.SourceHandle })
	targetHandles := distinctSorted(group, func(e semgraph.RoutedEdge) string { return e.TargetHandle })

	channelID := "channel:" + channelSuffix
	trunkCoordCopy := trunkCoord

	out := make([]semgraph.RoutedEdge, 0, len(group))
	for _, e := range group {
		e.RouteKind = semgraph.RouteFlowTrunk
		tc := trunkCoordCopy
		e.TrunkCoord = &tc
		id := channelID
		e.ChannelID = &id
		pid := pairID
		e.ChannelPairID = &pid
		w := weight
		e.ChannelWeight = &w
		e.BundleCount = weight
		e.SharedTrunkPoints = sharedTrunkPoints(trunkCoord, minCross, maxCross, direction, profile.Bundling.SharedTrunkPadding)
		so := sourceHandles[e.SourceHandle]
		e.SourceMemberOrder = &so
		to := targetHandles[e.TargetHandle]
		e.TargetMemberOrder = &to
		out = append(out, e)
	}
	return out
}

func maxIntVal(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func distinctSorted(group []semgraph.RoutedEdge, key func(semgraph.RoutedEdge) string) map[string]int {
	seen := make(map[string]struct{})
	for _, e := range group {
		seen[key(e)] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	ranks := make(map[string]int, len(values))
	for i, v := range values {
		ranks[v] = i
	}
	return ranks
}

func sharedTrunkPoints(trunkCoord, minCross, maxCross float64, direction semgraph.LayoutDirection, padding float64) []geometry.Point {
	lo, hi := minCross-padding, maxCross+padding
	if direction == semgraph.DirectionVertical {
		return []geometry.Point{{X: lo, Y: trunkCoord}, {X: hi, Y: trunkCoord}}
	}
	return []geometry.Point{{X: trunkCoord, Y: lo}, {X: trunkCoord, Y: hi}}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
