package bundling

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
	"pgregory.net/rapid"
)

// pairFixture builds two card nodes, "hub" and "peer", connected by n folded
// CALL edges (as the canonical builder would already have produced: one
// RoutedEdge per distinct member-handle pair, direction alternating so the
// fixture also exercises swapped source/target). All n sit at the same lane
// band since both nodes occupy a single fixed position.
func pairFixture(n int) semgraph.LayoutElements {
	nodes := []semgraph.NodePlacement{
		{ID: "hub", X: 0, Y: 200, Width: 160, Height: 200, NodeStyle: semgraph.StyleCard},
		{ID: "peer", X: 400, Y: 200, Width: 160, Height: 200, NodeStyle: semgraph.StyleCard},
	}
	edges := make([]semgraph.RoutedEdge, 0, n)
	for i := 0; i < n; i++ {
		edgeID := fmt.Sprintf("e-%02d", i)
		src, dst := "hub", "peer"
		if i%2 == 1 {
			src, dst = dst, src
		}
		srcHandle := fmt.Sprintf("source-member-m%02d", i)
		dstHandle := fmt.Sprintf("target-member-m%02d", i)
		edges = append(edges, semgraph.RoutedEdge{
			ID: edgeID, SourceEdgeIDs: []string{edgeID},
			Source: src, Target: dst,
			SourceHandle: srcHandle, TargetHandle: dstHandle,
			Kind: semgraph.KindCall, Family: semgraph.FamilyFlow,
			RouteKind: semgraph.RouteDirect, Multiplicity: 1, BundleCount: 1,
		})
	}
	return semgraph.LayoutElements{CenterNodeID: "hub", Nodes: nodes, Edges: edges}
}

func TestBundlePassesThroughBelowMinEdges(t *testing.T) {
	profile := parity.Default()
	elems := pairFixture(3) // below MinEdgesForBundling (8)
	out := Bundle(elems, semgraph.DirectionHorizontal, profile)
	for _, e := range out.Edges {
		if e.RouteKind == semgraph.RouteFlowTrunk {
			t.Fatalf("edge %s unexpectedly bundled below MinEdgesForBundling", e.ID)
		}
	}
}

func TestBundleGroupsParallelEdgesIntoOneChannel(t *testing.T) {
	profile := parity.Default()
	elems := pairFixture(10)
	out := Bundle(elems, semgraph.DirectionHorizontal, profile)

	channels := map[string]int{}
	for _, e := range out.Edges {
		if e.RouteKind != semgraph.RouteFlowTrunk {
			continue
		}
		if e.ChannelID == nil {
			t.Fatalf("edge %s bundled but has no channelId", e.ID)
		}
		channels[*e.ChannelID]++
	}
	if len(channels) != 1 {
		t.Fatalf("expected exactly 1 channel, got %d: %v", len(channels), channels)
	}
	for id, count := range channels {
		if count != 10 {
			t.Fatalf("channel %s has %d members, want 10", id, count)
		}
	}
}

// TestChannelCanonicitySwappedEndpoints is the §8 property: an edge set
// where every direction is flipped (source/target swapped) must still
// resolve to the same channel pair id, since the unordered-pair key scheme
// ignores direction.
func TestChannelCanonicitySwappedEndpoints(t *testing.T) {
	profile := parity.Default()
	fwd := pairFixture(10)

	rev := semgraph.LayoutElements{CenterNodeID: "hub", Nodes: fwd.Nodes}
	for _, e := range fwd.Edges {
		e.Source, e.Target = e.Target, e.Source
		e.SourceHandle, e.TargetHandle = e.TargetHandle, e.SourceHandle
		rev.Edges = append(rev.Edges, e)
	}

	outFwd := Bundle(fwd, semgraph.DirectionHorizontal, profile)
	outRev := Bundle(rev, semgraph.DirectionHorizontal, profile)

	pairIDs := map[string]bool{}
	for _, e := range outFwd.Edges {
		if e.ChannelPairID != nil {
			pairIDs[*e.ChannelPairID] = true
		}
	}
	if len(pairIDs) != 1 {
		t.Fatalf("forward fixture produced %d distinct pair ids, want 1", len(pairIDs))
	}
	for _, e := range outRev.Edges {
		if e.ChannelPairID != nil && !pairIDs[*e.ChannelPairID] {
			t.Fatalf("swapped-endpoint edge %s produced a different channel pair id %s", e.ID, *e.ChannelPairID)
		}
	}
}

func TestBundleIsDeterministic(t *testing.T) {
	profile := parity.Default()
	elems := pairFixture(12)
	a := Bundle(elems, semgraph.DirectionHorizontal, profile)
	b := Bundle(elems, semgraph.DirectionHorizontal, profile)
	if len(a.Edges) != len(b.Edges) {
		t.Fatalf("edge count mismatch: %d vs %d", len(a.Edges), len(b.Edges))
	}
	for i := range a.Edges {
		if a.Edges[i].ID != b.Edges[i].ID {
			t.Fatalf("edge order mismatch at %d: %s vs %s", i, a.Edges[i].ID, b.Edges[i].ID)
		}
		ta, tb := a.Edges[i].TrunkCoord, b.Edges[i].TrunkCoord
		if (ta == nil) != (tb == nil) {
			t.Fatalf("edge %s trunkCoord presence differs across runs", a.Edges[i].ID)
		}
		if ta != nil && *ta != *tb {
			t.Fatalf("edge %s trunkCoord differs across runs: %v vs %v", a.Edges[i].ID, *ta, *tb)
		}
	}
}

func TestBundleOutputSortedByID(t *testing.T) {
	profile := parity.Default()
	out := Bundle(pairFixture(12), semgraph.DirectionHorizontal, profile)
	if !sort.SliceIsSorted(out.Edges, func(i, j int) bool { return out.Edges[i].ID < out.Edges[j].ID }) {
		t.Fatalf("bundled edges not sorted by id")
	}
}

// TestBundlingMonotonicity is the §8 property: widening the same
// (kind, pair, laneBand) group never shrinks its resulting channel weight.
func TestBundlingMonotonicity(t *testing.T) {
	profile := parity.Default()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(8, 20).Draw(rt, "n")
		m := rapid.IntRange(n+1, n+5).Draw(rt, "m")

		smallOut := Bundle(pairFixture(n), semgraph.DirectionHorizontal, profile)
		largeOut := Bundle(pairFixture(m), semgraph.DirectionHorizontal, profile)

		smallWeight := maxChannelWeight(smallOut)
		largeWeight := maxChannelWeight(largeOut)
		if largeWeight < smallWeight {
			rt.Fatalf("larger group (%d edges) produced smaller channel weight (%d) than smaller group (%d edges, weight %d)", m, largeWeight, n, smallWeight)
		}
	})
}

func maxChannelWeight(elems semgraph.LayoutElements) int {
	max := 0
	for _, e := range elems.Edges {
		if e.ChannelWeight != nil && *e.ChannelWeight > max {
			max = *e.ChannelWeight
		}
	}
	return max
}

func TestBundleShuffledInputDeterministic(t *testing.T) {
	profile := parity.Default()
	base := pairFixture(12)
	rnd := rand.New(rand.NewSource(11))

	baseline := Bundle(base, semgraph.DirectionHorizontal, profile)

	for i := 0; i < 4; i++ {
		shuffled := semgraph.LayoutElements{
			CenterNodeID: base.CenterNodeID,
			Nodes:        append([]semgraph.NodePlacement(nil), base.Nodes...),
			Edges:        append([]semgraph.RoutedEdge(nil), base.Edges...),
		}
		rnd.Shuffle(len(shuffled.Edges), func(i, j int) {
			shuffled.Edges[i], shuffled.Edges[j] = shuffled.Edges[j], shuffled.Edges[i]
		})
		out := Bundle(shuffled, semgraph.DirectionHorizontal, profile)
		if len(out.Edges) != len(baseline.Edges) {
			t.Fatalf("shuffle %d: edge count mismatch", i)
		}
		for j := range out.Edges {
			if out.Edges[j].ID != baseline.Edges[j].ID {
				t.Fatalf("shuffle %d: output order differs at %d: %s vs %s", i, j, out.Edges[j].ID, baseline.Edges[j].ID)
			}
		}
	}
}
