package routing

import (
	"math"

	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// selectBest implements §4.5 steps 4-5: score every candidate and return the
// lowest-scoring polyline, breaking ties on candidate index.
func selectBest(candidates []candidate, obstacles []geometry.Rect, e semgraph.RoutedEdge, trunk *float64, profile parity.Profile) []geometry.Point {
	bestScore := math.Inf(1)
	var best []geometry.Point

	for _, c := range candidates {
		s := scoreCandidate(c, obstacles, e, trunk, profile)
		if s < bestScore {
			bestScore = s
			best = c.points
		}
	}
	return best
}

func scoreCandidate(c candidate, obstacles []geometry.Rect, e semgraph.RoutedEdge, trunk *float64, profile parity.Profile) float64 {
	w := profile.Routing.Weights

	collisions := countCollisions(c.points, obstacles)
	turns := float64(maxInt(0, len(c.points)-2))

	weightBias := 1.0
	if e.ChannelWeight != nil && float64(*e.ChannelWeight) > weightBias {
		weightBias = float64(*e.ChannelWeight)
	}
	if float64(e.BundleCount) > weightBias {
		weightBias = float64(e.BundleCount)
	}
	turnCost := w.TurnBase + math.Min(w.TurnBundleCap, weightBias*w.TurnBundleScale)

	length := geometry.RouteLength(c.points)

	trunkPenalty := 0.0
	if trunk != nil {
		minDist := math.Inf(1)
		for _, p := range interiorPoints(c.points) {
			d := math.Abs(p.X - *trunk)
			if d < minDist {
				minDist = d
			}
		}
		if math.IsInf(minDist, 1) {
			minDist = 0
		}
		trunkPenalty = minDist * w.TrunkPenaltyWeight
	}

	return float64(collisions)*w.CollisionWeight +
		turns*turnCost +
		length*w.LengthWeight +
		trunkPenalty +
		float64(c.index)*w.CandidateIndexWeight
}

func interiorPoints(points []geometry.Point) []geometry.Point {
	if len(points) <= 2 {
		return nil
	}
	return points[1 : len(points)-1]
}

func countCollisions(points []geometry.Point, obstacles []geometry.Rect) int {
	count := 0
	for i := 0; i < len(points)-1; i++ {
		for _, rect := range obstacles {
			if geometry.SegmentIntersectsRect(points[i], points[i+1], rect) {
				count++
			}
		}
	}
	return count
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
