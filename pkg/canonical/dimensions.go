package canonical

import (
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// estimateDimensions implements §4.2 step 7: card/pill width scales with the
// longest label in play, card height scales with visibility sections plus
// member count, pill height is constant.
func estimateDimensions(nodes []*canonNode, memberRows map[string][]semgraph.Member, profile parity.Profile) {
	dims := profile.Dimensions
	for _, n := range nodes {
		members := memberRows[n.canonicalID]
		if n.nodeStyle == semgraph.StyleCard {
			longest := len(n.label)
			for _, m := range members {
				if len(m.Label) > longest {
					longest = len(m.Label)
				}
			}
			n.width = clamp(dims.CharWidth*float64(longest)+32, dims.CardWidthMin, dims.CardWidthMax)

			sections := distinctVisibilities(members)
			n.height = clamp(
				dims.MemberSectionBaseY+float64(sections)*dims.SectionHeight+float64(len(members))*dims.MemberRowHeight+dims.MemberSectionRowPad,
				dims.CardHeightMin, dims.CardHeightMax,
			)
		} else {
			n.width = clamp(dims.CharWidth*float64(len(n.label))+24, dims.PillWidthMin, dims.PillWidthMax)
			n.height = dims.PillHeight
		}
	}
}

func distinctVisibilities(members []semgraph.Member) int {
	if len(members) == 0 {
		return 0
	}
	seen := make(map[semgraph.MemberVisibility]struct{}, 4)
	for _, m := range members {
		seen[m.Visibility] = struct{}{}
	}
	return len(seen)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
