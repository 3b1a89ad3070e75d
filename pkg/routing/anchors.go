package routing

import (
	"github.com/dshills/semgraph-layout/pkg/geometry"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// virtualRect implements §4.5 step 1's axis virtualization: Vertical layouts
// get their X/Y (and width/height) swapped so every downstream computation
// can reason in a single "horizontal" frame; unvirtualPoint undoes it at
// emission.
func virtualRect(r geometry.Rect, direction semgraph.LayoutDirection) geometry.Rect {
	if direction == semgraph.DirectionVertical {
		return geometry.Rect{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
	}
	return r
}

func virtualPoint(p geometry.Point, direction semgraph.LayoutDirection) geometry.Point {
	if direction == semgraph.DirectionVertical {
		return geometry.Point{X: p.Y, Y: p.X}
	}
	return p
}

// unvirtualPoint is its own inverse: swapping X/Y twice is the identity.
func unvirtualPoint(p geometry.Point, direction semgraph.LayoutDirection) geometry.Point {
	return virtualPoint(p, direction)
}

func virtualRankCoord(v float64, direction semgraph.LayoutDirection) float64 {
	// The trunk coordinate is always recorded along the pipeline's rank axis
	// (X for Horizontal, Y for Vertical); in the virtual frame the rank axis
	// is always X, so Horizontal passes through unchanged and Vertical needs
	// no swap either, since the value already names a position on the one
	// axis that stays put.
	return v
}

// anchorInVirtual resolves a handle identifier to an exact point on node's
// perimeter, in the virtual (always-horizontal) frame (§4.5 step 2).
func anchorInVirtual(node semgraph.NodePlacement, vr geometry.Rect, handle string, direction semgraph.LayoutDirection, profile parity.Profile) geometry.Point {
	side := semgraph.HorizontalSide(handle)

	if memberID, ok := semgraph.HandleMemberID(handle); ok {
		y := vr.Y + memberAnchorY(node, memberID, profile)
		if y > vr.MaxY()-4 {
			y = vr.MaxY() - 4
		}
		if side == semgraph.SideRight {
			return geometry.Point{X: vr.MaxX(), Y: y}
		}
		return geometry.Point{X: vr.MinX(), Y: y}
	}

	switch side {
	case semgraph.SideTop:
		return geometry.Point{X: vr.Center().X, Y: vr.MinY()}
	case semgraph.SideBottom:
		return geometry.Point{X: vr.Center().X, Y: vr.MaxY()}
	case semgraph.SideLeft:
		return geometry.Point{X: vr.MinX(), Y: vr.Center().Y}
	default: // SideRight
		return geometry.Point{X: vr.MaxX(), Y: vr.Center().Y}
	}
}

// memberAnchorY implements the card member-section geometry formula (§4.5
// step 2): y = memberSectionBaseY + sections*sectionHeight +
// memberIndex*memberRowHeight + memberSectionRowPad, where "sections" counts
// the distinct visibility groups (in first-appearance order) preceding the
// member's own group, and "memberIndex" is its ordinal within that group.
func memberAnchorY(node semgraph.NodePlacement, memberID string, profile parity.Profile) float64 {
	groupOrder := make([]semgraph.MemberVisibility, 0, 2)
	groupSeen := make(map[semgraph.MemberVisibility]int)
	indexInGroup := make(map[semgraph.MemberVisibility]int)

	section, index := 0, 0
	found := false
	for _, m := range node.Members {
		if _, ok := groupSeen[m.Visibility]; !ok {
			groupSeen[m.Visibility] = len(groupOrder)
			groupOrder = append(groupOrder, m.Visibility)
		}
		ord := indexInGroup[m.Visibility]
		if m.ID == memberID {
			section = groupSeen[m.Visibility]
			index = ord
			found = true
			break
		}
		indexInGroup[m.Visibility] = ord + 1
	}
	if !found {
		section, index = 0, 0
	}

	d := profile.Dimensions
	return d.MemberSectionBaseY + float64(section)*d.SectionHeight + float64(index)*d.MemberRowHeight + d.MemberSectionRowPad
}
