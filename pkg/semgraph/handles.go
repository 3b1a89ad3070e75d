package semgraph

import "strings"

// Side is the perimeter side of a node rectangle a handle resolves to in the
// pipeline's "horizontal" virtual frame (see pkg/routing's axis swap).
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// rotateForVertical implements the handle grammar's direction-dependent side
// table (§3): a 90-degree rotation applied when the layout direction is
// Vertical, so the router's axis-swap trick (reason in the horizontal frame
// always, unswap at emission) stays correct without a second table.
var rotateForVertical = map[Side]Side{
	SideRight:  SideBottom,
	SideBottom: SideLeft,
	SideLeft:   SideTop,
	SideTop:    SideRight,
}

// HandleRole distinguishes which endpoint of an edge a handle anchors.
type HandleRole string

const (
	RoleSource HandleRole = "source"
	RoleTarget HandleRole = "target"
)

// MemberHandle builds the handle identifier for an edge endpoint pinned to a
// specific member row of a card node.
func MemberHandle(role HandleRole, memberID string) string {
	return string(role) + "-member-" + memberID
}

// NodeHandle builds a plain or side-suffixed node handle identifier.
// suffix may be "", "top", "bottom", "left", or "right".
func NodeHandle(role HandleRole, suffix Side) string {
	if suffix == "" {
		return string(role) + "-node"
	}
	return string(role) + "-node-" + string(suffix)
}

// HandleMemberID returns the member id encoded in a source-member-<id> or
// target-member-<id> handle, and true if the handle is member-shaped.
func HandleMemberID(handle string) (string, bool) {
	for _, prefix := range []string{"source-member-", "target-member-"} {
		if strings.HasPrefix(handle, prefix) {
			return handle[len(prefix):], true
		}
	}
	return "", false
}

// HandleRoleOf returns the role (source/target) a handle belongs to.
func HandleRoleOf(handle string) HandleRole {
	if strings.HasPrefix(handle, "target-") {
		return RoleTarget
	}
	return RoleSource
}

// HorizontalSide resolves the perimeter side a handle anchors to in the
// pipeline's horizontal reasoning frame, before any vertical-direction
// rotation (§3's handle grammar).
func HorizontalSide(handle string) Side {
	if _, ok := HandleMemberID(handle); ok {
		if HandleRoleOf(handle) == RoleSource {
			return SideRight
		}
		return SideLeft
	}

	switch {
	case strings.HasSuffix(handle, "-top"):
		return SideTop
	case strings.HasSuffix(handle, "-bottom"):
		return SideBottom
	case strings.HasSuffix(handle, "-right"):
		return SideRight
	case strings.HasSuffix(handle, "-left"):
		return SideLeft
	}

	if HandleRoleOf(handle) == RoleSource {
		return SideRight
	}
	return SideLeft
}

// ResolveSide resolves the perimeter side a handle anchors to for the given
// layout direction, applying the vertical rotation when needed.
func ResolveSide(handle string, direction LayoutDirection) Side {
	side := HorizontalSide(handle)
	if direction == DirectionVertical {
		return rotateForVertical[side]
	}
	return side
}
