package canonical

import (
	"sort"
	"strings"

	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// inferVisibility implements §4.2 step 1's visibility cascade: explicit
// member_access wins, then kind membership in the public/private kind sets,
// then a label-pattern heuristic.
func inferVisibility(n semgraph.Node) semgraph.MemberVisibility {
	if n.MemberAccess != nil {
		switch strings.ToLower(string(*n.MemberAccess)) {
		case "public":
			return semgraph.VisibilityPublic
		case "protected":
			return semgraph.VisibilityProtected
		case "private":
			return semgraph.VisibilityPrivate
		case "default":
			return semgraph.VisibilityDefault
		}
	}
	if n.Kind.IsPrivateMemberKind() {
		return semgraph.VisibilityPrivate
	}
	if n.Kind.IsPublicMemberKind() {
		return semgraph.VisibilityPublic
	}
	if isPrivateByLabel(n.Label) {
		return semgraph.VisibilityPrivate
	}
	return semgraph.VisibilityPublic
}

func isPrivateByLabel(label string) bool {
	if strings.HasPrefix(label, "_") || strings.HasSuffix(label, "_") {
		return true
	}
	if !strings.HasPrefix(label, "m_") {
		return false
	}
	rest := label[2:]
	if rest == "" {
		return false
	}
	r := rune(rest[0])
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// buildMembers resolves a host's raw member ids into Member values, sorted
// by label per §3.
func (b *builder) buildMembers(rawHostIDs []string) []semgraph.Member {
	var rawMemberIDs []string
	seen := make(map[string]bool)
	for _, hostID := range rawHostIDs {
		for _, memberID := range b.membersByHost[hostID] {
			if seen[memberID] {
				continue
			}
			seen[memberID] = true
			rawMemberIDs = append(rawMemberIDs, memberID)
		}
	}
	members := make([]semgraph.Member, 0, len(rawMemberIDs))
	for _, id := range rawMemberIDs {
		n := b.nodeByID[id]
		members = append(members, semgraph.Member{
			ID:         id,
			Label:      n.Label,
			Kind:       n.Kind,
			Visibility: inferVisibility(n),
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Label < members[j].Label })
	return members
}
