// Package canonical implements the layout pipeline's first stage (§4.2):
// member extraction into host cards, synthetic host synthesis for
// qualifier-separated symbols, signed-depth assignment, node/edge folding,
// in-column ordering, dimension estimation, and fan-out virtual bundling.
// It never performs I/O and never fails: malformed inputs degrade to empty
// or pass-through output rather than an error, matching the teacher's
// synthesis-package retry-then-degrade posture (pkg/synthesis/grammar.go)
// adapted to a single deterministic pass instead of retried random attempts.
package canonical

import (
	"sort"
	"strings"

	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// Options controls canonical-builder behavior that the pipeline's top-level
// Options expose (a subset relevant to this stage).
type Options struct {
	BundleFanOutEdges bool
}

// Result is the canonical builder's output: an unplaced LayoutElements plus
// the diagnostic context §4.2's error semantics call for.
type Result struct {
	Elements           semgraph.LayoutElements
	RejectedSeedReason string
	DroppedEdgeIDs     []string
}

// Build runs the canonical builder. When resp carries a recognized,
// internally consistent canonical_layout seed, that seed is adapted
// directly (skipping recomputation) per §4.2's short-circuit; otherwise (or
// when the seed is rejected) the builder recomputes from the raw graph.
func Build(resp semgraph.GraphResponse, opts Options, profile parity.Profile) Result {
	if resp.CanonicalLayout != nil {
		elems, err := fromSeed(*resp.CanonicalLayout, resp)
		if err == nil {
			return Result{Elements: elems}
		}
		raw := buildFromRaw(resp, opts, profile)
		raw.RejectedSeedReason = err.Error()
		return raw
	}
	return buildFromRaw(resp, opts, profile)
}

// builder carries the mutable bookkeeping threaded through the builder's ordered
// steps; it exists so each step method stays a short, testable unit instead
// of one monolithic function.
type builder struct {
	resp    semgraph.GraphResponse
	opts    Options
	profile parity.Profile

	nodeByID map[string]semgraph.Node
	order    []string // insertion order of nodeByID, for deterministic synthesis

	isMember      map[string]bool            // raw node id -> is a member (not a standalone node)
	memberOf      map[string]string          // raw member id -> raw host id
	membersByHost map[string][]string        // raw host id -> raw member ids (label-unsorted, insertion order)
	droppedEdges  []string
}

func buildFromRaw(resp semgraph.GraphResponse, opts Options, profile parity.Profile) Result {
	b := &builder{
		resp:          resp,
		opts:          opts,
		profile:       profile,
		nodeByID:      make(map[string]semgraph.Node, len(resp.Nodes)),
		isMember:      make(map[string]bool),
		memberOf:      make(map[string]string),
		membersByHost: make(map[string][]string),
	}
	for _, n := range resp.Nodes {
		b.nodeByID[n.ID] = n
		b.order = append(b.order, n.ID)
	}

	b.extractMembers()
	b.synthesizeHosts()
	signedDepth := b.assignSignedDepth()

	canonNodes, rawToCanonical, memberRows := b.foldNodes(signedDepth)
	edges := b.foldEdges(rawToCanonical)

	assignColumnOrder(canonNodes)
	estimateDimensions(canonNodes, memberRows, profile)

	if opts.BundleFanOutEdges {
		canonNodes, edges = applyFanOutBundling(canonNodes, edges, profile)
	}

	nodes := make([]semgraph.NodePlacement, 0, len(canonNodes))
	for _, cn := range canonNodes {
		nodes = append(nodes, cn.toPlacement(memberRows[cn.canonicalID]))
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].XRank != nodes[j].XRank {
			return nodes[i].XRank < nodes[j].XRank
		}
		if nodes[i].YRank != nodes[j].YRank {
			return nodes[i].YRank < nodes[j].YRank
		}
		return nodes[i].ID < nodes[j].ID
	})

	centerCanonical := rawToCanonical[resp.CenterID]
	if centerCanonical == "" {
		centerCanonical = resp.CenterID
	}

	return Result{
		Elements: semgraph.LayoutElements{
			Nodes:        nodes,
			Edges:        edges,
			CenterNodeID: centerCanonical,
		},
		DroppedEdgeIDs: b.droppedEdges,
	}
}

// resolveHost follows the member->host chain (at most one hop: members are
// never themselves hosts) to the raw node id that stands in for id in the
// active node graph.
func (b *builder) resolveHost(id string) string {
	if host, ok := b.memberOf[id]; ok {
		return host
	}
	return id
}

// extractMembers implements §4.2 step 1: every MEMBER edge with exactly one
// structural endpoint attaches the other endpoint as a member of that host.
func (b *builder) extractMembers() {
	edges := append([]semgraph.Edge(nil), b.resp.Edges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for _, e := range edges {
		if e.Kind != semgraph.KindMember {
			continue
		}
		src, srcOK := b.nodeByID[e.Source]
		dst, dstOK := b.nodeByID[e.Target]
		if !srcOK || !dstOK {
			continue
		}
		srcStructural := src.Kind.IsStructural()
		dstStructural := dst.Kind.IsStructural()
		if srcStructural == dstStructural {
			continue // exactly one endpoint must be structural
		}
		host, member := src, dst
		if dstStructural {
			host, member = dst, src
		}
		if b.isMember[member.ID] {
			continue // already attached to an earlier host
		}
		b.isMember[member.ID] = true
		b.memberOf[member.ID] = host.ID
		b.membersByHost[host.ID] = append(b.membersByHost[host.ID], member.ID)
	}
}

// synthesizeHosts implements §4.2 step 2: a non-member, non-structural node
// whose label contains a qualifier separator gets a synthesized CLASS host
// when no structural node already carries the prefix label.
func (b *builder) synthesizeHosts() {
	ids := append([]string(nil), b.order...)
	sort.Strings(ids)

	for _, id := range ids {
		n := b.nodeByID[id]
		if b.isMember[id] || n.Kind.IsStructural() {
			continue
		}
		sep := strings.LastIndex(n.Label, "::")
		if sep < 0 {
			continue
		}
		hostLabel := n.Label[:sep]
		hostID := b.findStructuralByLabel(hostLabel)
		if hostID == "" {
			hostID = "synthetic-host:" + hostLabel
			depth := n.Depth - 1
			if depth < 1 {
				depth = 1
			}
			synthetic := semgraph.Node{
				ID:    hostID,
				Label: hostLabel,
				Kind:  semgraph.KindClass,
				Depth: depth,
			}
			b.nodeByID[hostID] = synthetic
			b.order = append(b.order, hostID)
		}
		b.isMember[id] = true
		b.memberOf[id] = hostID
		b.membersByHost[hostID] = append(b.membersByHost[hostID], id)
	}
}

func (b *builder) findStructuralByLabel(label string) string {
	for _, id := range b.order {
		n := b.nodeByID[id]
		if n.Kind.IsStructural() && n.Label == label {
			return id
		}
	}
	return ""
}

// assignSignedDepth implements §4.2 step 3 by breadth-first propagation from
// the center across non-MEMBER edges (resolved through the member->host
// mapping): the center is 0; its direct neighbors take the sign of whichever
// role the center played on the connecting edge; every further node inherits
// the sign of the neighbor it was first reached from. This generalizes the
// spec's literal "edge touches the center" rule to the whole connected
// component so every node gets a deterministic column side, not just the
// center's immediate neighbors (see DESIGN.md).
func (b *builder) assignSignedDepth() map[string]int {
	centerHostID := b.resolveHost(b.resp.CenterID)
	signed := map[string]int{centerHostID: 0}
	visited := map[string]bool{centerHostID: true}

	type propagation struct {
		edgeID string
		from   string
		to     string
		sign   int // +1 if from is edge's source, -1 if from is edge's target
	}

	edges := append([]semgraph.Edge(nil), b.resp.Edges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	resolvedEdges := make([]struct {
		id     string
		source string
		target string
	}, 0, len(edges))
	for _, e := range edges {
		if e.Kind == semgraph.KindMember {
			continue
		}
		resolvedEdges = append(resolvedEdges, struct {
			id     string
			source string
			target string
		}{e.ID, b.resolveHost(e.Source), b.resolveHost(e.Target)})
	}

	for changed := true; changed; {
		changed = false
		var frontier []propagation
		for _, re := range resolvedEdges {
			srcVisited := visited[re.source]
			dstVisited := visited[re.target]
			if srcVisited && !dstVisited {
				frontier = append(frontier, propagation{re.id, re.source, re.target, 1})
			} else if dstVisited && !srcVisited {
				frontier = append(frontier, propagation{re.id, re.target, re.source, -1})
			}
		}
		sort.Slice(frontier, func(i, j int) bool { return frontier[i].edgeID < frontier[j].edgeID })
		for _, p := range frontier {
			if visited[p.to] {
				continue
			}
			bias := p.sign
			if signed[p.from] != 0 {
				bias = sign(signed[p.from])
			}
			node := b.nodeByID[p.to]
			magnitude := node.Depth
			if magnitude < 1 {
				magnitude = 1
			}
			signed[p.to] = bias * magnitude
			visited[p.to] = true
			changed = true
		}
	}

	// Disconnected nodes (no non-member path to the center) still need a
	// deterministic column; they default to the positive (right/below) side.
	for _, id := range b.order {
		if b.isMember[id] || visited[id] {
			continue
		}
		node := b.nodeByID[id]
		magnitude := node.Depth
		if magnitude < 1 {
			magnitude = 1
		}
		signed[id] = magnitude
	}

	return signed
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
