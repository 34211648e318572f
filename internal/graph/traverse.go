package graph

import "github.com/kubectl-smart/kubectl-smart/internal/model"

// Direction selects which edge direction Walk follows.
type Direction int

const (
	// Downstream follows outgoing edges: what does this resource affect.
	Downstream Direction = iota
	// Upstream follows incoming edges: what could be causing this resource
	// to fail.
	Upstream
)

// Walk performs a breadth-first traversal from root out to maxDepth hops
// (maxDepth<=0 means unbounded) and returns the reachable vertices in BFS
// order, root excluded. Cycles (owns loops are impossible but selects/
// references can form them across malformed input) are broken by the
// visited set.
func Walk(g *model.Graph, root string, dir Direction, maxDepth int) []*model.ResourceRecord {
	type frontierNode struct {
		uid   string
		depth int
	}

	visited := map[string]bool{root: true}
	queue := []frontierNode{{uid: root, depth: 0}}
	var order []*model.ResourceRecord

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		var edges []model.Edge
		if dir == Downstream {
			edges = g.Out(cur.uid)
		} else {
			edges = g.In(cur.uid)
		}
		for _, e := range edges {
			next := e.To
			if dir == Upstream {
				next = e.From
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			if r, ok := g.Vertex(next); ok {
				order = append(order, r)
			}
			queue = append(queue, frontierNode{uid: next, depth: cur.depth + 1})
		}
	}
	return order
}

// HealthGlyph is the short status tag the graph renderer draws next
// to each vertex, derived from the issues attached to that resource in the
// current run.
type HealthGlyph string

const (
	GlyphHealthy  HealthGlyph = "OK"
	GlyphWarning  HealthGlyph = "WARN"
	GlyphCritical HealthGlyph = "CRIT"
)

// HealthOf reduces a resource's issues to its worst-case glyph. A resource
// with no issues in the current run is Healthy.
func HealthOf(issues []model.Issue, resourceFullName string) HealthGlyph {
	worst := GlyphHealthy
	for _, iss := range issues {
		if iss.ResourceFullName != resourceFullName {
			continue
		}
		switch iss.Severity {
		case model.SeverityCritical:
			return GlyphCritical
		case model.SeverityWarning:
			worst = GlyphWarning
		}
	}
	return worst
}

// HealthIndex precomputes HealthOf for every vertex in one pass, which the
// renderer uses instead of calling HealthOf per node (avoiding an
// O(vertices*issues) rescan for large graphs).
func HealthIndex(issues []model.Issue) map[string]HealthGlyph {
	idx := map[string]HealthGlyph{}
	for _, iss := range issues {
		cur := idx[iss.ResourceFullName]
		switch iss.Severity {
		case model.SeverityCritical:
			idx[iss.ResourceFullName] = GlyphCritical
		case model.SeverityWarning:
			if cur != GlyphCritical {
				idx[iss.ResourceFullName] = GlyphWarning
			}
		}
	}
	return idx
}
