package graph

// Stats holds aggregate corpus metrics consumed by the performance
// validation stage.
type Stats struct {
	// Documents is the total node count.
	Documents int `json:"documents"`

	// Edges is the resolved edge count (dangling edges excluded).
	Edges int `json:"edges"`

	// MaxInDegree is the highest fan-in observed: how many documents
	// reference a single shared component.
	MaxInDegree int `json:"max_in_degree"`

	// MaxInDegreeNode is the identifier with the highest fan-in.
	MaxInDegreeNode string `json:"max_in_degree_node,omitempty"`

	// MaxDepth is the longest dependency chain (edge count) in the
	// acyclic portion of the graph.
	MaxDepth int `json:"max_depth"`
}

// Metrics computes aggregate corpus metrics. Depth is measured over the
// acyclic portion only; cycle members are already structural failures.
func (g *Graph) Metrics(a *Analysis) Stats {
	s := Stats{
		Documents: len(g.Nodes),
		Edges:     len(g.Edges),
	}

	for _, id := range g.Nodes {
		d := g.inDegree[id]
		if d > s.MaxInDegree {
			s.MaxInDegree = d
			s.MaxInDegreeNode = id
		}
	}

	// Order is dependency-first, so each node's depth is ready once
	// its neighbors have been computed.
	depth := make(map[string]int, len(a.Order))
	for _, id := range a.Order {
		best := 0
		for _, next := range g.adjacency[id] {
			if a.InCycle[next] {
				continue
			}
			if d := depth[next] + 1; d > best {
				best = d
			}
		}
		depth[id] = best
		if best > s.MaxDepth {
			s.MaxDepth = best
		}
	}

	return s
}
