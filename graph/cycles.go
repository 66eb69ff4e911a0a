package graph

// color is the DFS marking state for cycle detection.
type color uint8

const (
	white color = iota // unvisited
	gray               // in progress
	black              // done
)

// Analysis holds the results of the whole-graph traversal.
type Analysis struct {
	// Cycles lists every detected cycle as its full identifier path,
	// closed on the starting node (e.g. [a b c a]). A self-reference
	// is the degenerate path [a a].
	Cycles [][]string

	// Order is a topological ordering of identifiers, dependencies
	// first. When cycles exist, cycle members are excluded and Order
	// covers only the acyclic remainder.
	Order []string

	// InCycle marks every identifier that participates in a cycle.
	InCycle map[string]bool
}

// Acyclic returns true when no cycles were found.
func (a *Analysis) Acyclic() bool {
	return len(a.Cycles) == 0
}

// Analyze runs a depth-first traversal with three-color marking over
// the resolved edge set. Any back-edge to an in-progress node is a
// cycle; the full cycle path is recorded so a human can see the loop.
// Runs in O(V+E) and is deterministic: nodes are visited in registry
// insertion order and neighbors in declaration order.
func (g *Graph) Analyze() *Analysis {
	a := &Analysis{InCycle: make(map[string]bool)}

	colors := make(map[string]color, len(g.Nodes))
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		colors[id] = gray
		stack = append(stack, id)

		for _, next := range g.adjacency[id] {
			switch colors[next] {
			case white:
				visit(next)
			case gray:
				// Back-edge: the cycle is the stack suffix from the
				// first occurrence of next, closed on next.
				start := len(stack) - 1
				for start >= 0 && stack[start] != next {
					start--
				}
				cycle := make([]string, 0, len(stack)-start+1)
				cycle = append(cycle, stack[start:]...)
				cycle = append(cycle, next)
				a.Cycles = append(a.Cycles, cycle)
				for _, member := range cycle {
					a.InCycle[member] = true
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[id] = black

		if !a.InCycle[id] {
			a.Order = append(a.Order, id)
		}
	}

	for _, id := range g.Nodes {
		if colors[id] == white {
			visit(id)
		}
	}

	return a
}
