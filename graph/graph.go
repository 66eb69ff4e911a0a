// Package graph builds and analyzes the dependency graph between
// template documents. Nodes are document identifiers; edges are
// declared references.
package graph

import (
	"github.com/c360studio/tmplvet/registry"
)

// Edge is a declared dependency from one document to another.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the resolved dependency graph for one validation run.
// It is immutable once built.
type Graph struct {
	// Nodes lists document identifiers in registry insertion order.
	Nodes []string

	// Edges lists resolved edges in declaration order per source.
	Edges []Edge

	// Dangling lists edges whose target is absent from the registry.
	// Dangling edges are excluded from Edges and from traversal.
	Dangling []Edge

	// adjacency maps a source ID to its resolved target IDs.
	adjacency map[string][]string

	// inDegree counts resolved references into each node.
	inDegree map[string]int
}

// Build resolves the registry's declared references into a graph.
// Dangling references do not stop construction; they are all collected
// in one pass and reported by the structural validation stage.
func Build(reg *registry.Registry) *Graph {
	g := &Graph{
		adjacency: make(map[string][]string),
		inDegree:  make(map[string]int),
	}

	for _, doc := range reg.All() {
		g.Nodes = append(g.Nodes, doc.ID)
		g.inDegree[doc.ID] += 0
	}

	for _, doc := range reg.All() {
		for _, ref := range doc.References {
			edge := Edge{Source: doc.ID, Target: ref}

			target, ok := reg.Resolve(ref)
			if !ok {
				g.Dangling = append(g.Dangling, edge)
				continue
			}

			edge.Target = target.ID
			g.Edges = append(g.Edges, edge)
			g.adjacency[doc.ID] = append(g.adjacency[doc.ID], target.ID)
			g.inDegree[target.ID]++
		}
	}

	return g
}

// Neighbors returns the resolved direct dependencies of id.
func (g *Graph) Neighbors(id string) []string {
	return g.adjacency[id]
}

// InDegree returns the number of documents referencing id.
func (g *Graph) InDegree(id string) int {
	return g.inDegree[id]
}
