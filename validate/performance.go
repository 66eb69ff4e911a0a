package validate

import (
	"fmt"

	"github.com/c360studio/tmplvet/graph"
)

// Thresholds bounds the aggregate corpus metrics checked by the
// performance stage. A zero value disables that check.
type Thresholds struct {
	// MaxDocuments bounds total document count.
	MaxDocuments int `yaml:"max_documents"`

	// MaxEdges bounds total resolved edge count.
	MaxEdges int `yaml:"max_edges"`

	// MaxFanIn bounds how many documents may reference a single
	// shared component.
	MaxFanIn int `yaml:"max_fan_in"`

	// MaxDepth bounds the longest dependency chain.
	MaxDepth int `yaml:"max_depth"`
}

// DefaultThresholds returns the default performance bounds, sized for
// a corpus of hundreds of documents.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxDocuments: 500,
		MaxEdges:     2000,
		MaxFanIn:     25,
		MaxDepth:     10,
	}
}

// runPerformance compares aggregate corpus metrics against thresholds.
// Out-of-threshold values are warnings, never failures: performance
// concerns must not block correctness-approved content.
func runPerformance(stats graph.Stats, t Thresholds) Result {
	var issues []Issue

	warn := func(format string, args ...any) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf(format, args...),
			Location: GraphDocID,
		})
	}

	if t.MaxDocuments > 0 && stats.Documents > t.MaxDocuments {
		warn("document count %d exceeds threshold %d", stats.Documents, t.MaxDocuments)
	}
	if t.MaxEdges > 0 && stats.Edges > t.MaxEdges {
		warn("edge count %d exceeds threshold %d", stats.Edges, t.MaxEdges)
	}
	if t.MaxFanIn > 0 && stats.MaxInDegree > t.MaxFanIn {
		warn("fan-in of %q is %d, exceeds threshold %d", stats.MaxInDegreeNode, stats.MaxInDegree, t.MaxFanIn)
	}
	if t.MaxDepth > 0 && stats.MaxDepth > t.MaxDepth {
		warn("dependency depth %d exceeds threshold %d", stats.MaxDepth, t.MaxDepth)
	}

	return newResult(StagePerformance, GraphDocID, issues)
}
