package validate

import (
	"fmt"

	"github.com/c360studio/tmplvet/graph"
)

// runIntegration walks documents in topological order (dependencies
// first) and confirms that everything a document depends on, directly
// or transitively, is itself valid. Failure propagates: a document
// cannot be integration-valid if any dependency failed an earlier
// stage or failed integration itself.
//
// Only documents that passed the functional stage are evaluated; the
// returned map records which evaluated documents are integration-valid.
func runIntegration(g *graph.Graph, analysis *graph.Analysis, functionalPassed map[string]bool) ([]Result, map[string]bool) {
	var results []Result
	valid := make(map[string]bool)

	for _, id := range analysis.Order {
		if !functionalPassed[id] {
			continue
		}

		var issues []Issue
		for _, dep := range g.Neighbors(id) {
			if !functionalPassed[dep] {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Message:  fmt.Sprintf("dependency %q did not pass functional validation", dep),
					Location: id,
				})
			} else if !valid[dep] {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Message:  fmt.Sprintf("dependency %q is not integration-valid", dep),
					Location: id,
				})
			}
		}

		result := newResult(StageIntegration, id, issues)
		valid[id] = result.Status != StatusFail
		results = append(results, result)
	}

	return results, valid
}
