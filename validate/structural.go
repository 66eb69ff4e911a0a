package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/tmplvet/graph"
	"github.com/c360studio/tmplvet/template"
)

// structuralDoc checks one document's metadata against its category
// schema: required-key presence, value shape conformance, and unknown
// keys (preserved by the parser, flagged here as warnings).
func structuralDoc(doc *template.Document) Result {
	var issues []Issue

	for _, key := range template.RequiredKeys(doc.Category) {
		if _, ok := doc.Metadata[key]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("missing required metadata key %q", key),
				Location: doc.Path,
			})
		}
	}

	issues = append(issues, checkShapes(doc)...)

	known := template.KnownKeys(doc.Category)
	var unknown []string
	for key := range doc.Metadata {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("unrecognized metadata key %q", key),
			Location: doc.Path,
		})
	}

	return newResult(StageStructural, doc.ID, issues)
}

// checkShapes verifies metadata value types for recognized keys.
func checkShapes(doc *template.Document) []Issue {
	var issues []Issue

	addTypeError := func(key, want string) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("metadata key %q must be %s", key, want),
			Location: doc.Path,
		})
	}

	for _, key := range []string{"name", "description", "usage"} {
		if v, ok := doc.Metadata[key]; ok {
			if s, isString := v.(string); !isString || s == "" {
				addTypeError(key, "a non-empty string")
			}
		}
	}

	for _, key := range []string{"components", "includes", "allowed-operations"} {
		if v, ok := doc.Metadata[key]; ok && !isStringList(v) {
			addTypeError(key, "a list of strings")
		}
	}

	if v, ok := doc.Metadata["release"]; ok {
		if _, isBool := v.(bool); !isBool {
			addTypeError("release", "a boolean")
		}
	}

	if v, ok := doc.Metadata["category"]; ok {
		s, isString := v.(string)
		if !isString {
			addTypeError("category", "a string")
		} else if _, err := template.ParseCategory(s); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("metadata key %q must be one of: command, component (got %q)", "category", s),
				Location: doc.Path,
			})
		}
	}

	return issues
}

// isStringList reports whether v is a YAML sequence of strings.
func isStringList(v any) bool {
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

// structuralFailure converts a load failure (parse error or duplicate
// identifier) into a structural fail result.
func structuralFailure(f LoadFailure) Result {
	return Result{
		Stage:  StageStructural,
		DocID:  f.DocID,
		Status: StatusFail,
		Issues: []Issue{{
			Severity: SeverityError,
			Message:  f.Err.Error(),
			Location: f.Path,
		}},
	}
}

// structuralGraph converts dangling references and cycles into a
// graph-level structural result. The involved source documents are
// returned separately so the pipeline can gate them out of later
// stages.
func structuralGraph(g *graph.Graph, analysis *graph.Analysis) (Result, map[string][]Issue) {
	var issues []Issue
	perDoc := make(map[string][]Issue)

	for _, edge := range g.Dangling {
		issue := Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("dangling reference: %q references %q, which does not exist", edge.Source, edge.Target),
			Location: edge.Source,
		}
		issues = append(issues, issue)
		perDoc[edge.Source] = append(perDoc[edge.Source], issue)
	}

	for _, cycle := range analysis.Cycles {
		issue := Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")),
			Location: cycle[0],
		}
		issues = append(issues, issue)
		for _, member := range cycle[:len(cycle)-1] {
			perDoc[member] = append(perDoc[member], issue)
		}
	}

	return newResult(StageStructural, GraphDocID, issues), perDoc
}
