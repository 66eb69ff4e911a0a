// Package report aggregates validation results into a single report
// with a derived overall verdict.
package report

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/c360studio/tmplvet/graph"
	"github.com/c360studio/tmplvet/validate"
)

// Verdict is the overall outcome of a validation run.
type Verdict string

const (
	// VerdictApproved means every stage passed with no warnings.
	VerdictApproved Verdict = "approved"
	// VerdictConditional means integration failures or warnings
	// exist, but nothing worse.
	VerdictConditional Verdict = "conditional"
	// VerdictNeedsRework means functional failures exist, but no
	// structural ones.
	VerdictNeedsRework Verdict = "needs_rework"
	// VerdictRejected means at least one structural failure exists,
	// or the run timed out.
	VerdictRejected Verdict = "rejected"
)

// ExitCode maps a verdict to the CLI exit code: approved and
// conditional succeed, needs_rework and rejected fail.
func (v Verdict) ExitCode() int {
	switch v {
	case VerdictApproved, VerdictConditional:
		return 0
	default:
		return 1
	}
}

// runIDNamespace seeds deterministic run IDs. Two runs over identical
// input produce byte-identical reports, run ID included.
var runIDNamespace = uuid.MustParse("8f3c6f9a-1f09-4a7e-9d2b-5d1e0c4b7a21")

// Report is the immutable aggregate of one validation run.
type Report struct {
	// RunID is a deterministic UUID derived from the result set.
	RunID string `json:"run_id"`

	// Profile is the validation profile the run used.
	Profile validate.Profile `json:"profile"`

	// Documents holds per-document results in stage then document
	// order.
	Documents []validate.Result `json:"documents"`

	// GraphIssues holds graph-level results (dangling references,
	// cycles, performance warnings).
	GraphIssues []validate.Result `json:"graph_issues"`

	// Stats holds the aggregate corpus metrics.
	Stats graph.Stats `json:"stats"`

	// Overall is the derived verdict.
	Overall Verdict `json:"overall"`

	// TimedOut reports that the run deadline expired.
	TimedOut bool `json:"timed_out,omitempty"`
}

// New builds a Report from a pipeline outcome.
func New(outcome *validate.Outcome, profile validate.Profile) *Report {
	r := &Report{
		Profile:  profile,
		Stats:    outcome.Stats,
		TimedOut: outcome.TimedOut,
		// Empty slices, not nil: an empty corpus still encodes as
		// "documents": [] in JSON.
		Documents:   []validate.Result{},
		GraphIssues: []validate.Result{},
	}

	for _, result := range outcome.Results {
		if result.DocID == validate.GraphDocID {
			r.GraphIssues = append(r.GraphIssues, result)
		} else {
			r.Documents = append(r.Documents, result)
		}
	}

	r.Overall = deriveVerdict(outcome)
	r.RunID = deriveRunID(outcome, profile)
	return r
}

// deriveVerdict computes the overall verdict from the worst status
// observed, weighted by stage. The order is total: a structural fail
// anywhere forces rejected regardless of later stages, since later
// stages were skipped for the affected documents.
func deriveVerdict(outcome *validate.Outcome) Verdict {
	if outcome.TimedOut {
		return VerdictRejected
	}

	var (
		structuralFail  bool
		functionalFail  bool
		integrationFail bool
		anyWarning      bool
	)

	for _, result := range outcome.Results {
		switch result.Status {
		case validate.StatusFail:
			switch result.Stage {
			case validate.StageStructural:
				structuralFail = true
			case validate.StageFunctional:
				functionalFail = true
			case validate.StageIntegration:
				integrationFail = true
			}
		case validate.StatusWarning:
			anyWarning = true
		}
	}

	switch {
	case structuralFail:
		return VerdictRejected
	case functionalFail:
		return VerdictNeedsRework
	case integrationFail, anyWarning:
		return VerdictConditional
	default:
		return VerdictApproved
	}
}

// deriveRunID hashes the complete result set into a name-based UUID.
// Identical input directories and profiles therefore yield identical
// run IDs, keeping JSON reports byte-for-byte reproducible.
func deriveRunID(outcome *validate.Outcome, profile validate.Profile) string {
	var sb strings.Builder
	sb.WriteString(string(profile))
	for _, result := range outcome.Results {
		sb.WriteByte('\n')
		sb.WriteString(string(result.Stage))
		sb.WriteByte('|')
		sb.WriteString(result.DocID)
		sb.WriteByte('|')
		sb.WriteString(string(result.Status))
		for _, issue := range result.Issues {
			sb.WriteByte('|')
			sb.WriteString(issue.Message)
		}
	}
	return uuid.NewSHA1(runIDNamespace, []byte(sb.String())).String()
}

// IssueCount returns the total number of issues across all results.
func (r *Report) IssueCount() int {
	n := 0
	for _, result := range r.Documents {
		n += len(result.Issues)
	}
	for _, result := range r.GraphIssues {
		n += len(result.Issues)
	}
	return n
}

// sortIssues orders issues for human triage: errors before warnings,
// then by location.
func sortIssues(issues []validate.Issue) []validate.Issue {
	sorted := make([]validate.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity != sorted[j].Severity {
			return sorted[i].Severity == validate.SeverityError
		}
		return sorted[i].Location < sorted[j].Location
	})
	return sorted
}
