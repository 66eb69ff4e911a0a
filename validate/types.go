// Package validate runs the staged validation pipeline over a template
// library: structural, functional, integration, and performance checks,
// each stage gated per document by the previous stage's outcome.
package validate

import "fmt"

// Stage identifies one pipeline stage.
type Stage string

const (
	// StageStructural checks metadata schema, duplicate identifiers,
	// dangling references, and cycles.
	StageStructural Stage = "structural"
	// StageFunctional checks reference category compatibility and
	// placeholder completeness.
	StageFunctional Stage = "functional"
	// StageIntegration checks that every transitive dependency of a
	// document is itself functionally valid.
	StageIntegration Stage = "integration"
	// StagePerformance checks aggregate corpus metrics against
	// configured thresholds.
	StagePerformance Stage = "performance"
)

// order is the stage evaluation order, used for sorting report issues.
var stageOrder = map[Stage]int{
	StageStructural:  0,
	StageFunctional:  1,
	StageIntegration: 2,
	StagePerformance: 3,
}

// Rank returns the stage's position in pipeline order.
func (s Stage) Rank() int { return stageOrder[s] }

// Status is the outcome of one stage for one document.
type Status string

const (
	// StatusPass means no issues.
	StatusPass Status = "pass"
	// StatusWarning means non-fatal issues; the document still
	// advances to the next stage.
	StatusWarning Status = "warning"
	// StatusFail gates the document out of later stages.
	StatusFail Status = "fail"
)

// Severity classifies a single issue.
type Severity string

const (
	// SeverityError is a fatal defect.
	SeverityError Severity = "error"
	// SeverityWarning is a non-fatal defect.
	SeverityWarning Severity = "warning"
)

// Issue is one finding attached to a validation result.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
}

// Result is one stage's outcome for one document, or for the graph as a
// whole (DocID == GraphDocID). Results are immutable once produced.
type Result struct {
	Stage  Stage   `json:"stage"`
	DocID  string  `json:"doc_id"`
	Status Status  `json:"status"`
	Issues []Issue `json:"issues,omitempty"`
}

// GraphDocID is the pseudo-document identifier for graph-wide checks.
const GraphDocID = "graph"

// Profile controls the severity of placeholder-completeness checks.
type Profile string

const (
	// ProfileDraft treats unresolved placeholders as warnings.
	ProfileDraft Profile = "draft"
	// ProfileRelease treats unresolved placeholders as failures.
	ProfileRelease Profile = "release"
)

// ParseProfile converts a string to a Profile.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileDraft:
		return ProfileDraft, nil
	case ProfileRelease:
		return ProfileRelease, nil
	default:
		return "", fmt.Errorf("unknown profile: %q", s)
	}
}

// newResult derives the status of a result from its issues: any error
// issue fails the stage, warnings alone downgrade it to warning.
func newResult(stage Stage, docID string, issues []Issue) Result {
	status := StatusPass
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			status = StatusFail
		case SeverityWarning:
			if status == StatusPass {
				status = StatusWarning
			}
		}
	}
	return Result{Stage: stage, DocID: docID, Status: status, Issues: issues}
}
