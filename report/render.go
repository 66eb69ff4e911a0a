package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/tmplvet/validate"
)

// Format selects the report output encoding.
type Format string

const (
	// FormatText is the human-readable summary.
	FormatText Format = "text"
	// FormatJSON is the machine-readable report object.
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %q", s)
	}
}

// Render writes the report to w in the requested format.
func (r *Report) Render(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return r.renderJSON(w)
	default:
		return r.renderText(w)
	}
}

// renderJSON emits the report as one indented JSON object with a
// trailing newline. Field order is fixed by the struct definition and
// result order by the pipeline, so output is deterministic.
func (r *Report) renderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// renderText emits a human-readable summary: every issue with its
// document identifier and location, grouped by stage with errors
// first, so top problems can be triaged without re-running.
func (r *Report) renderText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("tmplvet run %s (profile: %s)\n", r.RunID, r.Profile))
	sb.WriteString(fmt.Sprintf("documents: %d, edges: %d, max fan-in: %d, max depth: %d\n\n",
		r.Stats.Documents, r.Stats.Edges, r.Stats.MaxInDegree, r.Stats.MaxDepth))

	for _, stage := range []validate.Stage{
		validate.StageStructural,
		validate.StageFunctional,
		validate.StageIntegration,
		validate.StagePerformance,
	} {
		writeStage(&sb, stage, r.Documents, r.GraphIssues)
	}

	if r.TimedOut {
		sb.WriteString("RUN TIMED OUT: results are partial\n\n")
	}

	sb.WriteString(fmt.Sprintf("overall: %s (%d issues)\n", r.Overall, r.IssueCount()))

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeStage writes one stage's section, skipping stages that produced
// no results at all (e.g. stages after an early abort).
func writeStage(sb *strings.Builder, stage validate.Stage, docs, graphResults []validate.Result) {
	var results []validate.Result
	for _, result := range docs {
		if result.Stage == stage {
			results = append(results, result)
		}
	}
	for _, result := range graphResults {
		if result.Stage == stage {
			results = append(results, result)
		}
	}
	if len(results) == 0 {
		return
	}

	pass, warn, fail := 0, 0, 0
	var flagged []validate.Result
	for _, result := range results {
		switch result.Status {
		case validate.StatusPass:
			pass++
		case validate.StatusWarning:
			warn++
			flagged = append(flagged, result)
		case validate.StatusFail:
			fail++
			flagged = append(flagged, result)
		}
	}

	sb.WriteString(fmt.Sprintf("%s: %d pass, %d warning, %d fail\n", stage, pass, warn, fail))

	for _, result := range flagged {
		for _, issue := range sortIssues(result.Issues) {
			location := issue.Location
			if location == "" {
				location = result.DocID
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s (%s)\n",
				issue.Severity, result.DocID, issue.Message, location))
		}
	}
	sb.WriteString("\n")
}
