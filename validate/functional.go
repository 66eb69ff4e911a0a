package validate

import (
	"fmt"

	"github.com/c360studio/tmplvet/registry"
	"github.com/c360studio/tmplvet/template"
)

// functionalDoc checks a structurally valid document's semantics:
// every reference target must exist and be of a compatible category
// (only command -> component is allowed), and no unresolved placeholder
// may remain when the release profile applies.
func functionalDoc(doc *template.Document, reg *registry.Registry, profile Profile) Result {
	var issues []Issue

	for _, ref := range doc.References {
		target, ok := reg.Resolve(ref)
		if !ok {
			// Already reported as a structural dangling reference;
			// the document was gated out before reaching this stage.
			continue
		}

		switch {
		case doc.Category == template.CategoryComponent:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("component %q may not reference other documents (references %q)", doc.ID, target.ID),
				Location: doc.Path,
			})
		case target.Category != template.CategoryComponent:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("command %q may only reference components, but %q is a %s", doc.ID, target.ID, target.Category),
				Location: doc.Path,
			})
		}
	}

	severity := SeverityWarning
	if profile == ProfileRelease || doc.Release {
		severity = SeverityError
	}
	for _, marker := range template.ScanPlaceholders(doc) {
		issues = append(issues, Issue{
			Severity: severity,
			Message:  fmt.Sprintf("unresolved placeholder [%s]", marker.Token),
			Location: fmt.Sprintf("%s:%d", doc.Path, marker.Line),
		})
	}

	return newResult(StageFunctional, doc.ID, issues)
}
