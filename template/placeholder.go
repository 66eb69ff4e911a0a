package template

import (
	"regexp"
	"strings"
)

// placeholderRe matches bracketed upper-case substitution tokens,
// e.g. [PROJECT_NAME] or [ARG2]. Matching is purely lexical; token
// meaning is never interpreted.
var placeholderRe = regexp.MustCompile(`\[([A-Z][A-Z0-9_]*)\]`)

// ScanPlaceholders scans a document body for unresolved substitution
// markers. The scan is restartable: it can be re-run per validation
// profile against the same immutable document.
func ScanPlaceholders(doc *Document) []PlaceholderMarker {
	if doc.Body == "" {
		return nil
	}

	var markers []PlaceholderMarker
	for i, line := range strings.Split(doc.Body, "\n") {
		for _, m := range placeholderRe.FindAllStringSubmatch(line, -1) {
			markers = append(markers, PlaceholderMarker{
				Token: m[1],
				DocID: doc.ID,
				Line:  i + 1,
			})
		}
	}
	return markers
}
