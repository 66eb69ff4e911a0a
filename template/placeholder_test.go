package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanPlaceholders(t *testing.T) {
	doc := &Document{
		ID: "review-pr",
		Body: `# Review [PROJECT_NAME]

Use [STYLE_GUIDE] and [ARG1].
Plain [text] and [Mixed_Case] are not markers.
`,
	}

	markers := ScanPlaceholders(doc)
	assert.Len(t, markers, 3)

	assert.Equal(t, "PROJECT_NAME", markers[0].Token)
	assert.Equal(t, 1, markers[0].Line)
	assert.Equal(t, "review-pr", markers[0].DocID)

	assert.Equal(t, "STYLE_GUIDE", markers[1].Token)
	assert.Equal(t, 3, markers[1].Line)

	assert.Equal(t, "ARG1", markers[2].Token)
	assert.Equal(t, 3, markers[2].Line)
}

func TestScanPlaceholders_None(t *testing.T) {
	doc := &Document{ID: "clean", Body: "No markers here, just [links](http://example.com).\n"}
	assert.Empty(t, ScanPlaceholders(doc))
}

func TestScanPlaceholders_EmptyBody(t *testing.T) {
	assert.Empty(t, ScanPlaceholders(&Document{ID: "empty"}))
}

func TestScanPlaceholders_Restartable(t *testing.T) {
	doc := &Document{ID: "x", Body: "[TOKEN]\n"}

	first := ScanPlaceholders(doc)
	second := ScanPlaceholders(doc)
	assert.Equal(t, first, second)
}
