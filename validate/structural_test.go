package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/tmplvet/graph"
	"github.com/c360studio/tmplvet/registry"
	"github.com/c360studio/tmplvet/template"
)

func TestStructuralDoc_Valid(t *testing.T) {
	doc := &template.Document{
		ID:       "review",
		Category: template.CategoryCommand,
		Path:     "commands/review.md",
		Metadata: map[string]any{
			"name":        "review",
			"description": "Review a change",
			"usage":       "/review <target>",
		},
	}

	result := structuralDoc(doc)
	assert.Equal(t, StatusPass, result.Status)
	assert.Empty(t, result.Issues)
}

func TestStructuralDoc_MissingRequiredKeys(t *testing.T) {
	doc := &template.Document{
		ID:       "review",
		Category: template.CategoryCommand,
		Path:     "commands/review.md",
		Metadata: map[string]any{"name": "review"},
	}

	result := structuralDoc(doc)
	assert.Equal(t, StatusFail, result.Status)
	require.Len(t, result.Issues, 2)
	assert.Contains(t, result.Issues[0].Message, `"description"`)
	assert.Contains(t, result.Issues[1].Message, `"usage"`)
}

func TestStructuralDoc_UnknownKeyIsWarning(t *testing.T) {
	doc := &template.Document{
		ID:       "style",
		Category: template.CategoryComponent,
		Path:     "components/style.md",
		Metadata: map[string]any{
			"name":        "style",
			"description": "Style rules",
			"colour":      "blue",
		},
	}

	result := structuralDoc(doc)
	assert.Equal(t, StatusWarning, result.Status)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, SeverityWarning, result.Issues[0].Severity)
	assert.Contains(t, result.Issues[0].Message, `"colour"`)
}

func TestStructuralDoc_ShapeViolations(t *testing.T) {
	doc := &template.Document{
		ID:       "review",
		Category: template.CategoryCommand,
		Path:     "commands/review.md",
		Metadata: map[string]any{
			"name":               "review",
			"description":        42,
			"usage":              "/review",
			"allowed-operations": "read",
			"release":            "yes",
			"category":           "widget",
		},
	}

	result := structuralDoc(doc)
	assert.Equal(t, StatusFail, result.Status)

	var messages []string
	for _, issue := range result.Issues {
		messages = append(messages, issue.Message)
	}
	assert.Contains(t, messages, `metadata key "description" must be a non-empty string`)
	assert.Contains(t, messages, `metadata key "allowed-operations" must be a list of strings`)
	assert.Contains(t, messages, `metadata key "release" must be a boolean`)
}

func TestStructuralFailure(t *testing.T) {
	f := LoadFailure{
		DocID: "broken",
		Path:  "commands/broken.md",
		Err:   errors.New("parse commands/broken.md: no metadata block"),
	}

	result := structuralFailure(f)
	assert.Equal(t, StageStructural, result.Stage)
	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, "broken", result.DocID)
	assert.Equal(t, "commands/broken.md", result.Issues[0].Location)
}

func TestStructuralGraph(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(&template.Document{
		ID: "a", Category: template.CategoryCommand, References: []string{"b", "ghost"},
	}))
	require.NoError(t, reg.Register(&template.Document{
		ID: "b", Category: template.CategoryComponent, References: []string{"a"},
	}))

	g := graph.Build(reg)
	analysis := g.Analyze()

	result, perDoc := structuralGraph(g, analysis)

	assert.Equal(t, GraphDocID, result.DocID)
	assert.Equal(t, StatusFail, result.Status)
	require.Len(t, result.Issues, 2)

	assert.Contains(t, result.Issues[0].Message, `"ghost"`)
	assert.Contains(t, result.Issues[1].Message, "a -> b -> a")

	// Both cycle members and the dangling source are implicated.
	assert.Len(t, perDoc["a"], 2)
	assert.Len(t, perDoc["b"], 1)
}
