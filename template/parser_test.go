package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse_Command(t *testing.T) {
	p := NewParser()

	content := `---
name: review-pr
description: Review a pull request
usage: /review-pr <number>
components:
  - diff-summary
  - style-rules
---
# Review PR

Inspect the diff and apply {{include:checklist}} before responding.
`

	doc, err := p.Parse("commands/review-pr.md", CategoryCommand, []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "review-pr", doc.ID)
	assert.Equal(t, CategoryCommand, doc.Category)
	assert.Equal(t, "commands/review-pr.md", doc.Path)
	assert.True(t, doc.HasMetadata)
	assert.False(t, doc.Release)

	// Frontmatter lists first, inline includes after, in order.
	assert.Equal(t, []string{"diff-summary", "style-rules", "checklist"}, doc.References)

	assert.Contains(t, doc.Body, "# Review PR")
	assert.NotContains(t, doc.Body, "---")
}

func TestParser_Parse_NoFrontmatter(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("commands/raw.md", CategoryCommand, []byte("# Just a body\n"))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "commands/raw.md", parseErr.Path)
	assert.True(t, errors.Is(err, ErrNoMetadata))
}

func TestParser_Parse_MalformedYAML(t *testing.T) {
	p := NewParser()

	content := "---\nname: [unclosed\n---\nbody\n"
	_, err := p.Parse("commands/bad.md", CategoryCommand, []byte(content))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.False(t, errors.Is(err, ErrNoMetadata))
}

func TestParser_Parse_UnclosedFrontmatter(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("commands/open.md", CategoryCommand, []byte("---\nname: x\nbody without close\n"))
	require.Error(t, err)
}

func TestParser_Parse_IDFallsBackToFileStem(t *testing.T) {
	p := NewParser()

	content := "---\ndescription: no name here\n---\nbody\n"
	doc, err := p.Parse("components/helper.md", CategoryComponent, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, "helper", doc.ID)
}

func TestParser_Parse_CategoryOverride(t *testing.T) {
	p := NewParser()

	content := `---
name: shared-context
description: Shared context fragment
category: component
---
body
`
	doc, err := p.Parse("misc/shared-context.md", CategoryCommand, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, CategoryComponent, doc.Category)
}

func TestParser_Parse_InvalidCategoryKeepsInferred(t *testing.T) {
	p := NewParser()

	content := "---\nname: x\ncategory: widget\n---\nbody\n"
	doc, err := p.Parse("commands/x.md", CategoryCommand, []byte(content))
	require.NoError(t, err)

	// The bogus value is left for the structural stage to report.
	assert.Equal(t, CategoryCommand, doc.Category)
	assert.Equal(t, "widget", doc.Metadata["category"])
}

func TestParser_Parse_ReleaseFlag(t *testing.T) {
	p := NewParser()

	content := "---\nname: x\nrelease: true\n---\nbody\n"
	doc, err := p.Parse("commands/x.md", CategoryCommand, []byte(content))
	require.NoError(t, err)
	assert.True(t, doc.Release)
}

func TestParser_Parse_DuplicateReferencesDropped(t *testing.T) {
	p := NewParser()

	content := `---
name: x
components:
  - helper
  - helper
---
{{include:helper}}
`
	doc, err := p.Parse("commands/x.md", CategoryCommand, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"helper"}, doc.References)
}

func TestParser_Parse_EmptyFrontmatter(t *testing.T) {
	p := NewParser()

	doc, err := p.Parse("commands/empty.md", CategoryCommand, []byte("---\n---\nbody\n"))
	require.NoError(t, err)
	assert.Equal(t, "empty", doc.ID)
	assert.NotNil(t, doc.Metadata)
	assert.Empty(t, doc.References)
}
