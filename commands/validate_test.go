package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// execute runs the root command with args and captures stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const validCommand = `---
name: review
description: Review a change
usage: /review <target>
---
Review the change carefully.
`

const validComponent = `---
name: style
description: Style rules
---
Follow the style guide.
`

func TestValidateCmd_CleanCorpus(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/review.md", validCommand)
	writeFile(t, root, "components/style.md", validComponent)

	out, err := execute(t, "validate", root)
	require.NoError(t, err)
	assert.Contains(t, out, "overall: approved")
}

func TestValidateCmd_DanglingReferenceFailsWithJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/review.md", `---
name: review
description: Review a change
usage: /review
components:
  - ghost
---
Body.
`)

	out, err := execute(t, "validate", root, "--format", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var rep struct {
		Overall     string `json:"overall"`
		GraphIssues []struct {
			Issues []struct {
				Message string `json:"message"`
			} `json:"issues"`
		} `json:"graph_issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "rejected", rep.Overall)

	require.NotEmpty(t, rep.GraphIssues)
	require.NotEmpty(t, rep.GraphIssues[0].Issues)
	msg := rep.GraphIssues[0].Issues[0].Message
	assert.Contains(t, msg, "review")
	assert.Contains(t, msg, "ghost")
}

func TestValidateCmd_ProfileChangesVerdict(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/review.md", `---
name: review
description: Review a change
usage: /review
---
Use [STYLE_GUIDE].
`)

	_, err := execute(t, "validate", root, "--profile", "draft")
	assert.NoError(t, err)

	_, err = execute(t, "validate", root, "--profile", "release")
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

func TestValidateCmd_ExpiredTimeoutStillReports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/review.md", validCommand)

	// A deadline that expires before loading finishes is a run-level
	// abort, not an invocation error: the report still renders with a
	// rejected verdict and exit code 1.
	out, err := execute(t, "validate", root, "--timeout", "1ns")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.Contains(t, out, "overall: rejected")
	assert.Contains(t, out, "timeout")
}

func TestValidateCmd_BadPath(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidationFailed))
}

func TestValidateCmd_BadProfile(t *testing.T) {
	_, err := execute(t, "validate", t.TempDir(), "--profile", "strict")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidationFailed))
}

func TestValidateCmd_OutputFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "components/style.md", validComponent)

	outPath := filepath.Join(t.TempDir(), "report.json")
	_, err := execute(t, "validate", root, "--format", "json", "--output", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overall": "approved"`)
}

func TestListCmd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/review.md", validCommand)
	writeFile(t, root, "components/style.md", validComponent)

	out, err := execute(t, "list", root)
	require.NoError(t, err)
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "component")
}

func TestGraphCmd_Dot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/review.md", `---
name: review
description: Review a change
usage: /review
components:
  - style
---
Body.
`)
	writeFile(t, root, "components/style.md", validComponent)

	out, err := execute(t, "graph", root, "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph templates")
	assert.Contains(t, out, `"review" -> "style";`)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
