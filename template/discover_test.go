package template

import (
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

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/review.md", "x")
	writeFile(t, root, "commands/nested/deploy.md", "x")
	writeFile(t, root, "components/style.md", "x")
	writeFile(t, root, "README.md", "x")
	writeFile(t, root, "notes.txt", "x")

	files, err := Discover(root, nil, []string{"README.md"})
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Sorted by path for deterministic registration order.
	assert.Equal(t, "commands/nested/deploy.md", files[0].Path)
	assert.Equal(t, "commands/review.md", files[1].Path)
	assert.Equal(t, "components/style.md", files[2].Path)

	assert.Equal(t, CategoryCommand, files[0].Category)
	assert.Equal(t, CategoryCommand, files[1].Category)
	assert.Equal(t, CategoryComponent, files[2].Category)
}

func TestDiscover_NestedComponentsDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lib/components/header.md", "x")

	files, err := Discover(root, nil, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, CategoryComponent, files[0].Category)
}

func TestDiscover_NotADirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.md", "x")

	_, err := Discover(filepath.Join(root, "file.md"), nil, nil)
	assert.Error(t, err)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.Error(t, err)
}

func TestDiscover_CustomInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "commands/a.md", "x")
	writeFile(t, root, "commands/b.prompt", "x")

	files, err := Discover(root, []string{"**/*.prompt"}, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "commands/b.prompt", files[0].Path)
}
