package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File is a discovered template file awaiting parsing.
type File struct {
	// Path is relative to the scan root, slash-separated.
	Path string

	// Category is inferred from the path's directory segments.
	Category Category
}

// Discover walks root recursively and returns template files matching
// the include patterns (doublestar globs, e.g. "**/*.md") and not
// matching any exclude pattern. Results are sorted by path so that
// registration order, and therefore report order, is deterministic.
func Discover(root string, include, exclude []string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	if len(include) == 0 {
		include = []string{"**/*.md"}
	}

	seen := make(map[string]bool)
	var files []File

	for _, pattern := range include {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			if excluded(rel, exclude) {
				continue
			}

			fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil || fi.IsDir() {
				continue
			}

			seen[rel] = true
			files = append(files, File{
				Path:     rel,
				Category: inferCategory(rel),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// excluded reports whether rel matches any exclude pattern.
func excluded(rel string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// inferCategory maps a file's directory segments to a category.
// Files under a "components" directory are components; everything else
// defaults to command. A frontmatter "category" key overrides this.
func inferCategory(rel string) Category {
	for _, seg := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
		if seg == "components" || seg == "fragments" {
			return CategoryComponent
		}
	}
	return CategoryCommand
}
