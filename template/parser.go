package template

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// inlineIncludeRe matches inline include markers in a body: {{include:NAME}}.
var inlineIncludeRe = regexp.MustCompile(`\{\{include:([a-zA-Z0-9_.-]+)\}\}`)

// Parser parses template files with YAML frontmatter.
type Parser struct{}

// NewParser creates a new template parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decomposes raw file content into a Document.
// The category is inferred from the file's directory by the caller and
// may be overridden by a frontmatter "category" key.
//
// Parse is a pure function of its inputs: it performs structural
// decomposition only. Schema conformance (required keys, value shapes)
// is the structural validation stage's concern.
func (p *Parser) Parse(path string, category Category, content []byte) (*Document, error) {
	str := string(content)

	if !strings.HasPrefix(str, "---\n") && !strings.HasPrefix(str, "---\r\n") {
		return nil, &ParseError{Path: path, Err: ErrNoMetadata}
	}

	meta, body, err := extractFrontmatter(str)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	doc := &Document{
		Path:        path,
		Category:    category,
		Metadata:    meta,
		Body:        body,
		HasMetadata: true,
	}

	// Frontmatter name wins; fall back to the file stem so a file with
	// a defective metadata block still gets a stable identifier.
	if name, ok := meta["name"].(string); ok && name != "" {
		doc.ID = name
	} else {
		base := filepath.Base(path)
		doc.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if cat, ok := meta["category"].(string); ok {
		if parsed, err := ParseCategory(cat); err == nil {
			doc.Category = parsed
		}
		// An invalid category value is left for the structural stage
		// to report; the directory-inferred category stands.
	}

	if rel, ok := meta["release"].(bool); ok {
		doc.Release = rel
	}

	doc.References = extractReferences(meta, body)

	return doc, nil
}

// extractFrontmatter splits content into a decoded frontmatter map and
// the remaining body. The opening delimiter must already be verified.
func extractFrontmatter(content string) (map[string]any, string, error) {
	const delimiter = "---"

	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	var yamlContent string
	var bodyStart int

	if strings.HasPrefix(content[start:], delimiter) {
		// Empty frontmatter block: the closing delimiter immediately
		// follows the opening one.
		bodyStart = start + len(delimiter)
	} else {
		closeIdx := strings.Index(content[start:], "\n"+delimiter)
		if closeIdx == -1 {
			closeIdx = strings.Index(content[start:], "\r\n"+delimiter)
		}
		if closeIdx == -1 {
			return nil, content, fmt.Errorf("no closing frontmatter delimiter")
		}
		yamlContent = content[start : start+closeIdx]
		bodyStart = start + closeIdx + 1 + len(delimiter)
	}
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &meta); err != nil {
		return nil, content, fmt.Errorf("parse YAML frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}

	return meta, body, nil
}

// extractReferences collects declared dependencies in declaration order:
// frontmatter "components" and "includes" lists first, then inline
// {{include:NAME}} markers in body order. Duplicates are dropped.
func extractReferences(meta map[string]any, body string) []string {
	var refs []string
	seen := make(map[string]bool)

	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		refs = append(refs, id)
	}

	for _, key := range []string{"components", "includes"} {
		list, ok := meta[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}

	for _, m := range inlineIncludeRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}

	return refs
}
