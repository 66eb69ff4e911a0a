// Package template provides types and parsing for prompt-template documents.
// A template library is a directory tree of markdown files with YAML
// frontmatter: "commands" (top-level prompt templates) and "components"
// (reusable fragments that commands include).
package template

import (
	"errors"
	"fmt"
)

// Category discriminates between command and component documents.
type Category string

const (
	// CategoryCommand is a top-level prompt template.
	CategoryCommand Category = "command"
	// CategoryComponent is a reusable fragment included by commands.
	CategoryComponent Category = "component"
)

// Valid returns true for a known category value.
func (c Category) Valid() bool {
	return c == CategoryCommand || c == CategoryComponent
}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCommand:
		return CategoryCommand, nil
	case CategoryComponent:
		return CategoryComponent, nil
	default:
		return "", fmt.Errorf("unknown category: %q", s)
	}
}

// Document represents one parsed template file.
// Documents are immutable after parsing; validation never mutates them.
type Document struct {
	// ID is the document identifier: the frontmatter "name" field,
	// falling back to the file stem.
	ID string `json:"id"`

	// Category discriminates commands from components.
	Category Category `json:"category"`

	// Path is the file path relative to the scan root.
	Path string `json:"path"`

	// Metadata is the full decoded frontmatter. Unknown keys are
	// preserved here; schema conformance is checked downstream.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Body is the free text after the frontmatter block.
	Body string `json:"-"`

	// References lists the identifiers this document declares it
	// depends on, in declaration order.
	References []string `json:"references,omitempty"`

	// Release marks a document as release-ready (frontmatter
	// "release: true"). Release documents must have no unresolved
	// placeholders regardless of validation profile.
	Release bool `json:"release,omitempty"`

	// HasMetadata reports whether a frontmatter block was present.
	HasMetadata bool `json:"-"`
}

// PlaceholderMarker is an unresolved substitution token found in a body,
// e.g. [PROJECT_NAME].
type PlaceholderMarker struct {
	// Token is the marker text without brackets.
	Token string `json:"token"`

	// DocID identifies the containing document.
	DocID string `json:"doc_id"`

	// Line is the 1-based line offset within the body.
	Line int `json:"line"`
}

// ErrNoMetadata indicates a file without a frontmatter block.
// Absence of the block is a structural defect, not a parser crash.
var ErrNoMetadata = errors.New("no metadata block")

// ParseError describes a file that could not be decomposed into
// metadata and body.
type ParseError struct {
	// Path is the file path relative to the scan root.
	Path string

	// Err is the underlying cause (ErrNoMetadata, YAML syntax error).
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RequiredKeys returns the frontmatter keys a category must declare.
func RequiredKeys(c Category) []string {
	switch c {
	case CategoryCommand:
		return []string{"name", "description", "usage"}
	case CategoryComponent:
		return []string{"name", "description"}
	default:
		return nil
	}
}

// KnownKeys returns the recognized frontmatter keys for a category.
// Keys outside this set are preserved but flagged as warnings.
func KnownKeys(c Category) map[string]bool {
	known := map[string]bool{
		"name":        true,
		"description": true,
		"category":    true,
		"components":  true,
		"includes":    true,
		"release":     true,
	}
	switch c {
	case CategoryCommand:
		known["usage"] = true
		known["allowed-operations"] = true
		known["argument-hint"] = true
	case CategoryComponent:
		known["placeholders"] = true
	}
	return known
}
