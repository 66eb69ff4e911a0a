// Package registry indexes parsed template documents by identifier.
package registry

import (
	"errors"
	"fmt"

	"github.com/c360studio/tmplvet/template"
)

// ErrDuplicateID indicates an identifier collision within a namespace.
var ErrDuplicateID = errors.New("duplicate identifier")

// DuplicateError reports a registration rejected because the identifier
// is already taken. The first-registered document is unaffected.
type DuplicateError struct {
	// ID is the colliding identifier.
	ID string

	// Category is the rejected document's category.
	Category template.Category

	// ExistingPath is the path of the document that holds the ID.
	ExistingPath string

	// Path is the path of the rejected document.
	Path string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate identifier %q (%s): %s collides with %s",
		e.ID, e.Category, e.Path, e.ExistingPath)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateID }

// Registry indexes documents by identifier and category.
// Iteration order is insertion order, which keeps reports deterministic.
// The Registry validates identity only; reference integrity is the
// dependency graph's concern.
type Registry struct {
	byKey map[string]*template.Document
	order []*template.Document

	// globalNamespace makes commands and components share one
	// identifier namespace. Default is per-category uniqueness.
	globalNamespace bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithGlobalNamespace makes identifiers unique across both categories
// instead of per category.
func WithGlobalNamespace() Option {
	return func(r *Registry) { r.globalNamespace = true }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{byKey: make(map[string]*template.Document)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a document. It fails with a *DuplicateError when the
// identifier already exists in the same namespace.
func (r *Registry) Register(doc *template.Document) error {
	key := r.key(doc.ID, doc.Category)
	if existing, ok := r.byKey[key]; ok {
		return &DuplicateError{
			ID:           doc.ID,
			Category:     doc.Category,
			ExistingPath: existing.Path,
			Path:         doc.Path,
		}
	}
	r.byKey[key] = doc
	r.order = append(r.order, doc)
	return nil
}

// Resolve looks up a document by identifier. When the registry uses
// per-category namespaces the component namespace is checked first:
// references legally point at components, so a name shared by a
// command and a component must resolve to the component.
func (r *Registry) Resolve(id string) (*template.Document, bool) {
	if r.globalNamespace {
		doc, ok := r.byKey[id]
		return doc, ok
	}
	if doc, ok := r.byKey[r.key(id, template.CategoryComponent)]; ok {
		return doc, true
	}
	if doc, ok := r.byKey[r.key(id, template.CategoryCommand)]; ok {
		return doc, true
	}
	return nil, false
}

// All returns every registered document in insertion order.
// The returned slice must not be mutated.
func (r *Registry) All() []*template.Document {
	return r.order
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) key(id string, category template.Category) string {
	if r.globalNamespace {
		return id
	}
	return string(category) + "/" + id
}
