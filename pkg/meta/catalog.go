// ABOUTME: Class metadata catalog with lazy lookup by class name
// ABOUTME: Registry implementation backs naming, mo and mit packages

package meta

import (
	"errors"
	"fmt"
)

// ErrClassNotFound indicates a class name with no meta in the catalog.
var ErrClassNotFound = errors.New("meta: class not found")

// Catalog exposes class metadata by name. The tree core only reads from the
// catalog, it never mutates it.
type Catalog interface {
	// Lookup returns the meta for a class name, loading it lazily if the
	// catalog supports that.
	Lookup(className string) (*ClassMeta, error)

	// RootClass returns the designated root class of the object space.
	RootClass() string
}

// LoaderFunc loads a class meta by name on first use.
type LoaderFunc func(className string) (*ClassMeta, error)

// Registry is an in-memory Catalog. Classes are registered up front or
// resolved through an optional lazy loader on first lookup.
type Registry struct {
	root    string
	classes map[string]*ClassMeta
	loader  LoaderFunc
}

// NewRegistry creates a registry whose designated root class is rootClass.
func NewRegistry(rootClass string) *Registry {
	return &Registry{
		root:    rootClass,
		classes: make(map[string]*ClassMeta),
	}
}

// Register adds or replaces a class meta.
func (r *Registry) Register(cm *ClassMeta) {
	r.classes[cm.ClassName] = cm
}

// SetLoader installs a lazy loader consulted when a class is not registered.
// Loaded metas are cached.
func (r *Registry) SetLoader(fn LoaderFunc) {
	r.loader = fn
}

// Lookup implements Catalog.
func (r *Registry) Lookup(className string) (*ClassMeta, error) {
	if cm, ok := r.classes[className]; ok {
		return cm, nil
	}
	if r.loader != nil {
		cm, err := r.loader(className)
		if err != nil {
			return nil, fmt.Errorf("meta: loading class %q: %w", className, err)
		}
		if cm != nil {
			r.classes[className] = cm
			return cm, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrClassNotFound, className)
}

// RootClass implements Catalog.
func (r *Registry) RootClass() string {
	return r.root
}
