package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
)

var (
	// ErrFormNotFound is returned by Get for unknown names.
	ErrFormNotFound = errors.New("registry: form not found")
	// ErrDuplicateForm is returned when a name is registered twice.
	ErrDuplicateForm = errors.New("registry: form already registered")
)

// Definition is a named, ordered list of field specs.
type Definition struct {
	Name        string
	Title       string
	Description string
	Fields      []model.FieldSpec
}

// NewForm builds a fresh form instance for the definition.
func (d Definition) NewForm(options ...form.Option) (*form.Form, error) {
	f, err := form.New(d.Fields, options...)
	if err != nil {
		return nil, fmt.Errorf("registry: form %q: %w", d.Name, err)
	}
	return f, nil
}

// WithInitialValues returns a copy whose matching fields default to the
// supplied values. Unknown ids are ignored.
func (d Definition) WithInitialValues(values map[string]any) Definition {
	out := d
	out.Fields = model.CloneSpecs(d.Fields)
	for i, spec := range out.Fields {
		if v, ok := values[spec.ID]; ok {
			out.Fields[i].InitialValue = v
		}
	}
	return out
}

// Registry stores definitions by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{forms: make(map[string]Definition)}
}

// Register adds a definition after checking its specs.
func (r *Registry) Register(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return errors.New("registry: form name is required")
	}
	if err := model.CheckSpecs(def.Fields); err != nil {
		return fmt.Errorf("registry: form %q: %w", name, err)
	}
	def.Name = name
	def.Fields = model.CloneSpecs(def.Fields)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateForm, name)
	}
	r.forms[name] = def
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get returns a copy of the named definition.
func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.forms[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrFormNotFound, name)
	}
	def.Fields = model.CloneSpecs(def.Fields)
	return def, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.forms[name]
	return ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns every definition sorted by name.
func (r *Registry) Definitions() []Definition {
	names := r.List()
	out := make([]Definition, 0, len(names))
	for _, name := range names {
		if def, err := r.Get(name); err == nil {
			out = append(out, def)
		}
	}
	return out
}
