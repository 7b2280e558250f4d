// Package formkit is the convenience entry point of the module. It re-exports
// the types most callers touch and wires the registry, form and validation
// packages together for the common "define, fill, submit" flow.
package formkit

import (
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/registry"
	"github.com/goliatone/go-formkit/pkg/rule"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// FieldSpec aliases model.FieldSpec.
type FieldSpec = model.FieldSpec

// Requirement aliases model.Requirement.
type Requirement = model.Requirement

// Payload aliases model.Payload.
type Payload = model.Payload

// Definition aliases registry.Definition.
type Definition = registry.Definition

// Registry aliases registry.Registry.
type Registry = registry.Registry

// Form aliases form.Form.
type Form = form.Form

// Field type shorthands.
const (
	String   = model.FieldTypeString
	Email    = model.FieldTypeEmail
	Number   = model.FieldTypeNumber
	Password = model.FieldTypePassword
	Text     = model.FieldTypeText
)

// Always and Never are the static requirements.
var (
	Always = model.Static(true)
	Never  = model.Static(false)
)

// When compiles a rule expression such as `visibility == "public"` into a
// computed requirement.
func When(expr string) (Requirement, error) {
	return rule.Compile(expr)
}

// MustWhen is When that panics on a syntax error. Use it for expressions
// known at compile time.
func MustWhen(expr string) Requirement {
	return rule.MustCompile(expr)
}

// Default returns a registry holding the embedded form catalogue.
func Default() (*Registry, error) {
	return registry.Default()
}

// Load builds a registry from the YAML and JSON definitions in fsys.
func Load(fsys fs.FS) (*Registry, error) {
	return registry.LoadFS(fsys)
}

// NewForm builds a pristine form over specs.
func NewForm(specs []FieldSpec, options ...form.Option) (*Form, error) {
	return form.New(specs, options...)
}

// Check runs a single validation pass over values without building a form.
// Missing ids are treated as empty.
func Check(specs []FieldSpec, values map[string]string) validation.Result {
	fields := make(model.Fields, len(specs))
	for _, spec := range specs {
		fields[spec.ID] = values[spec.ID]
	}
	return validation.Validate(specs, fields)
}
