// Package openapi exports registered forms as OpenAPI 3 schemas using
// kin-openapi, so API consumers can validate payloads without the engine.
package openapi

import (
	"errors"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// ExtensionKey namespaces formkit metadata attached to exported schemas.
const ExtensionKey = "x-formkit"

var registerFormats sync.Once

// RegisterFormats teaches kin-openapi's validator the engine's email rule.
// It is called by SchemaFor and is safe to call repeatedly.
func RegisterFormats() {
	registerFormats.Do(func() {
		openapi3.DefineStringFormatValidator("email", openapi3.NewCallbackValidator(func(value string) error {
			if !validation.IsEmail(value) {
				return errors.New("invalid email")
			}
			return nil
		}))
	})
}

// SchemaFor builds the object schema of the payload GetData produces for
// specs. Every id is present in the payload, so every property is required;
// emptiness is expressed through minLength and nullable instead.
func SchemaFor(specs []model.FieldSpec) *openapi3.Schema {
	RegisterFormats()

	schema := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	required := make([]string, 0, len(specs))
	for _, spec := range specs {
		schema.WithProperty(spec.ID, fieldSchema(spec))
		required = append(required, spec.ID)
	}
	return schema.WithRequired(required)
}

func fieldSchema(spec model.FieldSpec) *openapi3.Schema {
	staticRequired := spec.Required.IsStatic(true)

	var schema *openapi3.Schema
	switch spec.Type {
	case model.FieldTypeNumber:
		schema = openapi3.NewFloat64Schema()
		if !staticRequired {
			// unparsable optional numbers are submitted as null
			schema.WithNullable()
		}
		if spec.MinValue != nil {
			schema.WithMin(*spec.MinValue)
		}
		if spec.MaxValue != nil {
			schema.WithMax(*spec.MaxValue)
		}
	default:
		schema = openapi3.NewStringSchema()
		if staticRequired {
			schema.WithMinLength(1)
		}
		if spec.Type == model.FieldTypeEmail && spec.Invisible.IsStatic(false) {
			schema.WithFormat("email")
		}
		if spec.Type == model.FieldTypePassword {
			schema.WithFormat("password")
		}
	}

	schema.Title = spec.Label
	if ext := extensions(spec); len(ext) > 0 {
		schema.Extensions = map[string]any{ExtensionKey: ext}
	}
	return schema
}

func extensions(spec model.FieldSpec) map[string]any {
	ext := map[string]any{"type": string(spec.Type)}
	if src := spec.Required.Source(); src != "" {
		ext["requiredWhen"] = src
	}
	if src := spec.Invisible.Source(); src != "" {
		ext["invisibleWhen"] = src
	}
	if initial := spec.InitialString(); initial != "" {
		ext["initialValue"] = initial
	}
	return ext
}

// ValidatePayload checks payload against the schema exported for specs.
func ValidatePayload(specs []model.FieldSpec, payload model.Payload) error {
	return SchemaFor(specs).VisitJSON(map[string]any(payload), openapi3.MultiErrors())
}
