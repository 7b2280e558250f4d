package server

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/registry"
	"github.com/goliatone/go-formkit/pkg/rule"
)

// Flag is the wire form of a requirement: a JSON bool, or the rule
// expression a computed requirement was compiled from.
type Flag struct {
	Static bool
	Expr   string
}

// FlagOf converts a requirement. Computed requirements built in code have no
// source and are exported as true.
func FlagOf(r model.Requirement) Flag {
	switch {
	case r.Source() != "":
		return Flag{Expr: r.Source()}
	case r.IsComputed():
		return Flag{Static: true}
	default:
		return Flag{Static: r.IsStatic(true)}
	}
}

// Requirement compiles the flag back into a requirement.
func (f Flag) Requirement() (model.Requirement, error) {
	if f.Expr == "" {
		return model.Static(f.Static), nil
	}
	return rule.Compile(f.Expr)
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if f.Expr != "" {
		return json.Marshal(f.Expr)
	}
	return json.Marshal(f.Static)
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*f = Flag{}
	case bool:
		*f = Flag{Static: value}
	case string:
		*f = Flag{Expr: value}
	default:
		return fmt.Errorf("server: flag must be a bool or an expression, got %s", data)
	}
	return nil
}

// Definition rebuilds a registry definition from a view, compiling rule
// expressions again.
func (v FormView) Definition() (registry.Definition, error) {
	def := registry.Definition{
		Name:        v.Name,
		Title:       v.Title,
		Description: v.Description,
		Fields:      make([]model.FieldSpec, 0, len(v.Fields)),
	}
	for _, field := range v.Fields {
		required, err := field.Required.Requirement()
		if err != nil {
			return registry.Definition{}, fmt.Errorf("server: field %q required: %w", field.ID, err)
		}
		invisible, err := field.Invisible.Requirement()
		if err != nil {
			return registry.Definition{}, fmt.Errorf("server: field %q invisible: %w", field.ID, err)
		}
		var initial any
		if field.InitialValue != "" {
			initial = field.InitialValue
		}
		def.Fields = append(def.Fields, model.FieldSpec{
			ID:           field.ID,
			Type:         field.Type,
			Label:        field.Label,
			Required:     required,
			Invisible:    invisible,
			InitialValue: initial,
			MinValue:     field.MinValue,
			MaxValue:     field.MaxValue,
		})
	}
	if err := model.CheckSpecs(def.Fields); err != nil {
		return registry.Definition{}, fmt.Errorf("server: form %q: %w", v.Name, err)
	}
	return def, nil
}
