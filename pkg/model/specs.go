package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

var (
	// ErrEmptyID is returned when a spec has no id.
	ErrEmptyID = errors.New("model: field id is required")
	// ErrDuplicateField is returned when two specs share an id.
	ErrDuplicateField = errors.New("model: duplicate field id")
	// ErrUnknownType is returned for field types outside the enum.
	ErrUnknownType = errors.New("model: unknown field type")
)

// CheckSpecs verifies ids are present and unique and types are known.
func CheckSpecs(specs []FieldSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		id := strings.TrimSpace(spec.ID)
		if id == "" {
			return fmt.Errorf("%w (index %d)", ErrEmptyID, i)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateField, id)
		}
		seen[id] = struct{}{}
		if !spec.Type.Valid() {
			return fmt.Errorf("%w: %q (field %q)", ErrUnknownType, spec.Type, id)
		}
	}
	return nil
}

// FindSpec returns the spec with the given id.
func FindSpec(specs []FieldSpec, id string) (FieldSpec, bool) {
	for _, spec := range specs {
		if spec.ID == id {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// CloneSpecs copies the slice so callers cannot mutate a form's specs.
func CloneSpecs(specs []FieldSpec) []FieldSpec {
	if specs == nil {
		return nil
	}
	out := make([]FieldSpec, len(specs))
	for i, spec := range specs {
		out[i] = spec
		if spec.MinValue != nil {
			out[i].MinValue = Float(*spec.MinValue)
		}
		if spec.MaxValue != nil {
			out[i].MaxValue = Float(*spec.MaxValue)
		}
	}
	return out
}

// EqualSpecs deeply compares two spec lists, order included.
func EqualSpecs(a, b []FieldSpec) bool {
	if len(a) != len(b) {
		return false
	}
	// Requirement.Equal is picked up by cmp, so predicates never reach
	// reflection-based comparison.
	return cmp.Equal(a, b)
}

// InitialSnapshot builds the pristine snapshot for specs: default values and
// no errors.
func InitialSnapshot(specs []FieldSpec) Snapshot {
	snap := Snapshot{
		Fields: make(Fields, len(specs)),
		Errors: make(Errors, len(specs)),
	}
	for _, spec := range specs {
		snap.Fields[spec.ID] = spec.InitialString()
		snap.Errors[spec.ID] = ""
	}
	return snap
}

func marshalString(s string) ([]byte, error) {
	return json.Marshal(s)
}
