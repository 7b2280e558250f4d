package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType enumerates the input kinds supported by the engine.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypePassword FieldType = "password"
	FieldTypeText     FieldType = "text"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeString, FieldTypeEmail, FieldTypeNumber, FieldTypePassword, FieldTypeText:
		return true
	default:
		return false
	}
}

// ParseFieldType normalises a raw type name.
func ParseFieldType(raw string) (FieldType, error) {
	t := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}

// Fields maps field ids to their current raw value. The empty string is the
// absent value.
type Fields map[string]string

// Clone returns an independent copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Errors maps field ids to their current error message. The empty string
// means the field has no error.
type Errors map[string]string

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Any reports whether at least one field carries an error.
func (e Errors) Any() bool {
	for _, msg := range e {
		if msg != "" {
			return true
		}
	}
	return false
}

// Compact drops empty entries, which is the shape transports expose.
func (e Errors) Compact() Errors {
	out := make(Errors)
	for k, v := range e {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Snapshot is the value+error state of every field in a form instance.
type Snapshot struct {
	Fields Fields `json:"fields"`
	Errors Errors `json:"errors"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{Fields: s.Fields.Clone(), Errors: s.Errors.Clone()}
}

// Payload is the validated, type-coerced submission record. Number fields
// hold a float64 or nil, every other field holds its raw string.
type Payload map[string]any

// FieldSpec declares one form field.
type FieldSpec struct {
	ID           string
	Type         FieldType
	Label        string
	Required     Requirement
	Invisible    Requirement
	InitialValue any
	// MinValue and MaxValue bound number fields when non-nil. A bound of 0
	// is enforced; a nil pointer means unbounded.
	MinValue *float64
	MaxValue *float64
}

// InitialString renders InitialValue into the raw string form stored in
// Fields. nil, false and empty values become "".
func (s FieldSpec) InitialString() string {
	switch v := s.InitialValue.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	case int64:
		if v == 0 {
			return ""
		}
		return strconv.FormatInt(v, 10)
	case bool:
		if !v {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(v)
	}
}

// Float returns a pointer to v, handy for MinValue/MaxValue literals.
func Float(v float64) *float64 {
	return &v
}
