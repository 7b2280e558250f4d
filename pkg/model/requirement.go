package model

import "reflect"

// Predicate computes a flag from the current field values.
type Predicate func(Fields) bool

// Requirement is either a static flag or a predicate evaluated against the
// current values. The zero value is Static(false).
type Requirement struct {
	static    bool
	predicate Predicate
	source    string
}

// Static returns a fixed requirement.
func Static(v bool) Requirement {
	return Requirement{static: v}
}

// Computed wraps a predicate. A nil predicate yields Static(false).
func Computed(fn Predicate) Requirement {
	return Requirement{predicate: fn}
}

// ComputedFrom wraps a predicate compiled from source. Two requirements built
// from the same source compare equal.
func ComputedFrom(source string, fn Predicate) Requirement {
	return Requirement{predicate: fn, source: source}
}

// Resolve evaluates the requirement for the given values.
func (r Requirement) Resolve(fields Fields) bool {
	if r.predicate != nil {
		return r.predicate(fields)
	}
	return r.static
}

// IsComputed reports whether the requirement depends on field values.
func (r Requirement) IsComputed() bool {
	return r.predicate != nil
}

// IsStatic reports whether the requirement is the given fixed flag.
func (r Requirement) IsStatic(v bool) bool {
	return r.predicate == nil && r.static == v
}

// Source returns the expression a computed requirement was compiled from.
func (r Requirement) Source() string {
	return r.source
}

// Equal compares requirements. Computed requirements with a source compare by
// source text, otherwise by function identity.
func (r Requirement) Equal(other Requirement) bool {
	if r.predicate == nil || other.predicate == nil {
		return r.predicate == nil && other.predicate == nil && r.static == other.static
	}
	if r.source != "" || other.source != "" {
		return r.source == other.source
	}
	return reflect.ValueOf(r.predicate).Pointer() == reflect.ValueOf(other.predicate).Pointer()
}

// MarshalJSON exposes a static requirement as a bool and a computed one as
// its source, or "<computed>" when the source is unknown.
func (r Requirement) MarshalJSON() ([]byte, error) {
	switch {
	case r.predicate == nil && r.static:
		return []byte("true"), nil
	case r.predicate == nil:
		return []byte("false"), nil
	case r.source == "":
		return []byte(`"<computed>"`), nil
	default:
		return marshalString(r.source)
	}
}
