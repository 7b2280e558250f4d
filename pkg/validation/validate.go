// Package validation maps field specs and current values to a per-field
// error map. Validate is pure: it reads the values it is given and never
// mutates them.
package validation

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Kind classifies a field issue.
type Kind string

const (
	MissingRequiredValue Kind = "missing_required_value"
	InvalidEmailFormat   Kind = "invalid_email_format"
	InvalidNumberFormat  Kind = "invalid_number_format"
	BelowMinimum         Kind = "below_minimum"
	AboveMaximum         Kind = "above_maximum"
)

// Issue is a single field failure.
type Issue struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Result is the outcome of one validation pass. Errors only holds failing
// fields; Issues lists the same failures in spec order.
type Result struct {
	Errors model.Errors `json:"errors"`
	Issues []Issue      `json:"issues,omitempty"`
	Valid  bool         `json:"valid"`
}

// Validate runs one validation pass over specs, in list order.
func Validate(specs []model.FieldSpec, fields model.Fields) Result {
	result := Result{Errors: make(model.Errors)}

	for _, spec := range specs {
		if issue, failed := check(spec, fields); failed {
			result.Errors[spec.ID] = issue.Message
			result.Issues = append(result.Issues, issue)
		}
	}

	result.Valid = len(result.Issues) == 0
	return result
}

func check(spec model.FieldSpec, fields model.Fields) (Issue, bool) {
	required := spec.Required.Resolve(fields)
	invisible := spec.Invisible.Resolve(fields)
	value := fields[spec.ID]

	fail := func(kind Kind, msg string) (Issue, bool) {
		return Issue{Field: spec.ID, Kind: kind, Message: msg}, true
	}

	if required && value == "" {
		return fail(MissingRequiredValue, fmt.Sprintf("%s is required", spec.Label))
	}

	switch spec.Type {
	case model.FieldTypeEmail:
		if !invisible && !IsEmail(value) {
			return fail(InvalidEmailFormat, "Invalid email")
		}
	case model.FieldTypeNumber:
		// Only a statically required number is format checked; optional or
		// conditionally required numbers fall through to the bound checks.
		if spec.Required.IsStatic(true) && !IsNumeric(value) {
			return fail(InvalidNumberFormat, "Invalid number")
		}
		number, ok := ParseFloat(value)
		if !ok {
			return Issue{}, false
		}
		if spec.MinValue != nil && number < *spec.MinValue {
			return fail(BelowMinimum, fmt.Sprintf("%s cannot be less than %s", spec.Label, formatBound(*spec.MinValue)))
		}
		if spec.MaxValue != nil && number > *spec.MaxValue {
			return fail(AboveMaximum, fmt.Sprintf("%s cannot be more than %s", spec.Label, formatBound(*spec.MaxValue)))
		}
	}

	return Issue{}, false
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
