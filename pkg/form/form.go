// Package form holds the per-instance state of a form: the current raw value
// and error of every field, the submission path that turns values into a
// typed payload, and the reset policy applied when the field specs change.
//
// A Form is owned by a single caller and is not safe for concurrent use.
// Snapshots handed out are copies.
package form

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

var (
	// ErrUnknownField is returned when an update targets an id that is not
	// part of the current specs.
	ErrUnknownField = errors.New("form: unknown field")
)

// Phase tracks where a form is in its edit/submit cycle.
type Phase int

const (
	Pristine Phase = iota
	Editing
	ValidationFailed
	ValidationPassed
)

func (p Phase) String() string {
	switch p {
	case Pristine:
		return "pristine"
	case Editing:
		return "editing"
	case ValidationFailed:
		return "validation_failed"
	case ValidationPassed:
		return "validation_passed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SubmitHandler receives the payload of a successful submission.
type SubmitHandler func(model.Payload)

// ResetEvent describes a reset caused by a spec change. Discarded lists the
// ids whose edited values were dropped, with the value they held.
type ResetEvent struct {
	Previous  model.Snapshot
	Current   model.Snapshot
	Discarded map[string]string
}

// Lossy reports whether user edits were lost.
func (e ResetEvent) Lossy() bool {
	return len(e.Discarded) > 0
}

// Form is the field state store and submission coordinator for one form
// instance.
type Form struct {
	specs    []model.FieldSpec
	snapshot model.Snapshot
	phase    Phase

	onSubmit SubmitHandler
	onReset  func(ResetEvent)
	logger   *slog.Logger
}

// New validates specs and builds a pristine form.
func New(specs []model.FieldSpec, options ...Option) (*Form, error) {
	if err := model.CheckSpecs(specs); err != nil {
		return nil, err
	}

	f := &Form{
		specs:  model.CloneSpecs(specs),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	f.snapshot = model.InitialSnapshot(f.specs)
	f.phase = Pristine
	return f, nil
}

// Specs returns a copy of the current specs.
func (f *Form) Specs() []model.FieldSpec {
	return model.CloneSpecs(f.specs)
}

// Phase reports the current phase.
func (f *Form) Phase() Phase {
	return f.phase
}

// Snapshot returns a copy of the current values and errors.
func (f *Form) Snapshot() model.Snapshot {
	return f.snapshot.Clone()
}

// Value returns the raw value for id.
func (f *Form) Value(id string) (string, bool) {
	v, ok := f.snapshot.Fields[id]
	return v, ok
}

// Error returns the current error for id, "" when there is none.
func (f *Form) Error(id string) string {
	return f.snapshot.Errors[id]
}

// UpdateField stores value for id and clears its error, whether or not value
// is itself valid. The error reappears only after the next failed GetData.
func (f *Form) UpdateField(id, value string) error {
	if _, ok := f.snapshot.Fields[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	f.snapshot.Fields[id] = value
	f.snapshot.Errors[id] = ""
	f.phase = Editing
	return nil
}

// SetSpecs replaces the specs. When the new list differs deeply from the
// current one the whole snapshot is re-initialised from the new defaults,
// discarding every edit, and true is returned. Equal lists are a no-op.
func (f *Form) SetSpecs(specs []model.FieldSpec) (bool, error) {
	if model.EqualSpecs(f.specs, specs) {
		return false, nil
	}
	if err := model.CheckSpecs(specs); err != nil {
		return false, err
	}

	previous := f.snapshot
	edited := editedValues(f.specs, previous.Fields)
	f.specs = model.CloneSpecs(specs)
	f.snapshot = model.InitialSnapshot(f.specs)
	f.phase = Pristine

	event := ResetEvent{
		Previous:  previous.Clone(),
		Current:   f.snapshot.Clone(),
		Discarded: discarded(edited, f.snapshot.Fields),
	}
	if event.Lossy() {
		f.logger.Warn("form specs changed; discarding edited values",
			slog.Int("fields", len(specs)),
			slog.String("discarded", strings.Join(sortedKeys(event.Discarded), ",")),
		)
	} else {
		f.logger.Debug("form specs changed", slog.Int("fields", len(specs)))
	}
	if f.onReset != nil {
		f.onReset(event)
	}
	return true, nil
}

// Reset restores every field to its default and clears all errors.
func (f *Form) Reset() {
	f.snapshot = model.InitialSnapshot(f.specs)
	f.phase = Pristine
}

// Validate runs a validation pass over the current values without touching
// the stored errors.
func (f *Form) Validate() validation.Result {
	return validation.Validate(f.specs, f.snapshot.Fields)
}

// GetData validates the current values. On failure the error map is stored
// and (nil, false) is returned; no partial data is ever returned. On success
// number fields are coerced to float64 (nil when unparsable) and every other
// field passes through unchanged.
func (f *Form) GetData() (model.Payload, bool) {
	result := f.Validate()
	if !result.Valid {
		errs := make(model.Errors, len(f.specs))
		for _, spec := range f.specs {
			errs[spec.ID] = result.Errors[spec.ID]
		}
		f.snapshot.Errors = errs
		f.phase = ValidationFailed
		f.logger.Debug("form validation failed", slog.Int("issues", len(result.Issues)))
		return nil, false
	}

	f.phase = ValidationPassed
	return Coerce(f.specs, f.snapshot.Fields), true
}

// Submit runs GetData and forwards a successful payload to the submit
// handler.
func (f *Form) Submit() (model.Payload, bool) {
	payload, ok := f.GetData()
	if !ok {
		return nil, false
	}
	if f.onSubmit != nil {
		f.onSubmit(payload)
	}
	return payload, true
}

// HandleKey reacts to a key press inside the form. Enter submits; every other
// key is ignored. It reports whether a payload was produced.
func (f *Form) HandleKey(key string) bool {
	if !IsEnter(key) {
		return false
	}
	_, ok := f.Submit()
	return ok
}

// IsEnter reports whether key names the Enter key.
func IsEnter(key string) bool {
	switch key {
	case "\r", "\n", "\r\n":
		return true
	}
	return strings.EqualFold(strings.TrimSpace(key), "enter")
}

// Coerce builds the payload for fields according to specs. Number fields
// that do not parse, or overflow to an infinity, become nil.
func Coerce(specs []model.FieldSpec, fields model.Fields) model.Payload {
	payload := make(model.Payload, len(specs))
	for _, spec := range specs {
		raw := fields[spec.ID]
		if spec.Type != model.FieldTypeNumber {
			payload[spec.ID] = raw
			continue
		}
		if number, ok := validation.ParseFloat(raw); ok && !math.IsInf(number, 0) {
			payload[spec.ID] = number
		} else {
			payload[spec.ID] = nil
		}
	}
	return payload
}

// editedValues returns the values that differ from the spec defaults.
func editedValues(specs []model.FieldSpec, fields model.Fields) map[string]string {
	out := make(map[string]string)
	for _, spec := range specs {
		if value := fields[spec.ID]; value != spec.InitialString() {
			out[spec.ID] = value
		}
	}
	return out
}

func discarded(edited map[string]string, current model.Fields) map[string]string {
	var out map[string]string
	for id, value := range edited {
		if next, ok := current[id]; ok && next == value {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[id] = value
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
