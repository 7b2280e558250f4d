// Package prompt fills a registered form from the terminal. Every visible
// field is prompted once, then the form is submitted; fields that fail
// validation are reported and prompted again until the form passes or the
// attempt budget runs out.
package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/internal/logging"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/registry"
)

const defaultMaxAttempts = 3

// Session runs terminal form fills.
type Session struct {
	driver       Driver
	outputFormat OutputFormat
	theme        Theme
	maxAttempts  int
	logger       *slog.Logger
}

// New builds a session with the survey driver, JSON output and three
// attempts unless overridden.
func New(options ...Option) *Session {
	s := &Session{
		outputFormat: OutputFormatJSON,
		maxAttempts:  defaultMaxAttempts,
		logger:       logging.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// ContentType reports the serialization Fill produces.
func (s *Session) ContentType() string {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Fill prompts for def and returns the serialized payload.
func (s *Session) Fill(ctx context.Context, def registry.Definition) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	f, err := def.NewForm(form.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	specs := f.Specs()
	pending := append([]model.FieldSpec(nil), specs...)
	firstRound := true

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		for _, spec := range pending {
			// on the first round hidden fields are skipped; a failed hidden
			// field is still asked for, or the form could never pass
			if firstRound && spec.Invisible.Resolve(f.Snapshot().Fields) {
				continue
			}
			if err := s.promptField(ctx, f, spec); err != nil {
				return nil, err
			}
		}
		firstRound = false

		// the last answer acts as Enter
		if payload, ok := f.Submit(); ok {
			s.logger.Debug("form filled", slog.String("form", def.Name), slog.Int("attempts", attempt))
			return s.serialize(specs, payload)
		}

		pending = pending[:0]
		for _, spec := range specs {
			if msg := f.Error(spec.ID); msg != "" {
				pending = append(pending, spec)
				if err := s.driver.Info(ctx, s.theme.ErrorPrefix+spec.Label+": "+msg); err != nil {
					return nil, err
				}
			}
		}
	}

	return nil, fmt.Errorf("%w: %s still invalid after %d attempts", ErrTooManyAttempts, def.Name, s.maxAttempts)
}

func (s *Session) promptField(ctx context.Context, f *form.Form, spec model.FieldSpec) error {
	current, _ := f.Value(spec.ID)
	message := s.theme.PromptPrefix + spec.Label

	var (
		value string
		err   error
	)
	switch spec.Type {
	case model.FieldTypePassword:
		value, err = s.driver.Password(ctx, InputConfig{Message: message, Default: current, Help: help(spec)})
	case model.FieldTypeText:
		value, err = s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current, Help: help(spec)})
	default:
		value, err = s.driver.Input(ctx, InputConfig{Message: message, Default: current, Help: help(spec)})
	}
	if err != nil {
		return err
	}
	return f.UpdateField(spec.ID, value)
}

func help(spec model.FieldSpec) string {
	var parts []string
	if spec.Required.IsStatic(true) {
		parts = append(parts, "required")
	} else if src := spec.Required.Source(); src != "" {
		parts = append(parts, "required when "+src)
	}
	switch spec.Type {
	case model.FieldTypeEmail:
		parts = append(parts, "email address")
	case model.FieldTypeNumber:
		if spec.MinValue != nil {
			parts = append(parts, "min "+strconv.FormatFloat(*spec.MinValue, 'f', -1, 64))
		}
		if spec.MaxValue != nil {
			parts = append(parts, "max "+strconv.FormatFloat(*spec.MaxValue, 'f', -1, 64))
		}
	}
	return strings.Join(parts, ", ")
}

func (s *Session) serialize(specs []model.FieldSpec, payload model.Payload) ([]byte, error) {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, spec := range specs {
			values.Set(spec.ID, scalar(payload[spec.ID]))
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, spec := range specs {
			fmt.Fprintf(&b, "%s=%s\n", spec.ID, scalar(payload[spec.ID]))
		}
		return []byte(b.String()), nil
	default:
		return json.Marshal(payload)
	}
}

func scalar(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
