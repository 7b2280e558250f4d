package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/registry"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// FormSummary is one entry of the form listing.
type FormSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// FormView describes a registered form.
type FormView struct {
	FormSummary
	Fields []FieldView `json:"fields"`
}

// FieldView describes one field.
type FieldView struct {
	ID           string          `json:"id"`
	Type         model.FieldType `json:"type"`
	Label        string          `json:"label"`
	Required     Flag            `json:"required"`
	Invisible    Flag            `json:"invisible"`
	InitialValue string          `json:"initialValue,omitempty"`
	MinValue     *float64        `json:"minValue,omitempty"`
	MaxValue     *float64        `json:"maxValue,omitempty"`
}

// FieldsRequest is the body of validate and submit calls.
type FieldsRequest struct {
	Fields map[string]any `json:"fields"`
}

// ValidateResponse is returned by the validate route.
type ValidateResponse struct {
	Valid  bool               `json:"valid"`
	Errors model.Errors       `json:"errors"`
	Issues []validation.Issue `json:"issues"`
}

// SubmitResponse is returned for an accepted submission.
type SubmitResponse struct {
	ID   string        `json:"id"`
	Data model.Payload `json:"data"`
}

// RejectedResponse is returned with 422 when validation fails.
type RejectedResponse struct {
	Errors model.Errors       `json:"errors"`
	Issues []validation.Issue `json:"issues"`
}

// ViewOf renders a definition for the API.
func ViewOf(def registry.Definition) FormView {
	view := FormView{
		FormSummary: FormSummary{Name: def.Name, Title: def.Title, Description: def.Description},
		Fields:      make([]FieldView, 0, len(def.Fields)),
	}
	for _, spec := range def.Fields {
		view.Fields = append(view.Fields, FieldView{
			ID:           spec.ID,
			Type:         spec.Type,
			Label:        spec.Label,
			Required:     FlagOf(spec.Required),
			Invisible:    FlagOf(spec.Invisible),
			InitialValue: spec.InitialString(),
			MinValue:     spec.MinValue,
			MaxValue:     spec.MaxValue,
		})
	}
	return view
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	defs := s.registry.Definitions()
	out := make([]FormSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, FormSummary{Name: def.Name, Title: def.Title, Description: def.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ViewOf(def))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}
	f, ok := s.fill(w, r, def)
	if !ok {
		return
	}

	result := f.Validate()
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:  result.Valid,
		Errors: result.Errors,
		Issues: nonNilIssues(result.Issues),
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}
	f, ok := s.fill(w, r, def)
	if !ok {
		s.metrics.submission(def.Name, outcomeInvalid)
		return
	}

	payload, ok := f.Submit()
	if !ok {
		issues := f.Validate().Issues
		s.metrics.submission(def.Name, outcomeRejected)
		s.metrics.observeIssues(def.Name, issues)
		writeJSON(w, http.StatusUnprocessableEntity, RejectedResponse{
			Errors: f.Snapshot().Errors.Compact(),
			Issues: nonNilIssues(issues),
		})
		return
	}

	id := uuid.NewString()
	if s.onSubmit != nil {
		if err := s.onSubmit(r.Context(), def.Name, id, payload); err != nil {
			s.metrics.submission(def.Name, outcomeFailed)
			s.logger.ErrorContext(r.Context(), "submit hook failed",
				slog.String("form", def.Name),
				slog.String("submission_id", id),
				slog.Any("error", err),
			)
			writeError(w, http.StatusInternalServerError, "submission could not be stored")
			return
		}
	}

	s.metrics.submission(def.Name, outcomeAccepted)
	s.logger.InfoContext(r.Context(), "form submitted",
		slog.String("form", def.Name),
		slog.String("submission_id", id),
	)
	writeJSON(w, http.StatusOK, SubmitResponse{ID: id, Data: payload})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	doc := openapi.Document(s.registry, openapi.DocumentOptions{})
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (registry.Definition, bool) {
	def, err := s.registry.Get(chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, registry.ErrFormNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return registry.Definition{}, false
	}
	return def, true
}

// fill builds a fresh form for def and applies the request values.
func (s *Server) fill(w http.ResponseWriter, r *http.Request, def registry.Definition) (*form.Form, bool) {
	var req FieldsRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}

	f, err := def.NewForm(form.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}

	if err := req.Apply(f); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return f, true
}

// Apply writes the request values onto f in id order. Unknown ids and
// non-scalar values are errors.
func (req FieldsRequest) Apply(f *form.Form) error {
	ids := make([]string, 0, len(req.Fields))
	for id := range req.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		value, err := rawValue(req.Fields[id])
		if err != nil {
			return fmt.Errorf("field %q: %w", id, err)
		}
		if err := f.UpdateField(id, value); err != nil {
			return err
		}
	}
	return nil
}

// rawValue maps a JSON scalar onto the raw string a field stores.
func rawValue(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case bool:
		if value {
			return "true", nil
		}
		return "", nil
	default:
		return "", errors.New("value must be a string, number, bool or null")
	}
}

func nonNilIssues(issues []validation.Issue) []validation.Issue {
	if issues == nil {
		return []validation.Issue{}
	}
	return issues
}

// writeJSON encodes before writing the header so an unencodable value turns
// into a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"response could not be encoded"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
