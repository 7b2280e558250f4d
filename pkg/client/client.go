// Package client talks to a formkit server. Requests carry the token of an
// optional oauth2.TokenSource in the Authorization header.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/server"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultFetchLimit = 4
)

var (
	// ErrNotFound is returned when the server does not know the form.
	ErrNotFound = errors.New("client: form not found")
)

// APIError is a non-2xx response that is not a validation failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: server returned %d", e.Status)
	}
	return fmt.Sprintf("client: server returned %d: %s", e.Status, e.Message)
}

// ValidationError is returned by Submit when the server rejects the values.
type ValidationError struct {
	Errors model.Errors
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("client: %d field(s) failed validation", len(e.Errors))
}

// Client is a formkit API client. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	tokens   oauth2.TokenSource
	scheme   string
	observer func(string)
}

// New builds a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}

	c := &Client{baseURL: u}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	base := c.http
	if base == nil {
		base = &http.Client{Timeout: defaultTimeout}
	}
	if c.tokens != nil {
		wrapped := *base
		wrapped.Transport = &tokenTransport{
			base:     base.Transport,
			source:   c.tokens,
			scheme:   c.scheme,
			observer: c.observer,
		}
		base = &wrapped
	}
	c.http = base
	return c, nil
}

// ListForms returns the registered forms.
func (c *Client) ListForms(ctx context.Context) ([]server.FormSummary, error) {
	var out []server.FormSummary
	if err := c.do(ctx, http.MethodGet, "/api/forms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForm describes one form.
func (c *Client) GetForm(ctx context.Context, name string) (server.FormView, error) {
	var out server.FormView
	if err := c.do(ctx, http.MethodGet, "/api/forms/"+url.PathEscape(name), nil, &out); err != nil {
		return server.FormView{}, err
	}
	return out, nil
}

// Validate asks the server to validate fields without submitting.
func (c *Client) Validate(ctx context.Context, name string, fields model.Fields) (server.ValidateResponse, error) {
	var out server.ValidateResponse
	body := requestBody(fields)
	if err := c.do(ctx, http.MethodPost, "/api/forms/"+url.PathEscape(name)+"/validate", body, &out); err != nil {
		return server.ValidateResponse{}, err
	}
	return out, nil
}

// Submit posts fields. A 422 is returned as *ValidationError.
func (c *Client) Submit(ctx context.Context, name string, fields model.Fields) (server.SubmitResponse, error) {
	var out server.SubmitResponse
	body := requestBody(fields)
	if err := c.do(ctx, http.MethodPost, "/api/forms/"+url.PathEscape(name)+"/submit", body, &out); err != nil {
		return server.SubmitResponse{}, err
	}
	return out, nil
}

// FetchAll describes several forms concurrently. The first failure cancels
// the remaining requests.
func (c *Client) FetchAll(ctx context.Context, names ...string) (map[string]server.FormView, error) {
	views := make([]server.FormView, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultFetchLimit)
	for i, name := range names {
		g.Go(func() error {
			view, err := c.GetForm(gctx, name)
			if err != nil {
				return fmt.Errorf("client: fetch %q: %w", name, err)
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]server.FormView, len(names))
	for i, name := range names {
		out[name] = views[i]
	}
	return out, nil
}

func requestBody(fields model.Fields) server.FieldsRequest {
	req := server.FieldsRequest{Fields: make(map[string]any, len(fields))}
	for id, value := range fields {
		req.Fields[id] = value
	}
	return req
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var rejected server.RejectedResponse
		if err := json.Unmarshal(raw, &rejected); err != nil {
			return fmt.Errorf("client: decode validation error: %w", err)
		}
		return &ValidationError{Errors: rejected.Errors, Issues: rejected.Issues}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, errorMessage(raw))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
