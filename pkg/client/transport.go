package client

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// tokenTransport stamps the Authorization header on cloned requests.
type tokenTransport struct {
	base     http.RoundTripper
	source   oauth2.TokenSource
	scheme   string
	observer func(string)

	mu   sync.Mutex
	last string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.source.Token()
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, fmt.Errorf("client: token: %w", err)
	}
	t.observe(tok.AccessToken)

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.header(tok))
	return t.transport().RoundTrip(clone)
}

func (t *tokenTransport) header(tok *oauth2.Token) string {
	if t.scheme == "" {
		return tok.AccessToken
	}
	return t.scheme + " " + tok.AccessToken
}

func (t *tokenTransport) observe(token string) {
	t.mu.Lock()
	changed := token != t.last
	t.last = token
	t.mu.Unlock()

	if changed && t.observer != nil {
		t.observer(token)
	}
}

func (t *tokenTransport) transport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}
