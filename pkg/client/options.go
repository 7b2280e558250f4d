package client

import (
	"net/http"

	"golang.org/x/oauth2"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenSource authorises every request with a token from src.
func WithTokenSource(src oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

// WithAuthScheme sets the Authorization scheme, e.g. "Bearer". The default
// sends the raw token with no scheme.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		c.scheme = scheme
	}
}

// WithTokenObserver is called whenever the token in use changes, so callers
// can persist refreshed tokens.
func WithTokenObserver(fn func(token string)) Option {
	return func(c *Client) {
		c.observer = fn
	}
}
