package apiclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures the client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, for custom transports
// or testing. Nil clients are ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout overrides the fixed per-request ceiling.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets the structured logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTokenSource sets the live token callback at construction time.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = src
	}
}

// WithAuthFailureHandler sets the 401 callback at construction time.
func WithAuthFailureHandler(h AuthFailureHandler) Option {
	return func(c *Client) {
		c.onAuthFailure = h
	}
}

// WithDefaultHeader adds a header attached to every outbound request.
func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		if key != "" && value != "" {
			c.defaultHeaders[key] = value
		}
	}
}
