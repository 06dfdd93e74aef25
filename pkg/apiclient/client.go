package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// TokenSource returns the current bearer token, or "" when no session exists.
// It is consulted on every outbound request so a long-lived client always
// sees the live token, not a snapshot taken at construction time.
type TokenSource func() string

// AuthFailureHandler is invoked when the backend answers 401 to a request
// that was not itself targeting a public endpoint. Implementations must be
// idempotent: repeated 401s while already logged out are harmless no-ops.
type AuthFailureHandler func()

// Client is the single long-lived HTTP client shared by every service that
// talks to the NutriHealth backend. It decorates outbound requests with the
// bearer token and converts inbound failures into the package error taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	mu             sync.RWMutex
	defaultHeaders map[string]string
	tokenSource    TokenSource
	onAuthFailure  AuthFailureHandler
}

// DefaultTimeout bounds every outbound request. There is no cancellation
// beyond this ceiling; exceeding it surfaces as a network failure.
const DefaultTimeout = 10 * time.Second

// New creates a client for the backend at baseURL (including any path
// prefix, e.g. "https://api.example.com/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log:            slog.Default(),
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetTokenSource registers the live token callback. The session manager
// installs itself here at construction.
func (c *Client) SetTokenSource(src TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSource = src
}

// SetAuthFailureHandler registers the 401 callback. The session manager
// installs its Logout here at construction.
func (c *Client) SetAuthFailureHandler(h AuthFailureHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthFailure = h
}

// SetAuthorization sets the default Authorization header to the given bearer
// token, so requests issued before the session state settles are already
// authorized.
func (c *Client) SetAuthorization(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultHeaders["Authorization"] = "Bearer " + token
}

// ClearAuthorization removes the default Authorization header.
func (c *Client) ClearAuthorization() {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.defaultHeaders, "Authorization")
}

// Authorization returns the current default Authorization header value.
func (c *Client) Authorization() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.defaultHeaders["Authorization"]
	return value, ok
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into
// out. Both body and out may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Public-endpoint detection is evaluated fresh per request: the same
	// path may be public for one method and protected for another.
	public := isPublicEndpoint(method, path)
	c.decorate(req, public)

	c.log.DebugContext(ctx, "outbound request", "method", method, "path", path, "public", public)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "request failed", "method", method, "path", path, "error", err)
		return errors.Join(ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.handleFailure(ctx, method, path, public, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Join(ErrDecode, err)
		}
	}

	return nil
}

// decorate applies default headers and the live bearer token. Public
// endpoints never carry Authorization, even when a stale token is still
// stored in the default headers.
func (c *Client) decorate(req *http.Request, public bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for key, value := range c.defaultHeaders {
		if public && key == "Authorization" {
			continue
		}
		req.Header.Set(key, value)
	}

	if !public && c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// handleFailure converts an HTTP error response into an *Error, firing the
// auth-failure callback on 401 for protected endpoints before propagating
// the error to the caller. The caller always receives the error; nothing is
// silently retried.
func (c *Client) handleFailure(ctx context.Context, method, path string, public bool, resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && !public {
		c.mu.RLock()
		onAuthFailure := c.onAuthFailure
		c.mu.RUnlock()

		if onAuthFailure != nil {
			c.log.WarnContext(ctx, "session expired, forcing logout", "method", method, "path", path)
			onAuthFailure()
		}
	}

	c.log.DebugContext(ctx, "request rejected",
		"method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)

	return apiErr
}

// isPublicEndpoint reports whether the request targets a route reachable
// without a bearer token: the credential exchange endpoint, or account
// creation (POST against the users collection). GET /users/{id}/ remains
// protected.
func isPublicEndpoint(method, path string) bool {
	if strings.Contains(path, "/login") {
		return true
	}
	return method == http.MethodPost && strings.Contains(path, "/users")
}
