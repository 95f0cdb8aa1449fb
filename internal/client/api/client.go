// Package api implements the REST gateway client: request building, bearer
// token attachment, and normalisation of every failure mode into *Error.
// It has no knowledge of session state; a 401 is broadcast to registered
// observers so the session layer can react without a circular dependency.
package api

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
	"sync"
	"time"

	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

// DefaultTimeout bounds every request; there are no retries at this layer.
const DefaultTimeout = 30 * time.Second

const maxResponseBody = 4 << 20

// TokenSource supplies the current bearer token. An empty string means
// "send the request unauthenticated".
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// Pagination is the list-endpoint paging block from the response meta.
type Pagination struct {
	Page       int `json:"page"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// envelope is the canonical response wrapper every endpoint family uses.
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
	Meta    *struct {
		Pagination Pagination `json:"pagination"`
	} `json:"meta"`
}

// Client is the single HTTP gateway all resource services go through.
type Client struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	log     logging.Logger

	mu             sync.Mutex
	onUnauthorized []func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// WithTokenSource sets the bearer-token supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the structured logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithHTTPClient replaces the underlying http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New builds a gateway client for the given API base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: DefaultTimeout},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the bearer-token supplier after construction.
// Needed because the session store that owns the token is itself built on
// top of this client.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// OnUnauthorized registers fn to run whenever any request comes back 401.
// Each callback fires exactly once per 401 response, before the error is
// returned to the caller.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

// Get issues a GET and decodes the envelope's data into out (if non-nil).
// The returned Pagination is non-nil only when the response carried one.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (*Pagination, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	return c.do(req, out)
}

// Post issues a JSON POST.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

// Put issues a JSON PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil, "")
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		r = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, nil, r, "application/json")
	if err != nil {
		return err
	}
	_, err = c.do(req, out)
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) (*Pagination, error) {
	start := time.Now()

	resp, err := c.hc.Do(req)
	if err != nil {
		apiErr := classifyTransport(err)
		c.log.Warn(req.Context(), "request failed",
			"method", req.Method, "path", req.URL.Path, "code", string(apiErr.Code))
		return nil, apiErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, classifyTransport(err)
	}

	c.log.Debug(req.Context(), "request done",
		"method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		c.notifyUnauthorized()
	}

	var env envelope
	decodable := json.Unmarshal(body, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var fields map[string][]string
		if decodable {
			if env.Error != "" {
				msg = env.Error
			}
			fields = env.Errors
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg, Fields: fields, Body: body}
	}

	if !decodable {
		return nil, &Error{Code: CodeUnknown, Message: "undecodable response body", Body: body}
	}

	// A well-formed 2xx with success:false is a business rejection, not a
	// transport problem; callers branch on the reason in Body.
	if !env.Success {
		return nil, &Error{Status: resp.StatusCode, Message: env.Error, Fields: env.Errors, Body: body}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{Code: CodeUnknown, Message: "decode response data: " + err.Error(), Body: body}
		}
	}

	if env.Meta != nil {
		p := env.Meta.Pagination
		return &p, nil
	}
	return nil, nil
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	fns := make([]func(), len(c.onUnauthorized))
	copy(fns, c.onUnauthorized)
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func classifyTransport(err error) *Error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Code: CodeNetwork, Message: "request cancelled"}
	}
	return &Error{Code: CodeNetwork, Message: err.Error()}
}
