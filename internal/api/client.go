// Package api is the remote gateway: it builds requests against the
// configured base URL, attaches the bearer credential when asked to, and turns
// non-2xx responses into *Error values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource provides the current bearer credential. An empty token means
// the session has none.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	logLevel   slog.Level
}

type Option func(*Client)

// WithHTTPClient replaces the transport. The default client has no timeout:
// the caller's context bounds every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRequestLogging raises request/response log lines from debug to info.
func WithRequestLogging(on bool) Option {
	return func(c *Client) {
		if on {
			c.logLevel = slog.LevelInfo
		} else {
			c.logLevel = slog.LevelDebug
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
		logLevel:   slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base, or ErrNoBaseURL.
func (c *Client) BaseURL() (string, error) {
	if c.baseURL == "" {
		return "", ErrNoBaseURL
	}
	return c.baseURL, nil
}

type RequestOptions struct {
	Method string
	// Body is JSON-encoded when non-nil.
	Body any
	// Auth attaches the bearer credential when one is present. Without one
	// the request is still sent and the server decides.
	Auth bool
}

type Response struct {
	Status int
	// Body is the decoded JSON value, or the raw text when the payload was
	// not valid JSON, or nil for an empty payload.
	Body any
	Raw  []byte
}

// Request performs exactly one HTTP exchange. There is no retry.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	base, err := c.BaseURL()
	if err != nil {
		return nil, err
	}
	target := path
	if !strings.HasPrefix(path, "http") {
		target = base + path
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	token := ""
	if opts.Auth && c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Log(ctx, c.logLevel, "api request",
		"method", method, "url", target, "auth", token != "", "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %w", ErrNetwork, method, path, err)
	}

	level := c.logLevel
	if resp.StatusCode >= 400 && level < slog.LevelInfo {
		level = slog.LevelInfo
	}
	c.logger.Log(ctx, level, "api response",
		"method", method, "url", target, "status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(), "request_id", requestID)

	parsed := parseBody(raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, parsed)
	}
	return &Response{Status: resp.StatusCode, Body: parsed, Raw: raw}, nil
}

func parseBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// call performs the request and decodes a successful payload into T. An
// empty payload yields the zero T.
func call[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (T, error) {
	var out T
	resp, err := c.Request(ctx, path, opts)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(resp.Raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Raw, &out); err != nil {
		return out, fmt.Errorf("decoding %s response: %w", path, err)
	}
	return out, nil
}
