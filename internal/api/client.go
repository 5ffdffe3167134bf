// Package api is the typed HTTP client for the NovelFlow backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBaseURL = "http://localhost:8000/api/v1"

// TokenSource supplies the bearer token attached to each request. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	AuthToken() (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

func (t StaticToken) AuthToken() (string, error) { return string(t), nil }

// Client talks to the backend. There is no retry, backoff or client-side
// timeout; use the request context to bound a call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("component", "api"))
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do sends one request. A nil out discards the body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	reqID := uuid.NewString()
	log := c.log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
	)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			log.Error("encode request", zap.Error(err))
			return &Error{Kind: KindEncode, Method: method, Path: path, Err: err}
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		log.Error("build request", zap.Error(err))
		return &Error{Kind: KindEncode, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	c.authorize(req, log)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		return &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("read response", zap.Int("status", resp.StatusCode), zap.Error(err))
		return &Error{Kind: KindTransport, Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newServerError(method, path, resp.StatusCode, data)
		log.Error("server error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(data)),
		)
		return apiErr
	}

	log.Debug("ok", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error("decode response", zap.Int("status", resp.StatusCode), zap.Error(err))
		return &Error{
			Kind:       KindDecode,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(data),
			Err:        err,
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request, log *zap.Logger) {
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens.AuthToken()
	if err != nil {
		log.Warn("read auth token", zap.Error(err))
		return
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

func escape(id string) string {
	return url.PathEscape(id)
}

func byProject(projectID string) url.Values {
	if projectID == "" {
		return nil
	}
	return url.Values{"project_id": {projectID}}
}

func resource(collection, id string, rest ...string) string {
	p := fmt.Sprintf("/%s/%s", collection, escape(id))
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
