// Package apiclient talks to the remote auth and CRUD API on behalf of the
// caller bound to each request context.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

const (
	defaultBaseURL = "http://localhost:5000/api"
	defaultTimeout = 10 * time.Second

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20

	RequestIDHeader = "X-Request-ID"
)

// RequestInterceptor runs on every outbound request before it is sent.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor runs on every response before the body is decoded. A
// non-nil error aborts the call with that error.
type ResponseInterceptor func(req *http.Request, resp *http.Response) error

// Observer receives one notification per completed round trip. status is 0
// when the request never got a response.
type Observer func(method, endpoint string, status int, elapsed time.Duration)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
	Logger     zerolog.Logger
}

// Client is the single gateway to the remote API. It implements
// ports.AuthAPI and ports.LaboratoryAPI; Admin returns the ports.AdminAPI
// view sharing the same interceptor chain.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   zerolog.Logger

	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

var (
	_ ports.AuthAPI       = (*Client)(nil)
	_ ports.LaboratoryAPI = (*Client)(nil)
)

// New builds a client with the standard interceptor chain: bearer token and
// request id on the way out, session rejection on the way back.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:  baseURL,
		http:     hc,
		observer: cfg.Observer,
		logger:   cfg.Logger,
	}
	c.UseRequest(attachBearer, attachRequestID)
	c.UseResponse(rejectSession(cfg.Logger))
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) UseRequest(in ...RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, in...)
}

func (c *Client) UseResponse(in ...ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, in...)
}

// attachBearer adds the caller's token, when it holds one.
func attachBearer(req *http.Request) error {
	sess, ok := ports.SessionFromContext(req.Context())
	if !ok {
		return nil
	}
	if token, ok := sess.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func attachRequestID(req *http.Request) error {
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return nil
}

// rejectSession is the only place a 401 is handled: the caller's token is
// dropped and the call fails with domain.ErrSessionRejected.
func rejectSession(log zerolog.Logger) ResponseInterceptor {
	return func(req *http.Request, resp *http.Response) error {
		if resp.StatusCode != http.StatusUnauthorized {
			return nil
		}
		apiErr := decodeAPIError(resp)
		if sess, ok := ports.SessionFromContext(req.Context()); ok {
			sess.Invalidate()
		}
		log.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", req.Header.Get(RequestIDHeader)).
			Msg("session rejected by api")
		return fmt.Errorf("%w: %s", domain.ErrSessionRejected, apiErr.UserMessage())
	}
}

// do sends a JSON request to path and decodes a 2xx body into out (when not
// nil). Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, in := range c.requestInterceptors {
		if err := in(req); err != nil {
			return err
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("api: %s %s: %w", method, path, ctxErr)
		}
		return fmt.Errorf("api: %s %s: %w: %v", method, path, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, time.Since(start))

	for _, in := range c.responseInterceptors {
		if err := in(req, resp); err != nil {
			return err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp)
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("message", apiErr.Message).
			Msg("api call failed")
		return apiErr
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) observe(method, path string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer(method, endpointLabel(path), status, elapsed)
	}
}

// endpointLabel collapses numeric ids so metric labels stay bounded.
func endpointLabel(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var envelope APIError
	if err := json.Unmarshal(raw, &envelope); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	envelope.StatusCode = resp.StatusCode
	return &envelope
}
