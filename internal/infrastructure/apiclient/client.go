// Package apiclient is the typed HTTP client for the marketplace REST API.
//
// Every call takes the caller's context and, where the endpoint is protected,
// the bearer token of the tab that triggered it. Transport failures wrap
// domain.ErrUpstreamUnavailable; HTTP failures come back as *Error.
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

	"github.com/rs/zerolog"

	"github.com/household-services/frontend/internal/core/domain"
	"github.com/household-services/frontend/internal/core/ports"
)

const defaultTimeout = 8 * time.Second

// Error is a non-2xx answer from the API, carrying its own message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("marketplace api: %d %s", e.Status, e.Message)
}

func (e *Error) HTTPStatus() int {
	return e.Status
}

func (e *Error) UpstreamMessage() string {
	return e.Message
}

// Unwrap lets callers treat 5xx answers like an unreachable API.
func (e *Error) Unwrap() error {
	if e.Status >= http.StatusInternalServerError {
		return domain.ErrUpstreamUnavailable
	}
	return nil
}

var (
	_ ports.AuthAPI        = (*Client)(nil)
	_ ports.MarketplaceAPI = (*Client)(nil)
	_ ports.ExportAPI      = (*Client)(nil)
)

// Client talks to the marketplace API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New returns a Client for baseURL. A non-positive timeout uses defaultTimeout.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// messageResponse is the {"message": ...} envelope of most mutations.
type messageResponse struct {
	Message string `json:"message"`
}

// errorBody covers both resource errors ({"error"}) and JWT errors ({"msg"}).
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send executes req and returns the response for any HTTP status. Transport
// errors are wrapped with domain.ErrUpstreamUnavailable.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("marketplace api unreachable")
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrUpstreamUnavailable, req.Method, req.URL.Path, err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("marketplace api call")
	return resp, nil
}

// do runs a JSON round trip. out may be nil when the body is not needed.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return c.exchange(req, out)
}

func (c *Client) exchange(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// message runs a mutation and returns the API's confirmation message.
func (c *Client) message(ctx context.Context, method, path, token string, body any) (string, error) {
	var out messageResponse
	if err := c.do(ctx, method, path, token, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Error != "":
			msg = body.Error
		case body.Msg != "":
			msg = body.Msg
		case body.Message != "":
			msg = body.Message
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

// AsError is errors.As for *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Ping reports whether the API answers at all. Any non-5xx response counts
// as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/services", "", nil)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return nil
}
