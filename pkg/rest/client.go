// Package rest implements the JSON round trips to a branch-versioned feature
// service, with a uniform error surface.
//
// The service reports failures in two ways: a non-2xx response, or a
// "success":false payload embedded in a 200 response. Both decode into
// *APIError here, so callers classify failures from a single type.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oneconcern/geomon/pkg/rest/status"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout        = 60 * time.Second
	defaultHTTPConnectTimeout = 5 * time.Second
	defaultHTTPTLSTimeout     = 5 * time.Second
)

// see https://medium.com/@nate510/don-t-use-go-s-default-http-client-4804cb19f779
func defaultHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: defaultHTTPConnectTimeout,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaultHTTPTLSTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   defaultHTTPTimeout,
	}
}

// APIError is a failure reported by the remote service, with the remote code
// and message kept verbatim.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Code, e.Message)
}

// Option configures a rest client
type Option func(*Client)

// WithHTTPClient overrides the default tuned http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets a static bearer token attached to every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = func() string { return token }
	}
}

// WithTokenProvider sets a callback yielding the bearer token per request,
// e.g. to plug in a refreshing credentials source
func WithTokenProvider(provider func() string) Option {
	return func(c *Client) {
		if provider != nil {
			c.token = provider
		}
	}
}

// WithLogger injects a logging facility into the client
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}

// Client executes authenticated JSON POST round trips against the service.
type Client struct {
	base  *url.URL
	http  *http.Client
	token func() string
	l     *zap.Logger
	_     struct{}
}

// NewClient builds a client for a service root URL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("service URL %q must be absolute", baseURL)
	}
	c := &Client{
		base: u,
		http: defaultHTTPClient(),
		l:    zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c, nil
}

// envelope is the part of every response carrying the error surface
type envelope struct {
	Success *bool     `json:"success,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// PostJSON executes one round trip: args marshaled as the JSON request body,
// the response body unmarshaled into result (which may be nil when the caller
// only cares about success).
func (c *Client) PostJSON(ctx context.Context, route string, args, result interface{}) error {
	body := []byte("{}")
	if args != nil {
		var err error
		body, err = json.Marshal(args)
		if err != nil {
			return fmt.Errorf("marshaling request for %s: %w", route, err)
		}
	}

	target := c.base.JoinPath(strings.TrimPrefix(route, "/")).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.l.Debug("service round trip", zap.String("route", route))
	resp, err := c.http.Do(req)
	if err != nil {
		return status.ErrNetwork.WrapMessage("POST %s: %v", route, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return status.ErrNetwork.WrapMessage("reading response from %s: %v", route, err)
	}

	if apiErr := decodeFailure(resp.StatusCode, payload); apiErr != nil {
		c.l.Debug("service reported failure",
			zap.String("route", route),
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return status.ErrInvalidResponse.WrapMessage("POST %s: %v", route, err)
	}
	return nil
}

// decodeFailure turns either failure shape into an *APIError, or nil on success
func decodeFailure(statusCode int, payload []byte) *APIError {
	var env envelope
	decodable := json.Unmarshal(payload, &env) == nil

	if decodable && env.Error != nil {
		return env.Error
	}
	if statusCode < 200 || statusCode >= 300 {
		return &APIError{Code: statusCode, Message: strings.TrimSpace(string(payload))}
	}
	if decodable && env.Success != nil && !*env.Success {
		return &APIError{Code: statusCode, Message: "service reported an unspecified failure"}
	}
	return nil
}
