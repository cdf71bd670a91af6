// Package api is the single chokepoint for outbound calls to the department
// backend. Every method normalizes transport and decode failures into a
// uniform Result instead of returning an error, so callers always branch on
// Success, Status and Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Observer counts backend call outcomes, typically backed by Prometheus.
type Observer interface {
	ObserveBackendCall(outcome string)
}

// Client talks to the department backend. It is stateless with respect to
// sessions: the bearer token is supplied per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	observer   Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver attaches a call outcome observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient constructs a Client for the given backend base URL. Calls run
// through a circuit breaker so a dead backend fails fast instead of stalling
// every page render.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "department-backend",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("backend circuit state change",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			}
		},
	})
	return c
}

// Call performs one backend request. A non-empty token is attached as a
// bearer credential. The body, when non-nil, is encoded as JSON. Call never
// returns a Go error: every failure mode ends up in the Result.
func (c *Client) Call(ctx context.Context, token, method, path string, body any) Result {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return failure("encode request: " + err.Error())
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return failure("build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	raw, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return rawResponse{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: data}, nil
	})
	if err != nil {
		c.observe("error")
		return failure(err.Error())
	}

	resp := raw.(rawResponse)
	result := Result{Status: resp.status}
	result.Success = resp.status >= 200 && resp.status < 300

	if isJSON(resp.contentType) && len(resp.body) > 0 {
		result.Data = json.RawMessage(resp.body)
	} else {
		result.Text = string(resp.body)
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		c.observe("unauthorized")
		result.Error = "unauthorized"
	case !result.Success:
		c.observe("error")
		result.Error = errorMessage(result)
	default:
		c.observe("ok")
	}
	return result
}

type rawResponse struct {
	status      int
	contentType string
	body        []byte
}

func (c *Client) observe(outcome string) {
	if c.observer != nil {
		c.observer.ObserveBackendCall(outcome)
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
