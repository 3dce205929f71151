// Package apiclient talks to the remote registry backend. Every entity is
// exposed as a Collection over one shared resty client, so the bearer token
// hook, timeouts, cookies and metrics apply to every request alike.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	e "github.com/gartstein/guardroster/internal/console/errors"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTimeout = 15 * time.Second

// Recorder observes completed API calls.
type Recorder interface {
	ObserveRequest(entity, operation string, status int, err error, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, string, int, error, time.Duration) {}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (a *APIError) Error() string {
	if a.Message == "" {
		return fmt.Sprintf("api error: status %d", a.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", a.Status, a.Message)
}

// UserMessage is the message the backend wants shown to the operator.
func (a *APIError) UserMessage() string { return a.Message }

func (a *APIError) Unwrap() error {
	switch a.Status {
	case http.StatusNotFound:
		return e.ErrNotFound
	case http.StatusUnauthorized:
		return e.ErrUnauthenticated
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return e.ErrInvalidInput
	}
	return nil
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the shared transport to the backend.
type Client struct {
	http     *resty.Client
	recorder Recorder
	logger   *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithRequestHook runs hook before every request, e.g. to attach credentials.
func WithRequestHook(hook resty.RequestMiddleware) Option {
	return func(c *Client) {
		c.http.OnBeforeRequest(hook)
	}
}

func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	h := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c := &Client{
		http:     h,
		recorder: nopRecorder{},
		logger:   logger.Named("api_client"),
	}
	h.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describes one backend request.
type call struct {
	entity    string
	operation string
	method    string
	path      string
	pathID    string
	body      any
	out       any
}

func (c *Client) do(ctx context.Context, k call) error {
	if k.path == "" {
		return fmt.Errorf("%s %s: no endpoint: %w", k.entity, k.operation, e.ErrInvalidInput)
	}
	req := c.http.R().SetContext(ctx)
	if k.pathID != "" {
		req.SetPathParam("id", k.pathID)
	}
	if k.body != nil {
		req.SetBody(k.body)
	}

	start := time.Now()
	resp, err := req.Execute(k.method, k.path)
	took := time.Since(start)
	if err != nil {
		c.recorder.ObserveRequest(k.entity, k.operation, 0, err, took)
		c.logger.Error("request failed",
			zap.String("entity", k.entity),
			zap.String("operation", k.operation),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", k.entity, k.operation, err)
	}

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		_ = json.Unmarshal(resp.Body(), apiErr)
		c.recorder.ObserveRequest(k.entity, k.operation, apiErr.Status, apiErr, took)
		c.logger.Warn("backend rejected request",
			zap.String("entity", k.entity),
			zap.String("operation", k.operation),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return fmt.Errorf("%s %s: %w", k.entity, k.operation, apiErr)
	}

	c.recorder.ObserveRequest(k.entity, k.operation, resp.StatusCode(), nil, took)
	if k.out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), k.out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", k.entity, k.operation, err)
	}
	return nil
}
