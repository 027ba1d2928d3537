// Package leetcode is the upstream access layer for the LeetCode problem
// catalog.
//
// It performs three operations (fetch a problem by slug, fetch one page
// of the catalog, fetch the full catalog with a REST fallback) and applies
// the same discipline to every HTTP request it sends:
//   - a rolling-window rate limit shared by all callers of a Client
//   - bounded exponential-backoff retries for transient failures only
//   - classification of every failure into one Kind (see errors.go)
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultGraphQLURL is the primary endpoint for detail and catalog queries.
	DefaultGraphQLURL = "https://leetcode.com/graphql/"
	// DefaultRESTURL is the non-paginated catalog used as fallback.
	DefaultRESTURL = "https://leetcode.com/api/problems/all/"
	// DefaultReferer is sent with every request; the API rejects some
	// requests without it.
	DefaultReferer = "https://leetcode.com"

	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 10
	DefaultRateWindow = time.Second
	DefaultMaxRetries = 2
	DefaultRetryBase  = time.Second
	DefaultRetryCap   = 10 * time.Second
	DefaultPageSize   = 100
)

// Config holds client settings. Zero values are replaced by defaults.
type Config struct {
	GraphQLURL string
	RESTURL    string
	Referer    string
	Timeout    time.Duration
	RateLimit  int
	RateWindow time.Duration
	Retry      RetryPolicy
	PageSize   int
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		GraphQLURL: DefaultGraphQLURL,
		RESTURL:    DefaultRESTURL,
		Referer:    DefaultReferer,
		Timeout:    DefaultTimeout,
		RateLimit:  DefaultRateLimit,
		RateWindow: DefaultRateWindow,
		Retry: RetryPolicy{
			MaxRetries: DefaultMaxRetries,
			Base:       DefaultRetryBase,
			Cap:        DefaultRetryCap,
		},
		PageSize: DefaultPageSize,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.GraphQLURL == "" {
		c.GraphQLURL = d.GraphQLURL
	}
	if c.RESTURL == "" {
		c.RESTURL = d.RESTURL
	}
	if c.Referer == "" {
		c.Referer = d.Referer
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.RateLimit <= 0 {
		c.RateLimit = d.RateLimit
	}
	if c.RateWindow <= 0 {
		c.RateWindow = d.RateWindow
	}
	if c.Retry.Base <= 0 {
		c.Retry.Base = d.Retry.Base
	}
	if c.Retry.Cap <= 0 {
		c.Retry.Cap = d.Retry.Cap
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	return c
}

// Client talks to the upstream catalog. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *windowLimiter
	retry      RetryPolicy
	logger     *logrus.Logger
	metrics    *Metrics
}

// New creates a Client. logger and metrics may be nil.
func New(cfg Config, logger *logrus.Logger, metrics *Metrics) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    newWindowLimiter(cfg.RateLimit, cfg.RateWindow),
		retry:      cfg.Retry,
		logger:     logger,
		metrics:    metrics,
	}
}

// send performs one logical request: every attempt waits for rate
// limiter capacity, and transient failures are retried per policy.
// It returns the body of a 200 response.
func (c *Client) send(ctx context.Context, op string, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	var body []byte
	err := c.withRetry(ctx, op, func() error {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		c.metrics.observeWait(op, time.Since(waitStart))

		start := time.Now()
		b, err := c.attempt(ctx, op, build)
		c.metrics.observeAttempt(op, err, time.Since(start))
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) attempt(ctx context.Context, op string, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Referer", c.cfg.Referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Cancellation by the caller is not an upstream fault.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, transientError(op, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, transientError(op, resp.StatusCode, errors.New(string(bytes.TrimSpace(snippet))))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transientError(op, 0, fmt.Errorf("read body: %w", err))
	}
	return data, nil
}

// graphQLRequest is the POST body for the GraphQL endpoint.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse keeps data raw so each operation decodes its own shape.
// Errors is nil only when the key is absent or null.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// graphQL posts a query and returns the raw "data" member. A non-nil
// "errors" member becomes a KindUpstreamReported error.
func (c *Client) graphQL(ctx context.Context, op, query string, variables map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal graphql payload: %w", op, err)
	}

	body, err := c.send(ctx, op, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GraphQLURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformedError(op, fmt.Errorf("decode response: %w", err))
	}

	if resp.Errors != nil {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &Error{Kind: KindUpstreamReported, Op: op, Messages: messages}
	}

	return resp.Data, nil
}

// isNull reports whether a raw JSON member is absent or null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
