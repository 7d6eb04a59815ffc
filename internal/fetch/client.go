// Package fetch retrieves category payloads over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/question"
)

// DefaultTimeout bounds a single fetch unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBody caps how much of a response is read.
const DefaultMaxBody = 16 << 20

var (
	// ErrStatus is matched by StatusError via errors.Is.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrTooLarge is returned when a payload exceeds the body limit.
	ErrTooLarge = errors.New("payload too large")
)

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Code, e.URL)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Client performs one GET per category payload. No retries.
type Client struct {
	http    *http.Client
	timeout time.Duration
	maxBody int64
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxBody sets the largest accepted payload in bytes.
func WithMaxBody(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client with DefaultTimeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		maxBody: DefaultMaxBody,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch downloads url and returns its raw question records.
func (c *Client) Fetch(ctx context.Context, url string) ([]gjson.Result, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	records, err := question.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, c.maxBody)
	}
	c.logger.Debug("fetched payload",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)))
	return body, nil
}
