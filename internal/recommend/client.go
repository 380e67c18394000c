package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/metrics"
)

// DefaultTimeout bounds a single submission when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Endpoint names used for metrics labels.
const (
	EndpointRecommend = "recommend"
	EndpointQuick     = "recommend_quick"
)

const maxErrorBody = 1 << 20

// Client submits farm parameters to the recommendation service.
// Each call performs exactly one HTTP request; nothing is retried.
type Client struct {
	baseURL    string
	credential func() string
	timeout    time.Duration
	httpClient *http.Client
	recorder   metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithCredential sets the bearer token source. It is called once per request
// so a refreshed token is picked up without rebuilding the client.
func WithCredential(fn func() string) Option {
	return func(c *Client) { c.credential = fn }
}

// WithToken is WithCredential for a fixed token.
func WithToken(token string) Option {
	return WithCredential(func() string { return token })
}

// WithTimeout sets the per-submission deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewClient creates a client for the service rooted at baseURL
// (for example http://localhost:8000/api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		recorder:   metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts a full request to /recommend/.
func (c *Client) Submit(ctx context.Context, req Request) (*Result, error) {
	return c.post(ctx, "/recommend/", EndpointRecommend, req)
}

// SubmitQuick posts a minimal request to /recommend/quick.
func (c *Client) SubmitQuick(ctx context.Context, req QuickRequest) (*Result, error) {
	return c.post(ctx, "/recommend/quick", EndpointQuick, req)
}

func (c *Client) post(ctx context.Context, path, endpoint string, body any) (*Result, error) {
	start := time.Now()
	res, err := c.do(ctx, path, body)
	c.recorder.ObserveSubmission(endpoint, outcomeOf(err), time.Since(start))
	if err != nil {
		logger.Warn("%s submission failed after %s: %v", endpoint, time.Since(start).Round(time.Millisecond), err)
		return nil, err
	}
	logger.Info("%s submission returned %d crops for %s/%s", endpoint, len(res.Crops), res.State, res.Season)
	return res, nil
}

func (c *Client) do(ctx context.Context, path string, body any) (*Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.credential != nil {
		if token := c.credential(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("POST %s", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &NetworkError{Status: resp.StatusCode, Err: ErrUnauthorized}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if msg := parseDetail(data); msg != "" {
			return nil, &ValidationError{Status: resp.StatusCode, Message: msg}
		}
		return nil, &NetworkError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if isTimeout(ctx, err) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &result, nil
}

// parseDetail extracts the service's "detail" field: either a message string
// or a list of {loc, msg} validation entries.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err != nil {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Msg == "" {
			continue
		}
		if len(it.Loc) == 0 {
			parts = append(parts, it.Msg)
			continue
		}
		loc := make([]string, len(it.Loc))
		for i, l := range it.Loc {
			loc[i] = fmt.Sprint(l)
		}
		parts = append(parts, strings.Join(loc, ".")+": "+it.Msg)
	}
	return strings.Join(parts, "; ")
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsValidation(err):
		return metrics.OutcomeValidation
	case IsTimeout(err):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeNetwork
	}
}
