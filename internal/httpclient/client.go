package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cesargomez89/statify/internal/constants"
)

// Client wraps an http.Client to provide request pacing and automatic retries.
// Spotify throttles per app over a rolling window, so every outbound request
// shares one pacing gate.
type Client struct {
	httpClient *http.Client

	minInterval time.Duration
	lastRequest time.Time
	mu          sync.Mutex
}

// New creates a new paced, retrying HTTP client.
func New(httpClient *http.Client, minInterval time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	return &Client{
		httpClient:  httpClient,
		minInterval: minInterval,
	}
}

// Do executes an HTTP request with pacing and retries. Rate-limit responses
// (429) are always retried after the server-announced delay; transient 5xx
// responses are retried for GET requests only, since a command that reached
// the API may already have taken effect.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < constants.DefaultRetryCount; attempt++ {
		if err := c.pace(ctx); err != nil {
			return nil, err
		}

		attemptReq, err := requestForAttempt(ctx, req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(attemptReq)
		if err != nil {
			lastErr = err
		} else if shouldRetry(req.Method, resp.StatusCode) {
			retryAfter := parseRetryAfter(resp)
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("transient status %d from %s", resp.StatusCode, req.URL.Host)
			if retryAfter > 0 {
				c.deferUntil(time.Now().Add(retryAfter))
			}
			if err := c.backoff(ctx, attempt, retryAfter); err != nil {
				return nil, err
			}
			continue
		} else {
			return resp, nil
		}

		if err := c.backoff(ctx, attempt, 0); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// pace blocks until this request's time slot, honoring context cancellation.
func (c *Client) pace(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	c.mu.Lock()
	now := time.Now()
	nextAllowed := c.lastRequest.Add(c.minInterval)
	var wait time.Duration
	if now.Before(nextAllowed) {
		wait = nextAllowed.Sub(now)
		c.lastRequest = nextAllowed
	} else {
		c.lastRequest = now
	}
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// deferUntil pushes the next allowed request slot forward.
func (c *Client) deferUntil(t time.Time) {
	c.mu.Lock()
	if c.lastRequest.Before(t) {
		c.lastRequest = t
	}
	c.mu.Unlock()
}

// backoff sleeps between attempts: linear on the attempt number, or the
// server-announced delay when that is longer.
func (c *Client) backoff(ctx context.Context, attempt int, retryAfter time.Duration) error {
	wait := time.Duration(attempt+1) * constants.DefaultRetryBase
	if retryAfter > wait {
		wait = retryAfter
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// requestForAttempt returns a request safe to send. After the first attempt
// the body has been consumed, so the request is cloned and the body rewound
// via GetBody.
func requestForAttempt(ctx context.Context, req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 || req.Body == nil {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("cannot retry %s %s: body is not rewindable", req.Method, req.URL.Path)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewinding request body: %w", err)
	}
	clone := req.Clone(ctx)
	clone.Body = body
	return clone, nil
}

func shouldRetry(method string, status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if method != http.MethodGet {
		return false
	}
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// parseRetryAfter reads a Retry-After header and returns the duration to wait.
func parseRetryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(ra); err == nil {
		return time.Until(t)
	}
	return 0
}
