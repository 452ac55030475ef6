package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cesargomez89/statify/internal/constants"
	"github.com/cesargomez89/statify/internal/httpclient"
)

const userAgent = "statify/1.0 (https://github.com/cesargomez89/statify)"

// Client issues typed requests against the Spotify Web API. It holds no
// credentials itself: authentication is the job of the *http.Client it is
// built around, normally one produced by Authenticator.Client.
type Client struct {
	doer        *httpclient.Client
	baseURL     string
	minInterval time.Duration
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithRequestInterval overrides the minimum spacing between requests.
func WithRequestInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.minInterval = d
	}
}

// New creates a client on top of an authenticated *http.Client. Passing nil
// uses a default client, which only works for endpoints behind a transport
// that injects credentials on its own.
func New(httpClient *http.Client, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     constants.APIBaseURL,
		minInterval: constants.MinRequestInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.doer = httpclient.New(httpClient, c.minInterval)
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	_, err := c.getOptional(ctx, path, query, dst)
	return err
}

// getOptional is get for endpoints that legitimately answer 204 with no
// payload; it reports whether dst was populated.
func (c *Client) getOptional(ctx context.Context, path string, query url.Values, dst any) (bool, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, dst)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body any) error {
	_, err := c.do(ctx, http.MethodPut, path, query, body, nil)
	return err
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body any) error {
	_, err := c.do(ctx, http.MethodPost, path, query, body, nil)
	return err
}

// do builds the URL from path and query, sends the request through the paced
// doer, and dispatches on status: 2xx decodes into dst when there is a
// payload, anything else becomes an *APIError carrying the raw body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dst any) (bool, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return false, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", constants.MimeTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", constants.MimeTypeJSON)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false, newAPIError(resp)
	}

	if dst == nil || resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return false, fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return true, nil
}
