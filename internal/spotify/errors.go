package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is any non-2xx response from the API. Body holds the raw response
// bytes exactly as received, so callers can log or forward what the API
// actually said; Message is the parsed error envelope when the body carried
// one.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("spotify: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("spotify: status %d", e.Status)
}

// newAPIError drains the response body and builds the error for a non-2xx
// status. The API wraps errors as {"error":{"status":...,"message":...}};
// bodies that do not parse are still preserved raw.
func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{
		Status: resp.StatusCode,
		Body:   body,
	}

	var envelope struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is an API 401, which usually means the
// access token has expired or was revoked.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is an API 403, typically a missing scope
// or a non-premium account hitting a player endpoint.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsRateLimited reports whether err is an API 429 that survived retries.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
