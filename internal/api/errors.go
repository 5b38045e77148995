package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoBaseURL is a configuration error: the gateway has nowhere to send
// requests. Retrying cannot fix it.
var ErrNoBaseURL = errors.New("api url is not set: add api_url to the config file or export NEWSLETTER_API_URL (e.g. NEWSLETTER_API_URL=http://localhost:8000/api)")

// ErrNetwork wraps transport failures (DNS, refused connections, broken
// bodies). Callers decide whether to retry.
var ErrNetwork = errors.New("network failure")

// Error is returned for any response outside the 2xx range.
type Error struct {
	Status  int
	Message string
	// Body is the parsed JSON body, the raw text when it was not JSON, or nil
	// when the response was empty.
	Body any
}

func (e *Error) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

func newError(status int, body any) *Error {
	msg := ""
	if m, ok := body.(map[string]any); ok {
		if s, ok := m["message"].(string); ok {
			msg = s
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &Error{Status: status, Message: msg, Body: body}
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
