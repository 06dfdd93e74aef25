package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork indicates no response was received: connection refused,
	// DNS failure, or the per-request timeout elapsed.
	ErrNetwork = errors.New("apiclient: network error")

	// ErrDecode indicates a 2xx response whose body could not be decoded
	// into the expected shape.
	ErrDecode = errors.New("apiclient: decode response")
)

// Error is an HTTP error response from the backend. Detail carries the
// backend's structured `detail` message when one was present.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("apiclient: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("apiclient: status %d", e.StatusCode)
}

// ErrorStatus returns the HTTP status code carried by err, or 0 when err is
// not an *Error (e.g. a network failure).
func ErrorStatus(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ErrorDetail returns the backend detail message carried by err, or "".
func ErrorDetail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
