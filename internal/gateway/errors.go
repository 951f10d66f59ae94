package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the platform reports a missing resource.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when the credential is missing or rejected.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the viewer may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// APIError is a non-2xx response from the platform. Detail carries the
// platform's human-readable message; Code is set only by platforms that emit
// structured error codes.
type APIError struct {
	Op     string
	Status int
	Detail string
	Code   string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: status %d (%s): %s", e.Op, e.Status, e.Code, msg)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
}

// Unwrap maps well-known statuses onto the package sentinels so callers can
// use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return nil
	}
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
