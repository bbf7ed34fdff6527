package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound signals a missing or expired search session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEntityNotFound signals an entity absent from the session cache.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrUnknownKind signals an entity kind without a field catalog.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrUnknownField signals a field type not offered for the entity kind.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidEvent signals a condition event that cannot apply to the current state.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrInvalidQuery signals malformed search request parameters.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrBackend signals a search backend transport or decoding failure.
	ErrBackend = errors.New("search backend error")
	// ErrRateLimited signals the backend refused the request for rate reasons.
	ErrRateLimited = errors.New("rate limited")
)

// BackendStatusError wraps ErrBackend with the HTTP status the backend answered.
type BackendStatusError struct {
	Status int
	Body   string
}

func (e *BackendStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", ErrBackend.Error(), e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrBackend.Error(), e.Status, e.Body)
}

func (e *BackendStatusError) Unwrap() error { return ErrBackend }

// NewBackendStatus creates a backend status error. The body is truncated.
func NewBackendStatus(status int, body string) error {
	const maxBody = 200
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &BackendStatusError{Status: status, Body: body}
}
