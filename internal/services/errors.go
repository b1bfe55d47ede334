package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNetwork: the request never produced an HTTP response.
	ErrNetwork = errors.New("backend unreachable")
	// ErrMalformedResponse: a 2xx response whose body is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// BackendError is a non-2xx reply from the backend.
type BackendError struct {
	Status int
	Body   string
	// Detail is the backend's own message, when it sent one.
	Detail string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// newBackendError extracts a string "detail" from body if there is one.
// Validation failures carry a list there instead; those keep Detail empty.
func newBackendError(status int, body []byte) *BackendError {
	e := &BackendError{Status: status, Body: string(body)}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil {
			e.Detail = strings.TrimSpace(detail)
		}
	}
	return e
}

// IsServerFault reports whether err should count against the backend's
// health: network failures and 5xx replies.
func IsServerFault(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var be *BackendError
	return errors.As(err, &be) && be.Status >= 500
}
