package roster

import (
	"errors"
	"fmt"
)

// ErrFetch matches every failed upstream call, whatever its cause.
var ErrFetch = errors.New("roster: fetch failed")

// ErrMalformedEnvelope reports a response whose envelope lacks the expected payload.
var ErrMalformedEnvelope = errors.New("roster: response envelope missing payload")

// NetworkError means the request could not be sent or its response could not be parsed.
type NetworkError struct {
	Op  Operation
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("roster %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets callers match any upstream failure with errors.Is(err, ErrFetch).
func (e *NetworkError) Is(target error) bool { return target == ErrFetch }

// HTTPStatusError captures a non-success response from the upstream API.
type HTTPStatusError struct {
	Op         Operation
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("roster %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("roster %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrFetch }

// AsHTTPStatusError attempts to unwrap an error into an HTTPStatusError.
func AsHTTPStatusError(err error) (*HTTPStatusError, bool) {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// AsNetworkError attempts to unwrap an error into a NetworkError.
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}
