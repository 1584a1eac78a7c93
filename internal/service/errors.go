package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by RemoteError when the API answers 404.
var ErrNotFound = errors.New("not found")

// RemoteError is any failed call: a transport failure (StatusCode 0) or a
// non-2xx answer.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: fetch failed: %v", e.Endpoint, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: API error (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: API error (status %d)", e.Endpoint, e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
