package errors

import (
	"fmt"
)

// NetworkError is returned when a request could not be completed at the transport level.
// StatusCode is set when the remote side answered before the failure was detected.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface for NetworkError.
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %v (response %d)", e.Op, e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport failure for the given operation and URL.
func NewNetworkError(op, url string, err error) *NetworkError {
	return &NetworkError{
		Op:  op,
		URL: url,
		Err: err,
	}
}

// StatusError is returned when the remote side answered with a non-2xx status code.
type StatusError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface for StatusError.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d", e.Op, e.URL, e.StatusCode)
}

// NewStatusError creates a StatusError for the given operation, URL and response status.
func NewStatusError(op, url string, statusCode int, body string) *StatusError {
	return &StatusError{
		Op:         op,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	}
}

// NotImplementedError reports a configured backend that this build does not support.
type NotImplementedError struct {
	Name string
	Kind string
}

// Error implements the error interface for NotImplementedError.
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s %q is not implemented", e.Kind, e.Name)
}

// NewNotImplementedError creates a NotImplementedError.
func NewNotImplementedError(name, kind string) error {
	return &NotImplementedError{
		Name: name,
		Kind: kind,
	}
}
