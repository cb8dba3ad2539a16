package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport signals that no HTTP response was received (refused, DNS, timeout, cancel).
	ErrTransport = errors.New("transport error")
	// ErrDecode signals a 2xx response whose body is not valid JSON.
	ErrDecode = errors.New("decode response")
	// ErrInvalidRequest signals a request rejected before it was sent.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownEndpoint signals an unsupported endpoint name.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// TransportError wraps ErrTransport with the endpoint and the underlying cause.
type TransportError struct {
	Endpoint Endpoint
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransport.Error(), e.Endpoint, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// NewTransportError creates a transport error for the endpoint.
func NewTransportError(endpoint Endpoint, err error) error {
	return &TransportError{Endpoint: endpoint, Err: err}
}

// InvalidRequestError wraps ErrInvalidRequest with the offending field.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequest.Error(), e.Field, e.Reason)
}

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

// NewInvalidRequest creates a validation error for a request field.
func NewInvalidRequest(field, reason string) error {
	return &InvalidRequestError{Field: field, Reason: reason}
}
