package foldcall

import "github.com/kailas-cloud/foldcall/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTransport       = domain.ErrTransport
	ErrDecode          = domain.ErrDecode
	ErrInvalidRequest  = domain.ErrInvalidRequest
	ErrUnknownEndpoint = domain.ErrUnknownEndpoint
)

// TransportError reports a request that never produced a complete response.
// It matches ErrTransport and unwraps to the underlying cause.
type TransportError = domain.TransportError

// InvalidRequestError names the request field rejected by strict validation.
type InvalidRequestError = domain.InvalidRequestError
