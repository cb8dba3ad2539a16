package outcome

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/kailas-cloud/foldcall/internal/domain"
)

// Class is the class of an HTTP status code.
type Class string

// Status classes per RFC 9110 section 15.
const (
	ClassInformational Class = "1xx"
	ClassSuccess       Class = "2xx"
	ClassRedirection   Class = "3xx"
	ClassClientError   Class = "4xx"
	ClassServerError   Class = "5xx"
	ClassUnknown       Class = "unknown"
)

// Classify maps a status code to its class.
func Classify(code int) Class {
	switch {
	case code >= 100 && code < 200:
		return ClassInformational
	case code >= 200 && code < 300:
		return ClassSuccess
	case code >= 300 && code < 400:
		return ClassRedirection
	case code >= 400 && code < 500:
		return ClassClientError
	case code >= 500 && code < 600:
		return ClassServerError
	default:
		return ClassUnknown
	}
}

// Outcome is the result of one prediction call: either a decoded success
// body or the status code and raw text of a failed response.
type Outcome struct {
	status int
	class  Class
	raw    []byte
	value  any
	cached bool
}

// NewSuccess creates a success outcome carrying the decoded body.
func NewSuccess(status int, raw []byte, value any) Outcome {
	return Outcome{status: status, class: ClassSuccess, raw: raw, value: value}
}

// NewFailure creates a failure outcome carrying the raw body.
func NewFailure(status int, raw []byte) Outcome {
	return Outcome{status: status, class: Classify(status), raw: raw}
}

// FromResponse classifies a response and decodes the body of a 2xx.
// A 2xx body that is not valid JSON returns an error wrapping domain.ErrDecode
// together with an Outcome that still carries the raw bytes.
func FromResponse(status int, raw []byte) (Outcome, error) {
	if Classify(status) != ClassSuccess {
		return NewFailure(status, raw), nil
	}
	value, err := Decode(raw)
	if err != nil {
		return Outcome{status: status, class: ClassSuccess, raw: raw}, err
	}
	return NewSuccess(status, raw, value), nil
}

// Decode parses an opaque JSON document. Numbers are kept as json.Number
// so large integers pass through untouched. An empty body decodes to nil.
func Decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", domain.ErrDecode)
	}
	return v, nil
}

// StatusCode returns the HTTP status code.
func (o Outcome) StatusCode() int { return o.status }

// Class returns the status class.
func (o Outcome) Class() Class { return o.class }

// IsSuccess reports whether the service answered with a 2xx status.
func (o Outcome) IsSuccess() bool { return o.class == ClassSuccess }

// Value returns the decoded JSON body of a success, nil otherwise.
func (o Outcome) Value() any { return o.value }

// Raw returns the response body bytes.
func (o Outcome) Raw() []byte { return o.raw }

// Text returns the response body as text.
func (o Outcome) Text() string { return string(o.raw) }

// Cached reports whether the response was served from the response cache.
func (o Outcome) Cached() bool { return o.cached }

// FromCache returns a copy of o marked as served from the response cache.
func (o Outcome) FromCache() Outcome {
	o.cached = true
	return o
}
