// Package apierr defines the closed set of errors returned by the Adder API
// client. Every error carries structured fields; callers branch on the
// concrete type with errors.As or on the Kind with KindOf.
package apierr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories produced by the client.
type Kind int

const (
	// KindNone is reported by KindOf for nil or foreign errors.
	KindNone Kind = iota
	// KindTransport covers network failures, timeouts, and non-2xx replies.
	KindTransport
	// KindMalformed means the reply body could not be parsed.
	KindMalformed
	// KindNotFound means a fixture for the requested method does not exist.
	KindNotFound
	// KindRequest is a business-level rejection reported by the server.
	KindRequest
	// KindUnknownResponse is a reply with neither a success flag nor errors.
	KindUnknownResponse
	// KindValidation means the caller supplied invalid local arguments.
	KindValidation
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	case KindNotFound:
		return "not_found"
	case KindRequest:
		return "request"
	case KindUnknownResponse:
		return "unknown_response"
	case KindValidation:
		return "validation"
	default:
		return "none"
	}
}

// Kinded is implemented by every error in this package.
type Kinded interface {
	error
	Kind() Kind
}

// KindOf unwraps err and returns the Kind of the first error in the chain that
// belongs to this package, or KindNone.
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}

	return KindNone
}

// TransportError is returned when the request could not be executed or the
// server answered with a non-2xx status. StatusCode is zero for failures that
// happened before a response arrived.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s: unexpected status %d", e.URL, e.StatusCode)
	}

	return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Kind implements Kinded.
func (e *TransportError) Kind() Kind { return KindTransport }

// MalformedResponseError is returned when a reply body is not a well-formed
// response document.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Kind implements Kinded.
func (e *MalformedResponseError) Kind() Kind { return KindMalformed }

// NotFoundError is returned by the fixture transport when no reply file exists
// for a method. It is distinct from an empty but valid reply.
type NotFoundError struct {
	Method string
	Path   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no fixture for method %q (looked for %s)", e.Method, e.Path)
}

// Kind implements Kinded.
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// RequestError is a rejection reported by the server in an errors block, such
// as bad credentials or an invalid preset.
type RequestError struct {
	Method  string
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: error %s: %s", e.Method, e.Code, e.Message)
}

// Kind implements Kinded.
func (e *RequestError) Kind() Kind { return KindRequest }

// UnknownResponseError is returned when a reply carries neither a success flag
// nor an errors block. It indicates a protocol violation rather than a
// rejected request.
type UnknownResponseError struct {
	Method string
	Detail string
}

func (e *UnknownResponseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: unknown response: %s", e.Method, e.Detail)
	}

	return fmt.Sprintf("%s: unknown response", e.Method)
}

// Kind implements Kinded.
func (e *UnknownResponseError) Kind() Kind { return KindUnknownResponse }

// ValidationError is returned when a caller passes an argument the client
// cannot use, before anything is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Kind implements Kinded.
func (e *ValidationError) Kind() Kind { return KindValidation }
