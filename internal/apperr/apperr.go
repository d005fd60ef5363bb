// Package apperr defines the closed set of failure kinds used across the
// reading pipeline. Every error that crosses a package boundary is an *Error;
// upstream code switches on Kind rather than string-matching messages.
package apperr

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies a failure category.
type Kind int

const (
	// KindNetwork is a transport-level failure: I/O, connection, timeout.
	KindNetwork Kind = iota
	// KindHTTP is a non-2xx response that did not specialize further.
	KindHTTP
	// KindAuthentication is a 401/403 specialization.
	KindAuthentication
	// KindBadRequest is a 400 specialization.
	KindBadRequest
	// KindRateLimit is a 429 specialization.
	KindRateLimit
	// KindAPI is a provider-level semantic failure (e.g. empty completion).
	KindAPI
	// KindParse is malformed JSON or a schema mismatch.
	KindParse
	// KindConfig is a missing or invalid setting.
	KindConfig
	// KindInvalidResponseContent means the response body was present but unusable.
	KindInvalidResponseContent
	// KindEmptyBook means there was no text to read.
	KindEmptyBook
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindAuthentication:
		return "authentication"
	case KindBadRequest:
		return "bad_request"
	case KindRateLimit:
		return "rate_limit"
	case KindAPI:
		return "api"
	case KindParse:
		return "parse"
	case KindConfig:
		return "config"
	case KindInvalidResponseContent:
		return "invalid_response_content"
	case KindEmptyBook:
		return "empty_book"
	}
	return "unknown"
}

// Error carries a failure kind plus whatever context the transport captured.
// Optional fields are zero-valued when unknown.
type Error struct {
	Kind    Kind
	Message string

	// HTTP context, populated by the response handler.
	Status  int
	Headers map[string]string
	Body    string

	// Provider-specific error envelope fields ({"error":{type,code}}).
	ProviderType string
	ProviderCode string

	// RetryAfter is the parsed Retry-After duration on rate limits, 0 if absent.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error: %s", e.Message)
	case KindHTTP:
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	case KindAuthentication:
		return fmt.Sprintf("authentication failed: %s", e.Message)
	case KindBadRequest:
		return fmt.Sprintf("bad request: %s", e.Message)
	case KindRateLimit:
		return fmt.Sprintf("rate limited: %s", e.Message)
	case KindAPI:
		return fmt.Sprintf("API request failed: %s", e.Message)
	case KindParse:
		return fmt.Sprintf("failed to parse response: %s", e.Message)
	case KindConfig:
		return fmt.Sprintf("configuration error: %s", e.Message)
	case KindInvalidResponseContent:
		return "API response content is missing or invalid"
	case KindEmptyBook:
		return "book is empty or could not be loaded"
	}
	return e.Message
}

// Is reports kind equality, so sentinel comparisons via errors.Is work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Retryable reports whether the transport may attempt the call again.
// Network failures, rate limits, and 5xx/429 responses are transient;
// everything else is fatal to the current call.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindRateLimit:
		return true
	case KindHTTP:
		return e.Status >= 500 || e.Status == 429
	}
	return false
}

// TripsBreaker reports whether the error counts toward opening the circuit
// breaker. Only authentication-shaped HTTP failures qualify.
func (e *Error) TripsBreaker() bool {
	if e.Kind == KindAuthentication {
		return true
	}
	return e.Kind == KindHTTP && (e.Status == 401 || e.Status == 403)
}

// Sentinel domain errors.
var (
	ErrInvalidResponseContent = &Error{Kind: KindInvalidResponseContent}
	ErrEmptyBook              = &Error{Kind: KindEmptyBook}
)

// Network wraps a transport-level failure.
func Network(format string, args ...any) *Error {
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf(format, args...)}
}

// HTTP builds a plain non-2xx error with the status preserved.
func HTTP(status int, message string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

// HTTPWithDetails builds a non-2xx error carrying the response headers and
// body verbatim for upstream inspection.
func HTTPWithDetails(status int, message string, headers map[string]string, body string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: message, Headers: headers, Body: body}
}

// Authentication builds a 401/403 specialization.
func Authentication(message string, status int, providerType, providerCode string) *Error {
	return &Error{
		Kind:         KindAuthentication,
		Message:      message,
		Status:       status,
		ProviderType: providerType,
		ProviderCode: providerCode,
	}
}

// BadRequest builds a 400 specialization.
func BadRequest(message, providerType, providerCode string) *Error {
	return &Error{
		Kind:         KindBadRequest,
		Message:      message,
		Status:       400,
		ProviderType: providerType,
		ProviderCode: providerCode,
	}
}

// RateLimit builds a 429 specialization. retryAfter is 0 when the server
// sent no Retry-After header.
func RateLimit(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimit, Status: 429, Message: message, RetryAfter: retryAfter}
}

// API builds a provider-level semantic failure.
func API(format string, args ...any) *Error {
	return &Error{Kind: KindAPI, Message: fmt.Sprintf(format, args...)}
}

// Parse builds a malformed-response failure.
func Parse(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

// Config builds a missing/invalid-settings failure.
func Config(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or KindAPI for foreign errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindAPI
}

// As unwraps err into *Error when possible.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

// Retryable reports whether err may be retried, treating foreign errors as
// fatal.
func Retryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable()
	}
	return false
}

// UserMessage maps an error to the short, user-facing description the UI
// layer displays.
func UserMessage(err error) string {
	e, ok := As(err)
	if !ok {
		return err.Error()
	}
	switch e.Kind {
	case KindNetwork:
		return "connection issue - please check your network"
	case KindAuthentication:
		return "authentication failed - check your API key"
	case KindRateLimit:
		return "too many requests - please slow down"
	case KindParse, KindInvalidResponseContent:
		return "unexpected response from the service"
	case KindEmptyBook:
		return "no text loaded"
	case KindHTTP:
		if e.Status == 404 {
			return "service temporarily unavailable"
		}
		return fmt.Sprintf("service error (HTTP %d)", e.Status)
	case KindConfig:
		return "configuration problem: " + e.Message
	}
	msg := e.Message
	if msg == "" {
		msg = e.Error()
	}
	return strings.TrimSpace(msg)
}
