package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorKind classifies a completion failure so callers can branch on it.
type ErrorKind int

const (
	// KindTransport covers connectivity failures: DNS, dial, timeout,
	// or a broken response body.
	KindTransport ErrorKind = iota
	// KindAuth covers invalid or missing credentials (401, 403).
	KindAuth
	// KindInvalidRequest covers locally rejected parameters and remote
	// parameter rejections (400, 404, 422).
	KindInvalidRequest
	// KindRateLimit covers provider quota exhaustion (429).
	KindRateLimit
	// KindServer covers remote-side faults (5xx).
	KindServer
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindInvalidRequest:
		return "invalid_request"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is a completion failure. Status is the HTTP status code when the
// failure came from a response, 0 otherwise.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// invalidRequestErr reports a locally rejected call. No request is sent.
func invalidRequestErr(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// transportErr wraps a network-level failure.
func transportErr(op string, err error) *Error {
	return &Error{Kind: KindTransport, Message: op + ": " + err.Error(), wrapped: err}
}

// statusErr classifies a non-200 response by status code, pulling the
// message out of the API error envelope when one was returned.
func statusErr(status int, body []byte) *Error {
	msg := string(body)
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}

	kind := KindServer
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusTooManyRequests:
		kind = KindRateLimit
	case status >= 400 && status < 500:
		kind = KindInvalidRequest
	}
	return &Error{Kind: kind, Status: status, Message: msg}
}
