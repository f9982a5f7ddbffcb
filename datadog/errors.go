package datadog

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed Datadog request.
type Kind int

const (
	// KindTransport is a connection failure or an undecodable success body.
	KindTransport Kind = iota
	// KindAuth is a 401 or 403 response.
	KindAuth
	// KindRateLimited is a 429 response.
	KindRateLimited
	// KindTimeout is a 408 response.
	KindTimeout
	// KindAPI is any other non-success response, or an error reported in
	// a success body.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error is a classified Datadog request failure.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, zero for transport failures
	Body   string // response body, when one was read
	Err    error  // underlying cause for transport failures
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAuth:
		return "Authentication failed: " + e.Body
	case KindRateLimited:
		return "Rate limit exceeded"
	case KindTimeout:
		return "Timeout occurred"
	case KindAPI:
		if e.Status == 0 {
			return "API request failed: " + e.Body
		}
		return fmt.Sprintf("API request failed: HTTP %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
	default:
		return fmt.Sprintf("Network error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a *Error target by Kind, so errors.Is(err, ErrAuth) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == 0 && t.Body == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for use with errors.Is.
var (
	ErrTransport   = &Error{Kind: KindTransport}
	ErrAuth        = &Error{Kind: KindAuth}
	ErrRateLimited = &Error{Kind: KindRateLimited}
	ErrTimeout     = &Error{Kind: KindTimeout}
	ErrAPI         = &Error{Kind: KindAPI}
)

// KindOf returns the classification of err, and false when err is not a
// Datadog request failure.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// classify maps a non-success HTTP response to an Error.
func classify(status int, body string) *Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindAuth, Status: status, Body: body}
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Status: status, Body: body}
	case http.StatusRequestTimeout:
		return &Error{Kind: KindTimeout, Status: status, Body: body}
	default:
		return &Error{Kind: KindAPI, Status: status, Body: body}
	}
}
