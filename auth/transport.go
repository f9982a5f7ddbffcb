package auth

import (
	"net/http"
	"time"
)

// Transport is an http.RoundTripper that adds Datadog credentials and the
// JSON content type to every request.
//
// The original request is never modified; RoundTrip works on a clone.
type Transport struct {
	// Base is the underlying transport.
	// Default: http.DefaultTransport
	Base http.RoundTripper

	Credentials Credentials
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set(HeaderAPIKey, t.Credentials.APIKey)
	r.Header.Set(HeaderAppKey, t.Credentials.AppKey)
	r.Header.Set("Content-Type", "application/json")

	return t.base().RoundTrip(r)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// NewClient returns an http.Client that authenticates with creds. A zero
// timeout leaves the client without one.
func NewClient(creds Credentials, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &Transport{Credentials: creds},
		Timeout:   timeout,
	}
}
