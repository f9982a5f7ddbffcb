// Package auth attaches Datadog credentials to outbound API requests.
//
// Credentials holds the API and application key pair. Transport is an
// http.RoundTripper that stamps both keys onto every request, so the Datadog
// client never handles headers itself.
package auth
