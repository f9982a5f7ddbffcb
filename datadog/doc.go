// Package datadog is a client for the Datadog REST API.
//
// Requests are authenticated by an auth.Transport and retried by a
// resilience.Retry: a failed request is attempted up to four times in total,
// sleeping 2s, 4s and 8s between attempts, whatever the failure class.
// Failures are reported as *Error values classified by Kind.
package datadog
