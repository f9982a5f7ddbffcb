package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Header names Datadog reads credentials from.
const (
	HeaderAPIKey = "DD-API-KEY"
	HeaderAppKey = "DD-APPLICATION-KEY"
)

// Placeholder keys used when no credentials are configured. Requests made
// with them reach Datadog and fail with an authentication error.
const (
	DemoAPIKey = "DEMO_API_KEY"
	DemoAppKey = "DEMO_APP_KEY"
)

// Credentials is a Datadog API key and application key pair.
type Credentials struct {
	APIKey string
	AppKey string
}

// Validate checks that both keys are present and free of whitespace.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.AppKey) == "" {
		return ErrMissingCredentials
	}
	if strings.ContainsAny(c.APIKey, " \t\r\n") || strings.ContainsAny(c.AppKey, " \t\r\n") {
		return fmt.Errorf("%w: keys must not contain whitespace", ErrInvalidCredentials)
	}
	return nil
}

// IsDemo reports whether either key is still a placeholder.
func (c Credentials) IsDemo() bool {
	return c.APIKey == DemoAPIKey || c.AppKey == DemoAppKey
}

// Fingerprint returns a short, non-reversible identifier of the API key that
// is safe to log.
func (c Credentials) Fingerprint() string {
	if c.APIKey == "" {
		return ""
	}
	return HashKey(c.APIKey)[:12]
}

// String redacts both keys.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{api_key:%s}", c.Fingerprint())
}

// HashKey hashes a key using SHA-256.
func HashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
