package auth

import "errors"

// Sentinel errors for credential handling.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)
