package secret

import "errors"

// Sentinel errors for secret resolution.
var (
	ErrProviderNotRegistered = errors.New("secret: provider not registered")
	ErrInvalidRef            = errors.New("secret: invalid reference")
	ErrEmptyValue            = errors.New("secret: resolved value is empty")
	ErrMissingEnv            = errors.New("secret: missing required environment variables")
)
