package health

import "errors"

var (
	// ErrCheckTimeout marks a check abandoned at the aggregator deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound is returned for an unregistered check name.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
