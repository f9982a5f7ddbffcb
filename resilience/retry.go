package resilience

import (
	"context"
	"time"
)

// MaxRetries is the default number of retries after the initial attempt.
const MaxRetries = 3

// CalculateBackoff returns the delay before retry n: 2^n seconds.
// The delay is not capped; the retry budget keeps it bounded.
func CalculateBackoff(n int) time.Duration {
	return backoff(time.Second, n)
}

// ShouldRetry reports whether another retry is allowed once n retries have
// been made under the default budget.
func ShouldRetry(n int) bool {
	return n < MaxRetries
}

func backoff(base time.Duration, n int) time.Duration {
	if n < 0 {
		n = 0
	}
	return base << uint(n)
}

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Zero selects the default; a negative value disables retries.
	// Default: 3
	MaxRetries int

	// BaseDelay scales the exponential schedule: the delay before retry n
	// is BaseDelay * 2^n.
	// Default: 1s
	BaseDelay time.Duration

	// RetryIf determines if an error should trigger a retry.
	// Default: every non-nil error is retried, whatever its class.
	RetryIf func(err error) bool

	// OnAttempt is called before every attempt with its 1-based number.
	OnAttempt func(attempt int)

	// OnRetry is called before each backoff sleep.
	OnRetry func(retry int, err error, delay time.Duration)
}

// Retry runs an operation with exponential backoff between attempts.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	switch {
	case config.MaxRetries == 0:
		config.MaxRetries = MaxRetries
	case config.MaxRetries < 0:
		config.MaxRetries = 0
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs op until it succeeds, the retry budget is spent, or ctx is
// done. With the default budget a persistently failing op runs four times,
// sleeping 2s, 4s and 8s in between, and the last error is returned.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	retries := 0
	for {
		if r.config.OnAttempt != nil {
			r.config.OnAttempt(retries + 1)
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		if !r.config.RetryIf(err) || retries >= r.config.MaxRetries {
			return err
		}

		retries++
		delay := backoff(r.config.BaseDelay, retries)

		if r.config.OnRetry != nil {
			r.config.OnRetry(retries, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
