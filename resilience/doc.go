// Package resilience provides the retry policy for outbound Datadog calls.
//
// The policy is a fixed exponential schedule: after a failed attempt the
// caller waits 2^n seconds before retry n, for at most MaxRetries retries.
// Failures are not inspected by default, so every failure class is retried;
// RetryConfig.RetryIf narrows that when a caller needs it.
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    OnRetry: func(n int, err error, d time.Duration) {
//	        log.Printf("retry %d in %s: %v", n, d, err)
//	    },
//	})
//
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return callDatadog(ctx)
//	})
package resilience
