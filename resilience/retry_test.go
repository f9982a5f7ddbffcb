package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		n    int
		want time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{-1, 1 * time.Second},
	}

	for _, tt := range tests {
		if got := CalculateBackoff(tt.n); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	for n := 0; n < 6; n++ {
		want := n < 3
		if got := ShouldRetry(n); got != want {
			t.Errorf("ShouldRetry(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestNewRetry(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", r.config.MaxRetries)
	}
	if r.config.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v, want 1s", r.config.BaseDelay)
	}
	if r.config.RetryIf == nil {
		t.Error("RetryIf should default to retry-all")
	}
}

func TestNewRetry_NegativeDisablesRetries(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: -1, BaseDelay: time.Millisecond})

	attempts := 0
	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("fail")
	})
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{BaseDelay: time.Millisecond})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessOnRetry(t *testing.T) {
	r := NewRetry(RetryConfig{BaseDelay: time.Millisecond})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ExhaustedAttempts(t *testing.T) {
	var delays []time.Duration
	var observed []int

	r := NewRetry(RetryConfig{
		BaseDelay: time.Millisecond,
		OnAttempt: func(attempt int) { observed = append(observed, attempt) },
		OnRetry: func(retry int, err error, delay time.Duration) {
			delays = append(delays, delay)
		},
	})

	attempts := 0
	lastErr := errors.New("persistent error")

	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return lastErr
	})

	if !errors.Is(err, lastErr) {
		t.Errorf("Execute() error = %v, want %v", err, lastErr)
	}
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4 (initial + 3 retries)", attempts)
	}

	// Scaled schedule mirrors 2s, 4s, 8s.
	wantDelays := []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 8 * time.Millisecond}
	if len(delays) != len(wantDelays) {
		t.Fatalf("delays = %v, want %v", delays, wantDelays)
	}
	for i := range wantDelays {
		if delays[i] != wantDelays[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], wantDelays[i])
		}
	}

	wantAttempts := []int{1, 2, 3, 4}
	for i := range wantAttempts {
		if observed[i] != wantAttempts[i] {
			t.Errorf("attempt[%d] = %d, want %d", i, observed[i], wantAttempts[i])
		}
	}
}

func TestRetry_DefaultScheduleMatchesCalculateBackoff(t *testing.T) {
	r := NewRetry(RetryConfig{})
	for n := 1; n <= 3; n++ {
		if got, want := backoff(r.config.BaseDelay, n), CalculateBackoff(n); got != want {
			t.Errorf("retry %d delay = %v, want %v", n, got, want)
		}
	}
}

func TestRetry_RetryIfFalse(t *testing.T) {
	terminal := errors.New("terminal")
	r := NewRetry(RetryConfig{
		BaseDelay: time.Millisecond,
		RetryIf:   func(err error) bool { return !errors.Is(err, terminal) },
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return terminal
	})

	if !errors.Is(err, terminal) {
		t.Errorf("Execute() error = %v, want %v", err, terminal)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	r := NewRetry(RetryConfig{BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := r.Execute(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("fail")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
