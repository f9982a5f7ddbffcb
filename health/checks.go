package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonwraymond/datadog-mcp/cache"
	"github.com/jonwraymond/datadog-mcp/datadog"
)

// StatsSource reports per-resource cache statistics.
type StatsSource interface {
	Stats() map[string]cache.Stats
}

// CacheChecker reports resource cache occupancy. The cache has no failure
// mode of its own, so it is always healthy.
type CacheChecker struct {
	src StatsSource
}

// NewCacheChecker creates a checker over src.
func NewCacheChecker(src StatsSource) *CacheChecker {
	return &CacheChecker{src: src}
}

func (c *CacheChecker) Name() string { return "cache" }

func (c *CacheChecker) Check(context.Context) Result {
	details := make(map[string]any)
	for resource, s := range c.src.Stats() {
		details[resource] = s
	}
	return Healthy("resource cache available").WithDetails(details)
}

// Validator checks upstream credentials. *datadog.Client implements it.
type Validator interface {
	Validate(ctx context.Context) error
}

// DefaultValidateInterval is how long a credential check result is reused.
const DefaultValidateInterval = 5 * time.Minute

// DatadogChecker validates Datadog credentials. Rejected credentials are
// unhealthy; any other failure to validate is degraded since tool calls
// retry on their own.
type DatadogChecker struct {
	v        Validator
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	last    Result
	checked time.Time
}

// NewDatadogChecker creates a checker that validates through v at most once
// per interval. A non-positive interval selects DefaultValidateInterval.
func NewDatadogChecker(v Validator, interval time.Duration) *DatadogChecker {
	if interval <= 0 {
		interval = DefaultValidateInterval
	}
	return &DatadogChecker{v: v, interval: interval, now: time.Now}
}

func (c *DatadogChecker) Name() string { return "datadog" }

func (c *DatadogChecker) Check(ctx context.Context) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.checked.IsZero() && now.Sub(c.checked) < c.interval {
		return c.last
	}

	err := c.v.Validate(ctx)
	switch {
	case err == nil:
		c.last = Healthy("credentials valid")
	case errors.Is(err, datadog.ErrAuth):
		c.last = Unhealthy("credentials rejected", err)
	default:
		c.last = Degraded("credential check failed", err)
	}
	c.checked = now
	return c.last
}

var (
	_ Checker = (*CacheChecker)(nil)
	_ Checker = (*DatadogChecker)(nil)
)
