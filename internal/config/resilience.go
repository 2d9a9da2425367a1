package config

import "time"

// Retry configuration constants
const (
	// Sheets API request retry configuration
	SheetsRequestMaxAttempts       = 10
	SheetsRequestInitialWait       = 1 * time.Second
	SheetsRequestBackoffMultiplier = 2.0
	SheetsRequestTimeout           = 30 * time.Second
	SheetsRequestMaxRetryAfter     = 60 * time.Second

	// Client-side rate limiting. Google allows 60 requests per minute per user.
	SheetsRequestsPerSecond = 1.0
	SheetsRequestBurst      = 10
)

// RetryConfig defines retry behavior for operations.
// A zero MaxWait leaves the backoff uncapped. MaxRetryAfter bounds a
// server-sent Retry-After; zero leaves it uncapped.
type RetryConfig struct {
	MaxAttempts   int
	InitialWait   time.Duration
	MaxWait       time.Duration
	MaxRetryAfter time.Duration
	Multiplier    float64
	Timeout       time.Duration
}

// Validate reports whether the configuration describes a usable retry policy
func (c RetryConfig) Validate() bool {
	return c.MaxAttempts > 0 &&
		c.InitialWait >= 0 &&
		(c.MaxWait == 0 || c.MaxWait >= c.InitialWait) &&
		c.MaxRetryAfter >= 0 &&
		c.Multiplier > 0 &&
		c.Timeout >= 0
}

// Backoff returns the wait before the given retry (1-based).
func (c RetryConfig) Backoff(retry int) time.Duration {
	wait := float64(c.InitialWait)
	for i := 1; i < retry; i++ {
		wait *= c.Multiplier
		if c.MaxWait > 0 && time.Duration(wait) >= c.MaxWait {
			return c.MaxWait
		}
	}
	if c.MaxWait > 0 && time.Duration(wait) > c.MaxWait {
		return c.MaxWait
	}
	return time.Duration(wait)
}

// CapRetryAfter bounds a server-requested wait by MaxRetryAfter.
func (c RetryConfig) CapRetryAfter(d time.Duration) time.Duration {
	if c.MaxRetryAfter > 0 && d > c.MaxRetryAfter {
		return c.MaxRetryAfter
	}
	return d
}

// RateLimitConfig holds client-side rate limiting configuration.
// A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// ResilienceConfig contains all retry configurations
type ResilienceConfig struct {
	SheetsRequest RetryConfig
	RateLimit     RateLimitConfig
}

// DefaultResilienceConfig provides sensible defaults
var DefaultResilienceConfig = ResilienceConfig{
	SheetsRequest: RetryConfig{
		MaxAttempts:   SheetsRequestMaxAttempts,
		InitialWait:   SheetsRequestInitialWait,
		MaxRetryAfter: SheetsRequestMaxRetryAfter,
		Multiplier:    SheetsRequestBackoffMultiplier,
		Timeout:       SheetsRequestTimeout,
	},
	RateLimit: RateLimitConfig{
		RequestsPerSecond: SheetsRequestsPerSecond,
		Burst:             SheetsRequestBurst,
	},
}
