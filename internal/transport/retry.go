package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gsheets_io/internal/config"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RetryKind distinguishes why retries were exhausted.
type RetryKind int

const (
	RetryKindConnection RetryKind = iota + 1
	RetryKindStatus
)

func (k RetryKind) String() string {
	switch k {
	case RetryKindConnection:
		return "connection"
	case RetryKindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// RetryError is returned once every attempt failed transiently.
type RetryError struct {
	Kind       RetryKind
	StatusCode int
	Attempts   int
	Reason     string
	Err        error
}

func (e *RetryError) Error() string {
	if e.Kind == RetryKindConnection {
		return fmt.Sprintf("connection failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("request failed after %d attempts with status %d: %s", e.Attempts, e.StatusCode, e.Reason)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

// StatusReason describes a retryable status code
func StatusReason(statusCode int) string {
	switch statusCode {
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusBadGateway:
		return "bad gateway"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	case http.StatusGatewayTimeout:
		return "gateway timeout"
	default:
		return http.StatusText(statusCode)
	}
}

// IsRetryableStatus reports whether a response status is transient
func IsRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryingClient retries transport failures and transient statuses with
// exponential backoff. Other responses are returned unchanged.
type RetryingClient struct {
	next    HTTPClient
	config  config.RetryConfig
	limiter *rate.Limiter
	sleep   Sleeper
}

// RetryOption configures a RetryingClient
type RetryOption func(*RetryingClient)

// WithRetryConfig replaces the retry policy. A Retry-After header overrides
// the backoff for the next attempt, bounded by cfg.MaxRetryAfter.
func WithRetryConfig(cfg config.RetryConfig) RetryOption {
	return func(c *RetryingClient) {
		c.config = cfg
	}
}

// WithRateLimit throttles attempts client-side. A zero rate disables it.
func WithRateLimit(cfg config.RateLimitConfig) RetryOption {
	return func(c *RetryingClient) {
		if cfg.RequestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
}

// WithSleeper replaces the backoff wait, for tests
func WithSleeper(sleep Sleeper) RetryOption {
	return func(c *RetryingClient) {
		c.sleep = sleep
	}
}

// NewRetryingClient wraps next with the default Sheets retry policy
func NewRetryingClient(next HTTPClient, opts ...RetryOption) *RetryingClient {
	c := &RetryingClient{
		next:   next,
		config: config.DefaultResilienceConfig.SheetsRequest,
		sleep:  contextSleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config.MaxAttempts < 1 {
		c.config.MaxAttempts = 1
	}
	return c
}

// Execute sends req, sleeping between attempts only.
func (c *RetryingClient) Execute(ctx context.Context, req *Request) (*Response, error) {
	var (
		lastStatus int
		lastErr    error
		retryAfter time.Duration
	)

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			wait := c.config.Backoff(attempt - 1)
			if retryAfter > wait {
				wait = retryAfter
			}

			log.Debug().
				Str("method", string(req.Method)).
				Str("url", req.URL).
				Int("attempt", attempt).
				Int("last_status", lastStatus).
				Dur("wait", wait).
				Msg("Retrying request after backoff")

			if err := c.sleep(ctx, wait); err != nil {
				return nil, fmt.Errorf("retry wait aborted: %w", err)
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
			}
		}

		resp, err := c.next.Execute(ctx, req)
		if err != nil {
			var transportErr *TransportError
			if !errors.As(err, &transportErr) || isTerminalTransportError(transportErr) {
				return nil, err
			}
			lastErr = err
			lastStatus = transportErr.StatusCode
			retryAfter = 0
			continue
		}

		if !IsRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastErr = nil
		lastStatus = resp.StatusCode
		retryAfter = c.config.CapRetryAfter(parseRetryAfter(resp.Headers.Get("Retry-After")))
	}

	retryErr := &RetryError{
		StatusCode: lastStatus,
		Attempts:   c.config.MaxAttempts,
		Err:        lastErr,
	}
	if lastErr != nil {
		retryErr.Kind = RetryKindConnection
		retryErr.Reason = "connection failure"
	} else {
		retryErr.Kind = RetryKindStatus
		retryErr.Reason = StatusReason(lastStatus)
	}

	log.Warn().
		Str("method", string(req.Method)).
		Str("url", req.URL).
		Int("attempts", retryErr.Attempts).
		Int("status", retryErr.StatusCode).
		Str("kind", retryErr.Kind.String()).
		Msg("Request retries exhausted")

	return nil, retryErr
}

// isTerminalTransportError reports failures another attempt cannot fix: a
// bad proxy configuration or a proxy that rejected CONNECT with a client
// error such as 407.
func isTerminalTransportError(err *TransportError) bool {
	if err.Op == OpProxyResolve {
		return true
	}
	return err.StatusCode >= 400 && err.StatusCode < 500 && !IsRetryableStatus(err.StatusCode)
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		return time.Until(t)
	}
	return 0
}
