package api

import (
	"context"
	"math"
	"math/rand"
	"slices"
	"time"
)

// DefaultRetryOn lists the HTTP status codes retried by default.
var DefaultRetryOn = []int{408, 429, 500, 502, 503, 504}

// RetryConfig configures retry behavior for failed auth requests.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the delay between attempts, jitter included.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay grows after each attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) applied to delays.
	Jitter float64
	// RetryableOn reports whether a status code should trigger a retry.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:  DefaultMaxRetries,
		BaseDelay:   DefaultRetryDelay,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
		RetryableOn: RetryOnStatus(DefaultRetryOn),
	}
}

// RetryOnStatus returns a RetryableOn func matching the given status codes.
func RetryOnStatus(codes []int) func(int) bool {
	codes = slices.Clone(codes)
	return func(statusCode int) bool {
		return slices.Contains(codes, statusCode)
	}
}

// ShouldRetry reports whether attempt (zero-based) may be followed by another
// one after receiving statusCode.
func (r *RetryConfig) ShouldRetry(attempt int, statusCode int) bool {
	if attempt >= r.MaxRetries || r.RetryableOn == nil {
		return false
	}
	return r.RetryableOn(statusCode)
}

// CanRetry reports whether attempt may be followed by another one after a
// transport failure.
func (r *RetryConfig) CanRetry(attempt int) bool {
	return attempt < r.MaxRetries
}

// Delay calculates the delay before the next attempt.
func (r *RetryConfig) Delay(attempt int) time.Duration {
	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))

	if r.Jitter > 0 {
		jitterAmount := delay * r.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	if r.MaxDelay > 0 && delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}
	return time.Duration(delay)
}

// Wait blocks for Delay(attempt) or until ctx is done.
func (r *RetryConfig) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
