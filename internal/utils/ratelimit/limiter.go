// Package ratelimit provides per-client rate limiting for the account endpoints.
// Each client gets a token bucket from golang.org/x/time/rate.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the token bucket of a single client identity.
// It records when it was last used so idle limiters can be evicted.
type Limiter struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
}

// Rate controls how many requests per second are allowed
type Rate struct {
	// RequestsPerSecond defines how many tokens are added per second
	RequestsPerSecond float64

	// Burst defines the maximum size of the token bucket
	Burst int
}

// NewLimiter creates a new rate limiter with the specified rate and burst capacity.
// The bucket starts full.
//
// Parameters:
//   - rps: The number of tokens added per second
//   - burst: The maximum number of tokens the bucket can hold
//
// Returns:
//   - A new rate limiter
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		lastSeen: time.Now(),
	}
}

// Allow reports whether a request may proceed now, consuming a token if so
func (l *Limiter) Allow() bool {
	return l.allowAt(time.Now())
}

func (l *Limiter) allowAt(now time.Time) bool {
	l.mu.Lock()
	l.lastSeen = now
	l.mu.Unlock()

	return l.limiter.AllowN(now, 1)
}

// LastSeen returns the time of the last Allow call
func (l *Limiter) LastSeen() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeen
}
