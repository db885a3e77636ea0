package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCategory is used when a category has no rate of its own
const DefaultCategory = "default"

// Store manages rate limiters for multiple clients.
// Limiters idle for longer than the TTL are dropped by Run.
type Store struct {
	// limiters maps category and client identifier to their rate limiters
	limiters map[string]*Limiter

	// rates defines different rate limits for different endpoint categories
	rates map[string]Rate

	ttl time.Duration

	// mu protects concurrent access to the limiters and rates maps
	mu sync.RWMutex
}

// NewStore creates a new store for managing rate limiters.
//
// Parameters:
//   - defaultRate: The default rate limit for clients
//   - ttl: How long an unused limiter is kept
//
// Returns:
//   - A configured limiter store
func NewStore(defaultRate Rate, ttl time.Duration) *Store {
	return &Store{
		limiters: make(map[string]*Limiter),
		rates:    map[string]Rate{DefaultCategory: defaultRate},
		ttl:      ttl,
	}
}

// GetLimiter returns the rate limiter for a client in a category.
// If a limiter doesn't exist for the client, a new one is created.
//
// Parameters:
//   - clientID: The unique identifier for the client (e.g., IP address)
//   - category: The endpoint category (e.g., "auth")
//
// Returns:
//   - A rate limiter for the client
func (s *Store) GetLimiter(clientID, category string) *Limiter {
	key := category + "|" + clientID

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()
	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have created it meanwhile
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	r, ok := s.rates[category]
	if !ok {
		r = s.rates[DefaultCategory]
	}

	limiter = NewLimiter(r.RequestsPerSecond, r.Burst)
	s.limiters[key] = limiter
	return limiter
}

// Allow reports whether the client may make another request in the category
func (s *Store) Allow(clientID, category string) bool {
	return s.GetLimiter(clientID, category).Allow()
}

// SetRate sets a rate limit for a specific category.
// Limiters created before the call keep their previous rate.
func (s *Store) SetRate(category string, r Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = r
}

// Len returns the number of tracked limiters
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}

// Run evicts idle limiters every interval until ctx is cancelled
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.cleanup(now)
		}
	}
}

// cleanup removes limiters that have not been used within the TTL
func (s *Store) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, limiter := range s.limiters {
		if now.Sub(limiter.LastSeen()) > s.ttl {
			delete(s.limiters, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", len(s.limiters)).Msg("Evicted idle rate limiters")
	}
}
