package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreGetLimiter(t *testing.T) {
	t.Run("Same client and category share a limiter", func(t *testing.T) {
		store := NewStore(Rate{RequestsPerSecond: 1, Burst: 2}, time.Minute)

		a := store.GetLimiter("10.0.0.1", "auth")
		b := store.GetLimiter("10.0.0.1", "auth")

		assert.Same(t, a, b)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Categories are tracked separately", func(t *testing.T) {
		store := NewStore(Rate{RequestsPerSecond: 1, Burst: 2}, time.Minute)

		a := store.GetLimiter("10.0.0.1", "auth")
		b := store.GetLimiter("10.0.0.1", "api")

		assert.NotSame(t, a, b)
		assert.Equal(t, 2, store.Len())
	})
}

func TestStoreAllow(t *testing.T) {
	// Arrange
	store := NewStore(Rate{RequestsPerSecond: 0, Burst: 2}, time.Minute)

	// Act & Assert
	assert.True(t, store.Allow("10.0.0.1", DefaultCategory))
	assert.True(t, store.Allow("10.0.0.1", DefaultCategory))
	assert.False(t, store.Allow("10.0.0.1", DefaultCategory))

	// Another client has its own bucket
	assert.True(t, store.Allow("10.0.0.2", DefaultCategory))
}

func TestStoreSetRate(t *testing.T) {
	// Arrange
	store := NewStore(Rate{RequestsPerSecond: 0, Burst: 1}, time.Minute)
	store.SetRate("auth", Rate{RequestsPerSecond: 0, Burst: 3})

	// Act
	allowed := 0
	for i := 0; i < 5; i++ {
		if store.Allow("10.0.0.1", "auth") {
			allowed++
		}
	}

	// Assert
	assert.Equal(t, 3, allowed)
}

func TestStoreCleanup(t *testing.T) {
	// Arrange
	store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Minute)
	now := time.Now()

	store.GetLimiter("idle", "auth").allowAt(now.Add(-2 * time.Minute))
	store.GetLimiter("active", "auth").allowAt(now)

	// Act
	store.cleanup(now)

	// Assert
	assert.Equal(t, 1, store.Len())
	store.mu.RLock()
	_, exists := store.limiters["auth|active"]
	store.mu.RUnlock()
	assert.True(t, exists)
}

func TestStoreRunStopsOnCancel(t *testing.T) {
	store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Millisecond)
	store.GetLimiter("10.0.0.1", "auth")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
