package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second

	// DefaultReadHeaderTimeout bounds how long a client may take to send headers
	DefaultReadHeaderTimeout = 5 * time.Second
)

// Session Timeouts
const (
	DefaultSessionExpiry = 24 * time.Hour
	CookieMaxAgeSeconds  = 86400
)

// Outbound Timeouts
const (
	DefaultEmailVerifyTimeout = 5 * time.Second
	DefaultObjectStoreTimeout = 15 * time.Second
	RateLimiterIdleTTL        = 10 * time.Minute
	RateLimiterSweepInterval  = time.Minute
)
