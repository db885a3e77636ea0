// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings and establish
// boundaries for request sizes, comments, ratings and images.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerHost is the default interface the HTTP server binds to.
	DefaultServerHost = "127.0.0.1"

	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8000

	// DefaultAppName is reported in logs and the version endpoint.
	DefaultAppName = "recetario"

	// DefaultAppVersion is used when no version is configured.
	DefaultAppVersion = "1.0.0"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultPublicBaseURL is used to build permalinks embedded in exported recipes.
	DefaultPublicBaseURL = "http://127.0.0.1:8000"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Size Limits define the maximum allowed sizes for request bodies and uploads.
const (
	// MaxRequestBodySize is the maximum size in bytes for JSON request bodies.
	// Recipes carry their picture inline as a data URI, so this is well above MaxImageSize.
	MaxRequestBodySize = 8 << 20

	// MaxImageSize is the maximum decoded size of an uploaded image.
	MaxImageSize = 5 << 20

	// MaxMultipartMemory is the in-memory threshold for multipart uploads.
	MaxMultipartMemory = 6 << 20

	// ThumbnailWidth is the width in pixels of generated thumbnails.
	ThumbnailWidth = 300
)

// Content Limits
const (
	MaxCommentLength  = 500
	MinScore          = 1
	MaxScore          = 5
	MinPasswordLength = 8
	MaxUsernameLength = 50
	MaxEmailLength    = 255
)

// Default Rate Limits for the account endpoints.
const (
	// DefaultRateLimitPerSecond is the token refill rate per client.
	DefaultRateLimitPerSecond = 1.0

	// DefaultRateLimitBurst is the bucket size per client.
	DefaultRateLimitBurst = 5
)

// Default Password Hash Settings define the parameters for Argon2id hashing.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)
