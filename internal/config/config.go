package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/proyectoiso/recetario/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App               AppSettings               `yaml:"app"`
	Server            ServerSettings            `yaml:"server"`
	Storage           StorageSettings           `yaml:"storage"`
	ObjectStore       ObjectStoreSettings       `yaml:"object_store"`
	Session           SessionSettings           `yaml:"session"`
	PasswordHash      HashSettings              `yaml:"password_hash"`
	Logging           LoggingSettings           `yaml:"logging"`
	CORS              CORSSettings              `yaml:"cors"`
	EmailVerification EmailVerificationSettings `yaml:"email_verification"`
	RateLimit         RateLimitSettings         `yaml:"rate_limit"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment   string `yaml:"environment" env:"APP_ENV"`
	Name          string `yaml:"name" env:"APP_NAME"`
	Version       string `yaml:"version" env:"APP_VERSION"`
	PublicBaseURL string `yaml:"public_base_url" env:"APP_PUBLIC_BASE_URL"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// StorageSettings locates the JSON stores and the static/upload directories
type StorageSettings struct {
	DataDir      string `yaml:"data_dir" env:"STORAGE_DATA_DIR"`
	AccountsFile string `yaml:"accounts_file" env:"STORAGE_ACCOUNTS_FILE"`
	RecipesFile  string `yaml:"recipes_file" env:"STORAGE_RECIPES_FILE"`
	StaticDir    string `yaml:"static_dir" env:"STORAGE_STATIC_DIR"`
	UploadDir    string `yaml:"upload_dir" env:"STORAGE_UPLOAD_DIR"`
	UploadURL    string `yaml:"upload_url" env:"STORAGE_UPLOAD_URL"`
}

// ObjectStoreSettings selects where uploaded images are written.
// The s3 driver works against AWS S3 and any S3 compatible endpoint such as R2.
type ObjectStoreSettings struct {
	Driver          string        `yaml:"driver" env:"OBJECT_STORE_DRIVER"`
	Endpoint        string        `yaml:"endpoint" env:"OBJECT_STORE_ENDPOINT"`
	Region          string        `yaml:"region" env:"OBJECT_STORE_REGION"`
	Bucket          string        `yaml:"bucket" env:"OBJECT_STORE_BUCKET"`
	AccessKeyID     string        `yaml:"access_key_id" env:"OBJECT_STORE_ACCESS_KEY_ID"`
	SecretAccessKey string        `yaml:"secret_access_key" env:"OBJECT_STORE_SECRET_ACCESS_KEY"`
	PublicBaseURL   string        `yaml:"public_base_url" env:"OBJECT_STORE_PUBLIC_BASE_URL"`
	Timeout         time.Duration `yaml:"timeout" env:"OBJECT_STORE_TIMEOUT"`
}

// SessionSettings contains session token settings
type SessionSettings struct {
	Secret       string        `yaml:"secret" env:"SESSION_SECRET"`
	Expiry       time.Duration `yaml:"expiry" env:"SESSION_EXPIRY"`
	Issuer       string        `yaml:"issuer" env:"SESSION_ISSUER"`
	SecureCookie bool          `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// EmailVerificationSettings configures the email reputation check run on registration.
// The check is skipped when APIKey is empty.
type EmailVerificationSettings struct {
	APIKey  string        `yaml:"api_key" env:"EMAIL_VERIFY_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"EMAIL_VERIFY_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"EMAIL_VERIFY_TIMEOUT"`
}

// RateLimitSettings limits login and registration attempts per client
type RateLimitSettings struct {
	Enabled           bool    `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// AccountsPath returns the full path of the accounts store
func (s *StorageSettings) AccountsPath() string {
	return filepath.Join(s.DataDir, s.AccountsFile)
}

// RecipesPath returns the full path of the recipes store
func (s *StorageSettings) RecipesPath() string {
	return filepath.Join(s.DataDir, s.RecipesFile)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		err = yaml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = config

	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = constants.DefaultAppVersion
	}

	if config.Server.Host == "" {
		config.Server.Host = constants.DefaultServerHost
	}
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	if config.App.PublicBaseURL == "" {
		config.App.PublicBaseURL = fmt.Sprintf("http://%s", config.Server.ServerAddress())
	}
	config.App.PublicBaseURL = strings.TrimRight(config.App.PublicBaseURL, "/")

	// Storage defaults
	if config.Storage.DataDir == "" {
		config.Storage.DataDir = constants.DefaultDataDir
	}
	if config.Storage.AccountsFile == "" {
		config.Storage.AccountsFile = constants.DefaultAccountsFile
	}
	if config.Storage.RecipesFile == "" {
		config.Storage.RecipesFile = constants.DefaultRecipesFile
	}
	if config.Storage.StaticDir == "" {
		config.Storage.StaticDir = constants.DefaultStaticDir
	}
	if config.Storage.UploadDir == "" {
		config.Storage.UploadDir = constants.DefaultUploadDir
	}
	if config.Storage.UploadURL == "" {
		config.Storage.UploadURL = constants.DefaultUploadURL
	}

	// Object store defaults
	if config.ObjectStore.Driver == "" {
		config.ObjectStore.Driver = constants.StorageDriverLocal
	}
	if config.ObjectStore.Region == "" {
		config.ObjectStore.Region = "auto"
	}
	if config.ObjectStore.Timeout == 0 {
		config.ObjectStore.Timeout = constants.DefaultObjectStoreTimeout
	}

	// Session defaults
	if config.Session.Expiry == 0 {
		config.Session.Expiry = constants.DefaultSessionExpiry
	}
	if config.Session.Issuer == "" {
		config.Session.Issuer = constants.DefaultSessionIssuer
	}
	if config.Session.Secret == "" && !config.App.IsProduction() {
		config.Session.Secret = constants.DefaultSessionSecret
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{config.App.PublicBaseURL}
	}

	// Email verification defaults
	if config.EmailVerification.BaseURL == "" {
		config.EmailVerification.BaseURL = "https://emailreputation.abstractapi.com/v1/"
	}
	if config.EmailVerification.Timeout == 0 {
		config.EmailVerification.Timeout = constants.DefaultEmailVerifyTimeout
	}

	// Rate limit defaults
	if config.RateLimit.RequestsPerSecond == 0 {
		config.RateLimit.RequestsPerSecond = constants.DefaultRateLimitPerSecond
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = constants.DefaultRateLimitBurst
	}

	// Password hash defaults
	if config.PasswordHash.Memory == 0 {
		// Lower for development, higher for production
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// In production, ensure we have a proper session secret
	if config.App.IsProduction() && (config.Session.Secret == "" || config.Session.Secret == constants.DefaultSessionSecret) {
		return fmt.Errorf("session secret must be set in production")
	}

	switch config.ObjectStore.Driver {
	case constants.StorageDriverLocal:
	case constants.StorageDriverS3:
		if config.ObjectStore.Bucket == "" {
			return fmt.Errorf("object store bucket must be set for the s3 driver")
		}
		if config.ObjectStore.PublicBaseURL == "" {
			return fmt.Errorf("object store public base url must be set for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown object store driver: %s", config.ObjectStore.Driver)
	}

	if config.RateLimit.RequestsPerSecond < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	emailCheck := "disabled"
	if config.EmailVerification.APIKey != "" {
		emailCheck = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("accounts", config.Storage.AccountsPath()).
		Str("recipes", config.Storage.RecipesPath()).
		Str("object_store", config.ObjectStore.Driver).
		Str("email_verification", emailCheck).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}
