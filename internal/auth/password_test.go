package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectoiso/recetario/internal/auth"
	"github.com/proyectoiso/recetario/internal/config"
)

// fastConfig keeps argon2 cheap in tests
func fastConfig() *auth.PasswordConfig {
	return &auth.PasswordConfig{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := fastConfig()

	hash, salt, err := auth.HashPassword("Abcdef12", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, salt)
	assert.NotEqual(t, "Abcdef12", hash)

	ok, err := auth.VerifyPassword("Abcdef12", hash, salt, cfg)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword("abcdef12", hash, salt, cfg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	cfg := fastConfig()

	hash1, salt1, err := auth.HashPassword("Abcdef12", cfg)
	require.NoError(t, err)
	hash2, salt2, err := auth.HashPassword("Abcdef12", cfg)
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestVerifyPasswordInvalidEncoding(t *testing.T) {
	cfg := fastConfig()

	_, err := auth.VerifyPassword("x", "%%%", "c2FsdA==", cfg)
	assert.Error(t, err)

	_, err = auth.VerifyPassword("x", "aGFzaA==", "%%%", cfg)
	assert.Error(t, err)
}

func TestVerifyPasswordAfterKeyLengthChange(t *testing.T) {
	cfg := fastConfig()
	hash, salt, err := auth.HashPassword("Abcdef12", cfg)
	require.NoError(t, err)

	changed := *cfg
	changed.KeyLength = 64

	ok, err := auth.VerifyPassword("Abcdef12", hash, salt, &changed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyLegacyPassword(t *testing.T) {
	assert.True(t, auth.VerifyLegacyPassword("Abcdef12", "Abcdef12"))
	assert.False(t, auth.VerifyLegacyPassword("Abcdef12", "abcdef12"))
	assert.False(t, auth.VerifyLegacyPassword("", "Abcdef12"))
}

func TestArgon2Hasher(t *testing.T) {
	hasher := auth.NewArgon2Hasher(fastConfig())

	hash, salt, err := hasher.Hash("Secreta12")
	require.NoError(t, err)

	ok, err := hasher.Verify("Secreta12", hash, salt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfigFromAppConfig(t *testing.T) {
	cfg := &config.AppConfig{
		PasswordHash: config.HashSettings{
			Memory:      2048,
			Iterations:  2,
			Parallelism: 1,
			SaltLength:  8,
			KeyLength:   16,
		},
	}

	got := auth.ConfigFromAppConfig(cfg)

	assert.Equal(t, &auth.PasswordConfig{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 8, KeyLength: 16}, got)
}

func TestDefaultPasswordConfig(t *testing.T) {
	cfg := auth.DefaultPasswordConfig()

	assert.Equal(t, uint32(64*1024), cfg.Memory)
	assert.Equal(t, uint32(3), cfg.Iterations)
	assert.Equal(t, uint32(32), cfg.KeyLength)
}
