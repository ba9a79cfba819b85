package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "BrieflyAI API", cfg.App.Title)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 60, cfg.JWT.ExpirationMinutes)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("BRIEFLYAI_SERVER_PORT", "9000")
	t.Setenv("BRIEFLYAI_JWT_EXPIRATION_MINUTES", "30")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30, cfg.JWT.ExpirationMinutes)
}

func TestCORSOrigins(t *testing.T) {
	c := CORSConfig{AllowedOrigins: "http://localhost:3000, http://127.0.0.1:3000 ,,"}
	assert.Equal(t,
		[]string{"http://localhost:3000", "http://127.0.0.1:3000"},
		c.Origins())

	assert.Nil(t, CORSConfig{}.Origins())
}

func TestValidateRejectsShortSecretInRelease(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Server.Mode = "release"
	cfg.JWT.Secret = "too-short"
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "a-sufficiently-long-signing-secret!"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnsupportedAlgorithm(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.JWT.Algorithm = "RS256"
	assert.Error(t, cfg.Validate())
}
