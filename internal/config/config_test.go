package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/slots")
	t.Setenv("ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 30, cfg.SessionTTLMinutes)
}

func TestStaticTokenList(t *testing.T) {
	cfg := &Config{StaticTokens: " token-a , token-b ,,token-c"}
	assert.Equal(t, []string{"token-a", "token-b", "token-c"}, cfg.StaticTokenList())

	cfg = &Config{}
	assert.Nil(t, cfg.StaticTokenList())
}

func TestGoogleConfigured(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.GoogleConfigured())

	cfg = &Config{
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		GoogleRedirectURL:  "http://localhost:8080/oauth2callback",
	}
	assert.True(t, cfg.GoogleConfigured())
}
