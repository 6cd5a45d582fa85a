package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petal-studio/server/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "petal-api", cfg.ServiceName)
	assert.Equal(t, ":8288", cfg.Addr())
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, 2*time.Minute, cfg.OpenAITimeout)
	assert.False(t, cfg.HasGemini())
	assert.False(t, cfg.HasStorage())
	assert.False(t, cfg.AuthEnabled)
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_TrimsAndNormalizes(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.internal/v1/")
	t.Setenv("GEMINI_API_KEY", " g-key ")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "https://proxy.internal/v1", cfg.OpenAIBaseURL)
	assert.True(t, cfg.HasGemini())
}

func TestLoad_AuthValidation(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AUTH_ENABLED", "true")

	_, err := config.Load()
	require.Error(t, err, "issuer and JWKS URL are required when auth is on")

	t.Setenv("AUTH_ISSUER", "https://auth.example.com/realms/petal")
	t.Setenv("AUTH_JWKS_URL", "https://auth.example.com/realms/petal/protocol/openid-connect/certs")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled)
}

func TestLoad_Storage(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PETAL_S3_BUCKET", "petal-library")
	t.Setenv("PETAL_S3_ACCESS_KEY_ID", "key")
	t.Setenv("PETAL_S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.HasStorage())
}
