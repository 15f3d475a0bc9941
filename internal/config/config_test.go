package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/quiz-service/pkg/util"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("ALGORITHM", "HS256")
	t.Setenv("GROQ_API_KEY", "gsk_test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Auth.SecretKey)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, "123", cfg.Auth.AdminUserID)
	assert.Equal(t, DefaultGroqBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, DefaultGroqModel, cfg.LLM.Model)
	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
}

func TestLoad_FractionalExpiry(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "1.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Auth.AccessTokenTTL())
}

func TestLoad_InvalidExpiry(t *testing.T) {
	for _, value := range []string{"soon", "0", "-5", "NaN", "Inf", "-Inf", "1e300"} {
		t.Run(value, func(t *testing.T) {
			setRequired(t)
			t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", value)

			_, err := Load()
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))
		})
	}
}

func TestLoad_LargeExpiryStaysPositive(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "525600")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 365*24*time.Hour, cfg.Auth.AccessTokenTTL())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("ALGORITHM", "HS256")
	t.Setenv("GROQ_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFIGURATION_ERROR"))
	assert.Contains(t, err.Error(), "SECRET_KEY")
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
	assert.NotContains(t, err.Error(), "ALGORITHM")
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
