package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8480", cfg.Port)
	assert.Equal(t, "glimpse", cfg.DBName)
	assert.Equal(t, 5, cfg.ImageMaxUploadSizeMB)
	assert.Equal(t, "glimpse-identity", cfg.JWTIssuer)
}

func TestValidate_ProductionRejectsDefaultSecret(t *testing.T) {
	cfg := &Config{
		Port:                 "8480",
		Env:                  "production",
		JWTSecret:            "your-secret-key-change-in-production",
		DBPassword:           "something-strong",
		ImageMaxUploadSizeMB: 5,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_ProductionRejectsWeakDBPassword(t *testing.T) {
	cfg := &Config{
		Port:                 "8480",
		Env:                  "production",
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		DBPassword:           "password",
		ImageMaxUploadSizeMB: 5,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidate_RequiresPositiveUploadSize(t *testing.T) {
	cfg := &Config{
		Port:      "8480",
		JWTSecret: "secret",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMAGE_MAX_UPLOAD_SIZE_MB")
}
