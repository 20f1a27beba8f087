package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocapsule/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:            ":8000",
		Storage:         config.StorageDB,
		DBPath:          "test.db",
		DataDir:         "./data",
		WordBankPath:    "data/word.json",
		SessionSecret:   "secret",
		SessionTTLHours: 720,
		Timezone:        "UTC",
		LogLevel:        "INFO",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_InvalidStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = "redis"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE")
}

func TestValidate_FileStorageNeedsDataDir(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = config.StorageFile
	cfg.DataDir = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_DIR")
}

func TestValidate_DBStorageIgnoresDataDir(t *testing.T) {
	cfg := validConfig()
	cfg.DataDir = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestValidate_ValidTimezones(t *testing.T) {
	for _, tz := range []string{"UTC", "Asia/Seoul", "America/Sao_Paulo"} {
		t.Run(tz, func(t *testing.T) {
			cfg := validConfig()
			cfg.Timezone = tz
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "LOUD"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Storage:  "blob",
		Timezone: "nope",
		LogLevel: "INVALID",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "STORAGE")
	assert.Contains(t, errStr, "SECRET cannot be empty")
	assert.Contains(t, errStr, "SESSION_TTL_HOURS")
	assert.Contains(t, errStr, "TIMEZONE")
	assert.Contains(t, errStr, "LOG_LEVEL")
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "not-a-zone"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("STORAGE", "FILE")
	t.Setenv("TIMEZONE", "Asia/Seoul")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, config.StorageFile, cfg.Storage)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
}
