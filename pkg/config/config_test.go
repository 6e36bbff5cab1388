package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("botToken", "test-token")
	t.Setenv("PORT", "3001")
	t.Setenv("enviroment", "test")
	t.Setenv("masters", "111, 222,,333")
	t.Setenv("workers", "4")
	t.Setenv("messageTimeout", "3s")
	resetForTesting()

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", config.BotToken)
	assert.Equal(t, "3001", config.Port)
	assert.Equal(t, "test", config.Environment)
	assert.Equal(t, StorageMongo, config.Storage)
	assert.Equal(t, []string{"111", "222", "333"}, config.Masters)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, 256, config.QueueSize)
	assert.Equal(t, 3*time.Second, config.MessageTimeout)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("storage", "redis")
	resetForTesting()

	_, err := Load()
	assert.ErrorContains(t, err, "invalid storage")
}

func TestLoadRejectsZeroWorkers(t *testing.T) {
	t.Setenv("workers", "0")
	resetForTesting()

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	assert.Equal(t, "test-value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_BAD_INT", "doce")

	assert.Equal(t, 12, getEnvInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("TEST_BAD_INT", 1))
	assert.Equal(t, 1, getEnvInt("NON_EXISTENT_VAR", 1))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "250ms")
	t.Setenv("TEST_SECONDS", "7")
	t.Setenv("TEST_BAD_DURATION", "pronto")

	assert.Equal(t, 250*time.Millisecond, getEnvDuration("TEST_DURATION", time.Second))
	assert.Equal(t, 7*time.Second, getEnvDuration("TEST_SECONDS", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("TEST_BAD_DURATION", time.Second))
}

func TestIsProd(t *testing.T) {
	t.Setenv("enviroment", "prod")
	resetForTesting()
	config, _ := Load()
	assert.True(t, config.IsProd())

	t.Setenv("enviroment", "dev")
	resetForTesting()
	config, _ = Load()
	assert.False(t, config.IsProd())
}

func TestGet(t *testing.T) {
	resetForTesting()

	config := Get()
	require.NotNil(t, config)
	assert.Same(t, config, Get())
}
