package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points ENV_FILE at a path that does not exist so a developer's .env
// never leaks into the defaults.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, 30*time.Second, cfg.SourceTimeout)
	assert.Equal(t, "state", cfg.RegionField)
	assert.Equal(t, "cases", cfg.CountField)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "covid-seven-day-averages", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SOURCE_URL", "https://example.com/us-counties.csv")
	t.Setenv("SOURCE_TIMEOUT", "5s")
	t.Setenv("REGION_FIELD", "county")
	t.Setenv("COUNT_FIELD", "deaths")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "averages")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/us-counties.csv", cfg.SourceURL)
	assert.Equal(t, 5*time.Second, cfg.SourceTimeout)
	assert.Equal(t, "county", cfg.RegionField)
	assert.Equal(t, "deaths", cfg.CountField)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "averages", cfg.KafkaTopic)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COUNT_FIELD=deaths\nLOG_FORMAT=json\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("LOG_FORMAT", "text")
	t.Cleanup(func() { os.Unsetenv("COUNT_FIELD") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "deaths", cfg.CountField)
	assert.Equal(t, "text", cfg.LogFormat, "real environment wins over the file")
}

func TestLoad_InvalidSourceTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("SOURCE_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SOURCE_TIMEOUT")
	assert.Contains(t, err.Error(), `time: invalid duration "bad"`)
}

func TestLoad_NegativeSourceTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("SOURCE_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SOURCE_TIMEOUT: must be positive, got -1s")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidSourceURL(t *testing.T) {
	isolate(t)
	t.Setenv("SOURCE_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOURCE_URL")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_SameRegionAndCountField(t *testing.T) {
	isolate(t)
	t.Setenv("COUNT_FIELD", "state")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COUNT_FIELD")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	isolate(t)
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	isolate(t)
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
