package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-weather-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testAPIKey, cfg.WeatherAPIKey)
	assert.Equal(t, "https://api.weatherapi.com/v1", cfg.WeatherAPIURL)
	assert.Zero(t, cfg.WeatherAPITimeout)
	assert.Equal(t, "London", cfg.DefaultCity)
	assert.Equal(t, 2*time.Second, cfg.MountDelay)
	assert.Equal(t, 10*time.Second, cfg.GeolocationTimeout)
	assert.Equal(t, 1000, cfg.SessionCacheSize)
	assert.Equal(t, "https://tile.openstreetmap.org/{z}/{x}/{y}.png", cfg.MapTileURL)
	assert.Equal(t, 11, cfg.MapZoom)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "weather-lookups", cfg.KafkaLookupTopic)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)
	t.Setenv("WEATHER_API_URL", "http://localhost:9999/v1/")
	t.Setenv("WEATHER_API_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DEFAULT_CITY", "Paris")
	t.Setenv("MOUNT_DELAY", "0s")
	t.Setenv("GEOLOCATION_TIMEOUT", "4s")
	t.Setenv("SESSION_CACHE_SIZE", "25")
	t.Setenv("MAP_TILE_URL", "https://tiles.example.com/{z}/{x}/{y}.png")
	t.Setenv("MAP_ZOOM", "9")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_LOOKUP_TOPIC", "lookups")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/v1", cfg.WeatherAPIURL)
	assert.Equal(t, 3*time.Second, cfg.WeatherAPITimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "Paris", cfg.DefaultCity)
	assert.Zero(t, cfg.MountDelay)
	assert.Equal(t, 4*time.Second, cfg.GeolocationTimeout)
	assert.Equal(t, 25, cfg.SessionCacheSize)
	assert.Equal(t, "https://tiles.example.com/{z}/{x}/{y}.png", cfg.MapTileURL)
	assert.Equal(t, 9, cfg.MapZoom)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "lookups", cfg.KafkaLookupTopic)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_API_KEY")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"BATCH_SIZE", "0"},
		{"BATCH_FLUSH_INTERVAL", "soon"},
		{"WEATHER_API_TIMEOUT", "-1s"},
		{"MOUNT_DELAY", "later"},
		{"GEOLOCATION_TIMEOUT", "0s"},
		{"MAP_ZOOM", "20"},
		{"SESSION_CACHE_SIZE", "none"},
		{"MAP_TILE_URL", "https://tiles.example.com/static.png"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("WEATHER_API_KEY", testAPIKey)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_BlankDefaultCity(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)
	t.Setenv("DEFAULT_CITY", "   ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_CITY")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", testAPIKey)
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
