package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// WeatherAPI.com provider.
	WeatherAPIKey     string
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration // 0 leaves the transport default in place

	// View behavior.
	DefaultCity        string
	MountDelay         time.Duration
	GeolocationTimeout time.Duration
	SessionCacheSize   int

	// Location map.
	MapTileURL string
	MapZoom    int

	// Lookup event publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaLookupTopic   string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parseDuration("WEATHER_API_TIMEOUT", "0s", true)
	if err != nil {
		return nil, err
	}
	mountDelay, err := parseDuration("MOUNT_DELAY", "2s", true)
	if err != nil {
		return nil, err
	}
	geoTimeout, err := parseDuration("GEOLOCATION_TIMEOUT", "10s", false)
	if err != nil {
		return nil, err
	}

	zoom, err := parseInt("MAP_ZOOM", 11, 0, 19)
	if err != nil {
		return nil, err
	}
	sessions, err := parseInt("SESSION_CACHE_SIZE", 1000, 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherAPIKey:     os.Getenv("WEATHER_API_KEY"),
		WeatherAPIURL:     strings.TrimRight(sharedcfg.EnvOrDefault("WEATHER_API_URL", "https://api.weatherapi.com/v1"), "/"),
		WeatherAPITimeout: apiTimeout,

		DefaultCity:        sharedcfg.EnvOrDefault("DEFAULT_CITY", "London"),
		MountDelay:         mountDelay,
		GeolocationTimeout: geoTimeout,
		SessionCacheSize:   sessions,

		MapTileURL: sharedcfg.EnvOrDefault("MAP_TILE_URL", "https://tile.openstreetmap.org/{z}/{x}/{y}.png"),
		MapZoom:    zoom,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       brokers,
		KafkaLookupTopic:   sharedcfg.EnvOrDefault("KAFKA_LOOKUP_TOPIC", "weather-lookups"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_API_KEY is required")
	}
	if strings.TrimSpace(cfg.DefaultCity) == "" {
		return nil, errors.New("DEFAULT_CITY must not be blank")
	}
	if !strings.Contains(cfg.MapTileURL, "{z}") || !strings.Contains(cfg.MapTileURL, "{x}") || !strings.Contains(cfg.MapTileURL, "{y}") {
		return nil, errors.New("MAP_TILE_URL must contain {z}, {x} and {y}")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaLookupTopic == "" {
		return nil, errors.New("KAFKA_LOOKUP_TOPIC is required")
	}

	return cfg, nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer in [%d, %d]", key, lo, hi)
	}
	return n, nil
}
