package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// SmoothingWindow is the default trailing moving-average window applied
	// to uploaded datasets; uploads may override it per request.
	SmoothingWindow int

	// MaxUploadBytes caps the size of an uploaded CSV body.
	MaxUploadBytes int64

	// OpenWeatherMap live-reading configuration.
	WeatherAPIKey    string
	WeatherEnabled   bool
	WeatherTimeout   time.Duration
	WeatherCacheSize int
	WeatherCacheTTL  time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Best effort; absence of a .env file is the normal production case.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	window, err := parsePositiveInt("SMOOTHING_WINDOW", 30)
	if err != nil {
		return nil, err
	}

	maxUpload, err := parsePositiveInt("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parseDuration("OPENWEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("OPENWEATHER_CACHE_SIZE", 100)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parseDuration("OPENWEATHER_CACHE_TTL", "2m")
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	weatherEnabled := apiKey != ""
	if v := os.Getenv("OPENWEATHER_ENABLED"); v != "" {
		weatherEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SmoothingWindow: window,
		MaxUploadBytes:  int64(maxUpload),

		WeatherAPIKey:    apiKey,
		WeatherEnabled:   weatherEnabled,
		WeatherTimeout:   weatherTimeout,
		WeatherCacheSize: cacheSize,
		WeatherCacheTTL:  cacheTTL,
	}

	if cfg.WeatherEnabled && cfg.WeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}
