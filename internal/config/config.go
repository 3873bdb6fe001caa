// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values for the Voyager backend.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DBPath is the SQLite database file. Defaults to "./data/voyager.db".
	DBPath string

	// RemoteBaseURL is the document store endpoint. Required unless the
	// app runs local-only (VOYAGER_LOCAL_ONLY=true).
	RemoteBaseURL string

	// AuthBaseURL is the anonymous-auth endpoint. Defaults to
	// RemoteBaseURL when unset.
	AuthBaseURL string

	// AuthAPIKey is sent as X-Api-Key on sign-in requests. Optional.
	AuthAPIKey string

	// LocalOnly disables identity and sync entirely; the app keeps all
	// data on device. Set VOYAGER_LOCAL_ONLY=true to enable.
	LocalOnly bool

	// SyncInterval is how often the background full sync runs.
	// Zero disables the periodic sync; defaults to 15m.
	SyncInterval time.Duration

	// WeatherBaseURL / WeatherAPIKey configure the weather lookup.
	WeatherBaseURL string
	WeatherAPIKey  string

	// ExchangeRateBaseURL configures the currency conversion lookup.
	ExchangeRateBaseURL string

	// CountriesBaseURL configures the country info lookup.
	CountriesBaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFormat selects "json" (default) or "text" output.
	LogFormat string

	// LogFile is an optional rotated log file path.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		DBPath:              getEnv("DB_PATH", "./data/voyager.db"),
		AuthAPIKey:          os.Getenv("AUTH_API_KEY"),
		LocalOnly:           strings.EqualFold(os.Getenv("VOYAGER_LOCAL_ONLY"), "true"),
		WeatherBaseURL:      getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org"),
		WeatherAPIKey:       os.Getenv("WEATHER_API_KEY"),
		ExchangeRateBaseURL: getEnv("EXCHANGE_RATE_BASE_URL", "https://api.exchangerate-api.com/v4/latest"),
		CountriesBaseURL:    getEnv("COUNTRIES_BASE_URL", "https://restcountries.com/v3.1"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		LogFile:             os.Getenv("LOG_FILE"),
		CORSOrigins:         splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	interval := getEnv("SYNC_INTERVAL", "15m")
	d, err := time.ParseDuration(interval)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SYNC_INTERVAL %q: %w", interval, err)
	}
	cfg.SyncInterval = d

	var missing []string

	cfg.RemoteBaseURL = os.Getenv("REMOTE_BASE_URL")
	if cfg.RemoteBaseURL == "" && !cfg.LocalOnly {
		missing = append(missing, "REMOTE_BASE_URL")
	}
	cfg.AuthBaseURL = getEnv("AUTH_BASE_URL", cfg.RemoteBaseURL)

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
