package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type AppConfig struct {
	Port string

	// StoreDriver selects the key-value backend: "sqlite" or "memory".
	StoreDriver string
	DBPath      string

	HTTPTimeout time.Duration

	WeatherBaseURL    string
	WeatherMaxRetries int
	GeocoderAPIKey    string

	// Device position; nil when not configured, which makes the weather
	// service fall back to the default location.
	Latitude  *float64
	Longitude *float64

	WeatherRefreshInterval time.Duration
	WeatherCacheTTL        time.Duration

	// ReminderDays is the window of the daily harvest reminder sweep.
	ReminderDays int
	// ReminderAt is the daily time of the sweep, HH:MM in UTC.
	ReminderAt string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:           getenvDefault("PORT", "8080"),
		DBPath:         getenvDefault("DB_PATH", "panenku.db"),
		WeatherBaseURL: os.Getenv("WEATHER_BASE_URL"),
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
		ReminderDays:   getenvInt("REMINDER_DAYS", 3),
		ReminderAt:     getenvDefault("REMINDER_AT", "06:00"),
	}

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", DriverSQLite))
	if cfg.StoreDriver != DriverSQLite && cfg.StoreDriver != DriverMemory {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", cfg.StoreDriver, DriverSQLite, DriverMemory)
	}

	cfg.WeatherMaxRetries = getenvInt("WEATHER_MAX_RETRIES", 0)
	if cfg.WeatherMaxRetries < 0 {
		return nil, fmt.Errorf("invalid WEATHER_MAX_RETRIES: must not be negative")
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.WeatherRefreshInterval, err = getenvDuration("WEATHER_REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "30m"); err != nil {
		return nil, err
	}

	if _, err := time.Parse("15:04", cfg.ReminderAt); err != nil {
		return nil, fmt.Errorf("invalid REMINDER_AT %q: want HH:MM", cfg.ReminderAt)
	}

	if cfg.Latitude, err = getenvFloat("LOCATION_LAT"); err != nil {
		return nil, err
	}
	if cfg.Longitude, err = getenvFloat("LOCATION_LON"); err != nil {
		return nil, err
	}
	if (cfg.Latitude == nil) != (cfg.Longitude == nil) {
		return nil, fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
