package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cesargomez89/statify/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port          string
	DBPath        string
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	SyncInterval  time.Duration
	CacheTTL      time.Duration
	LogLevel      string
	LogFormat     string
	Username      string
	Password      string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", constants.DefaultPort),
		DBPath:       getEnv("DB_PATH", constants.DefaultDBPath),
		ClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		ClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		RedirectURI:  getEnv("SPOTIFY_REDIRECT_URI", constants.DefaultRedirectURI),
		SyncInterval: getDurationEnv("SYNC_INTERVAL", constants.DefaultSyncInterval),
		CacheTTL:     getDurationEnv("CACHE_TTL", constants.DefaultCacheTTL),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		Username:     getEnv("STATIFY_USERNAME", constants.DefaultUsername),
		Password:     getEnv("STATIFY_PASSWORD", ""),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DBPath
	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	// Validate Spotify credentials
	if c.ClientID == "" {
		errors = append(errors, "SPOTIFY_CLIENT_ID cannot be empty")
	}
	if c.ClientSecret == "" {
		errors = append(errors, "SPOTIFY_CLIENT_SECRET cannot be empty")
	}

	// Validate RedirectURI
	if c.RedirectURI == "" {
		errors = append(errors, "SPOTIFY_REDIRECT_URI cannot be empty")
	} else {
		u, err := url.Parse(c.RedirectURI)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("SPOTIFY_REDIRECT_URI is not a valid URL: %s", c.RedirectURI))
		}
	}

	// Validate SyncInterval
	if c.SyncInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("SYNC_INTERVAL must be at least 1m, got: %s", c.SyncInterval))
	}

	// Validate CacheTTL
	if c.CacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("CACHE_TTL must be positive, got: %s", c.CacheTTL))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	// Validate Username
	if c.Username == "" {
		errors = append(errors, "STATIFY_USERNAME cannot be empty")
	}

	// Validate Password
	if c.Password == "" {
		errors = append(errors, "STATIFY_PASSWORD cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDurationEnv retrieves a duration environment variable; unparseable
// values fall back to the default.
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
