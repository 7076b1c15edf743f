// Package config reads the configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slices"
)

// Authentication modes
const (
	AuthModeHeader = "header" // User from the headers of an authenticating proxy
	AuthModeLocal  = "local"  // A fixed user for local development
)

type Config struct {
	// HTTP Server
	Port             string
	APIURL           *url.URL
	CORSAllowOrigins []string
	EnablePprof      bool
	RequestTimeout   time.Duration

	// Logging
	GinMode   string
	LogFormat string

	// Database
	DBPath string

	// Ledger
	LedgerRetries int

	// Authentication
	AuthMode string

	rawAPIURL string
}

// Load reads the configuration from the environment.
//
// Variables from a .env file in the working directory are loaded first, they
// never override variables that are already set.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		rawAPIURL:        getEnv("API_URL", "http://localhost:8080"),
		CORSAllowOrigins: getEnvList("CORS_ALLOW_ORIGINS"),
		EnablePprof:      getEnvBool("ENABLE_PPROF", false),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),

		// gin uses debug as the default mode, we use release for
		// security reasons
		GinMode:   getEnv("GIN_MODE", "release"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		DBPath: getEnv("DB_PATH", "data/ledger.db"),

		LedgerRetries: getEnvInt("LEDGER_RETRIES", 2),

		AuthMode: getEnv("AUTH_MODE", AuthModeHeader),
	}

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate API URL
	if c.rawAPIURL == "" && c.APIURL == nil {
		errors = append(errors, "API_URL must be set")
	} else if c.rawAPIURL != "" {
		parsedURL, err := url.Parse(strings.TrimSuffix(c.rawAPIURL, "/"))
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid API URL '%s': %v", c.rawAPIURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		} else {
			c.APIURL = parsedURL
		}
	}

	validGinModes := []string{"debug", "release", "test"}
	if !slices.Contains(validGinModes, c.GinMode) {
		errors = append(errors, fmt.Sprintf("invalid gin mode '%s': must be one of %v", c.GinMode, validGinModes))
	}

	validLogFormats := []string{"", "human", "json"}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'human' or 'json'", c.LogFormat))
	}

	validAuthModes := []string{AuthModeHeader, AuthModeLocal}
	if !slices.Contains(validAuthModes, c.AuthMode) {
		errors = append(errors, fmt.Sprintf("invalid auth mode '%s': must be one of %v", c.AuthMode, validAuthModes))
	}

	if c.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be positive", c.RequestTimeout))
	}

	if c.LedgerRetries < 0 || c.LedgerRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid ledger retries %d: must be between 0 and 10", c.LedgerRetries))
	}

	// Validate the database path, in-memory databases have none
	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else if !strings.HasPrefix(c.DBPath, ":memory:") {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// HumanLogs reports if logs are written in human readable form.
//
// If the log format is not set explicitly, it defaults to human readable
// in debug mode and JSON otherwise.
func (c *Config) HumanLogs() bool {
	return c.LogFormat == "human" || (c.LogFormat == "" && c.GinMode == "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a space separated list.
func getEnvList(key string) []string {
	return strings.Fields(os.Getenv(key))
}
