// Package config loads the desk configuration from TOML files and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LSDESK_"

// Config is the whole desk configuration.
type Config struct {
	Document  string          `toml:"document"`
	Store     StoreConfig     `toml:"store"`
	Quotes    QuotesConfig    `toml:"quotes"`
	Targets   TargetsConfig   `toml:"targets"`
	Migration MigrationConfig `toml:"migration"`
	Refresh   RefreshConfig   `toml:"refresh"`
	Server    ServerConfig    `toml:"server"`
	Logging   LoggingConfig   `toml:"logging"`
	Assist    AssistConfig    `toml:"assist"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Kind     string `toml:"kind"` // file, sqlite, s3 or memory
	Path     string `toml:"path"` // directory for file, database file for sqlite
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"` // S3 compatible endpoint, empty for AWS
}

// QuotesConfig configures quote resolution.
type QuotesConfig struct {
	Suffix  string      `toml:"suffix"`  // exchange suffix appended to bare symbols
	Profile string      `toml:"profile"` // delayed, intraday or premium
	EODHD   EODHDConfig `toml:"eodhd"`
	Feed    FeedConfig  `toml:"feed"`
}

// EODHDConfig holds the real-time premium feed settings.
type EODHDConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses Timeout, 30s when unset or invalid.
func (c EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// FeedConfig describes a generic JSON quote feed. URL may contain "{symbol}".
type FeedConfig struct {
	URL       string `toml:"url"`
	PricePath string `toml:"price_path"`
	NamePath  string `toml:"name_path"`
	TimePath  string `toml:"time_path"`
}

// TargetsConfig configures target evaluation.
type TargetsConfig struct {
	Precedence string `toml:"precedence"` // gain or loss
}

// MigrationConfig names the advisor and client given to legacy operations.
type MigrationConfig struct {
	DefaultAdvisor string `toml:"default_advisor"`
	DefaultClient  string `toml:"default_client"`
}

// RefreshConfig configures the watch loop.
type RefreshConfig struct {
	Schedule string `toml:"schedule"` // cron expression or descriptor
}

// ServerConfig configures the read-only API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// AssistConfig configures the digest assistant. An empty APIKey disables it.
type AssistConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// NewDefaultConfig returns a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Document: "carteira",
		Store: StoreConfig{
			Kind: "file",
			Path: "data",
		},
		Quotes: QuotesConfig{
			Suffix:  ".SA",
			Profile: "intraday",
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Targets:   TargetsConfig{Precedence: "gain"},
		Migration: MigrationConfig{DefaultAdvisor: "Geral", DefaultClient: "Carteira"},
		Refresh:   RefreshConfig{Schedule: "@every 60s"},
		Server:    ServerConfig{Addr: ":8080"},
		Logging:   LoggingConfig{Level: "info"},
		Assist:    AssistConfig{Model: "gemini-2.5-flash"},
	}
}

// Load returns the defaults overridden by each existing file of paths in order, then by the
// environment. Empty and missing paths are skipped. A .env file in the working directory is
// loaded into the environment first, without overriding variables already set.
func Load(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	_ = godotenv.Load() // .env is optional
	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies LSDESK_* environment variables.
func applyEnvOverrides(config *Config) {
	setString(&config.Document, "DOCUMENT")

	setString(&config.Store.Kind, "STORE_KIND")
	setString(&config.Store.Path, "STORE_PATH")
	setString(&config.Store.Bucket, "STORE_BUCKET")
	setString(&config.Store.Prefix, "STORE_PREFIX")
	setString(&config.Store.Region, "STORE_REGION")
	setString(&config.Store.Endpoint, "STORE_ENDPOINT")

	setString(&config.Quotes.Suffix, "QUOTES_SUFFIX")
	setString(&config.Quotes.Profile, "QUOTES_PROFILE")
	setString(&config.Quotes.EODHD.APIKey, "EODHD_API_KEY")
	setString(&config.Quotes.EODHD.BaseURL, "EODHD_BASE_URL")
	setInt(&config.Quotes.EODHD.RateLimit, "EODHD_RATE_LIMIT")
	setString(&config.Quotes.EODHD.Timeout, "EODHD_TIMEOUT")
	setString(&config.Quotes.Feed.URL, "FEED_URL")

	setString(&config.Targets.Precedence, "TARGETS_PRECEDENCE")
	setString(&config.Refresh.Schedule, "REFRESH_SCHEDULE")
	setString(&config.Server.Addr, "SERVER_ADDR")

	setString(&config.Logging.Level, "LOG_LEVEL")
	setBool(&config.Logging.Pretty, "LOG_PRETTY")

	setString(&config.Assist.APIKey, "ASSIST_API_KEY")
	setString(&config.Assist.Model, "ASSIST_MODEL")
	// the genai client reads GEMINI_API_KEY itself, honor it here too.
	if config.Assist.APIKey == "" {
		config.Assist.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

func setString(field *string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*field = v
	}
}

func setInt(field *int, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*field = n
		}
	}
}

func setBool(field *bool, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*field = b
		}
	}
}
