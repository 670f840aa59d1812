// Package config defines the top-level configuration for the steam arbitrage
// analyzer and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by STEAMARB_* environment
// variables.
type Config struct {
	Steam    SteamConfig    `toml:"steam"`
	Skinport SkinportConfig `toml:"skinport"`
	DMarket  DMarketConfig  `toml:"dmarket"`
	Analysis AnalysisConfig `toml:"analysis"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// SteamConfig holds Steam community/Web API endpoints and credentials.
type SteamConfig struct {
	CommunityURL string `toml:"community_url"`
	WebAPIURL    string `toml:"web_api_url"`
	// APIKey enables vanity-URL resolution through ISteamUser/ResolveVanityURL.
	// Without it, resolution falls back to scraping the profile page.
	APIKey    string `toml:"api_key"`
	ContextID int    `toml:"context_id"`
}

// SkinportConfig holds the Skinport provider parameters.
type SkinportConfig struct {
	Enabled bool    `toml:"enabled"`
	BaseURL string  `toml:"base_url"`
	FeePct  float64 `toml:"fee_pct"`
	FlatFee float64 `toml:"flat_fee"`
}

// DMarketConfig holds the DMarket provider parameters.
type DMarketConfig struct {
	Enabled bool    `toml:"enabled"`
	BaseURL string  `toml:"base_url"`
	FeePct  float64 `toml:"fee_pct"`
	FlatFee float64 `toml:"flat_fee"`
}

// AnalysisConfig holds the aggregation pipeline parameters.
type AnalysisConfig struct {
	// MaxItems caps how many inventory items one run analyzes. This is a
	// cost/latency bound; items past the cap are simply not analyzed.
	MaxItems int `toml:"max_items"`
	// QuoteTimeout bounds each provider call so one hung upstream cannot
	// stall a whole run. A timeout is treated the same as no quote.
	QuoteTimeout duration `toml:"quote_timeout"`
	// Account and AppID are only used by the one-shot "analyze" mode.
	Account string `toml:"account"`
	AppID   int    `toml:"app_id"`
}

// RedisConfig holds Redis connection parameters for the quote and
// reference-price caches.
type RedisConfig struct {
	Enabled    bool     `toml:"enabled"`
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	QuoteTTL   duration `toml:"quote_ttl"`
	PriceTTL   duration `toml:"price_ttl"`
}

// PostgresConfig holds PostgreSQL connection parameters for the analysis
// run history.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// S3Config holds S3-compatible object storage parameters for analysis
// exports.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	APIKey          string   `toml:"api_key"`
	RateLimit       int      `toml:"rate_limit"`
	RateLimitWindow duration `toml:"rate_limit_window"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "8s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "8s" or "5m".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Steam: SteamConfig{
			CommunityURL: "https://steamcommunity.com",
			WebAPIURL:    "https://api.steampowered.com",
			ContextID:    2,
		},
		Skinport: SkinportConfig{
			Enabled: true,
			BaseURL: "https://api.skinport.com/v1",
			FeePct:  0.12,
			FlatFee: 0,
		},
		DMarket: DMarketConfig{
			Enabled: true,
			BaseURL: "https://api.dmarket.com",
			FeePct:  0.05,
			FlatFee: 0,
		},
		Analysis: AnalysisConfig{
			MaxItems:     50,
			QuoteTimeout: duration{8 * time.Second},
			AppID:        730,
		},
		Redis: RedisConfig{
			Enabled:    true,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			QuoteTTL:   duration{time.Minute},
			PriceTTL:   duration{time.Minute},
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "steamarb",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "steamarb-data",
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Port:            8000,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:       30,
			RateLimitWindow: duration{time.Minute},
		},
		Notify: NotifyConfig{
			Events: []string{"analysis_completed", "error"},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"server":  true,
	"analyze": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, analyze)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Steam endpoints
	if c.Steam.CommunityURL == "" {
		errs = append(errs, "steam: community_url must not be empty")
	}
	if c.Steam.WebAPIURL == "" {
		errs = append(errs, "steam: web_api_url must not be empty")
	}
	if c.Steam.ContextID <= 0 {
		errs = append(errs, "steam: context_id must be positive")
	}

	// Providers — at least one must be enabled, and fee schedules must be sane.
	if !c.Skinport.Enabled && !c.DMarket.Enabled {
		errs = append(errs, "providers: at least one of skinport or dmarket must be enabled")
	}
	if c.Skinport.Enabled {
		if c.Skinport.BaseURL == "" {
			errs = append(errs, "skinport: base_url must not be empty")
		}
		if c.Skinport.FeePct < 0 || c.Skinport.FeePct > 1 {
			errs = append(errs, fmt.Sprintf("skinport: fee_pct must be in [0,1], got %v", c.Skinport.FeePct))
		}
		if c.Skinport.FlatFee < 0 {
			errs = append(errs, "skinport: flat_fee must be >= 0")
		}
	}
	if c.DMarket.Enabled {
		if c.DMarket.BaseURL == "" {
			errs = append(errs, "dmarket: base_url must not be empty")
		}
		if c.DMarket.FeePct < 0 || c.DMarket.FeePct > 1 {
			errs = append(errs, fmt.Sprintf("dmarket: fee_pct must be in [0,1], got %v", c.DMarket.FeePct))
		}
		if c.DMarket.FlatFee < 0 {
			errs = append(errs, "dmarket: flat_fee must be >= 0")
		}
	}

	// Analysis
	if c.Analysis.MaxItems < 1 {
		errs = append(errs, "analysis: max_items must be >= 1")
	}
	if c.Analysis.QuoteTimeout.Duration <= 0 {
		errs = append(errs, "analysis: quote_timeout must be > 0")
	}
	if c.Mode == "analyze" {
		if strings.TrimSpace(c.Analysis.Account) == "" {
			errs = append(errs, "analysis: account is required for analyze mode")
		}
		if _, ok := supportedApp(c.Analysis.AppID); !ok {
			errs = append(errs, fmt.Sprintf("analysis: app_id must be 730 (CS2) or 570 (Dota 2), got %d", c.Analysis.AppID))
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty")
		}
	}

	// Server
	if c.Mode == "server" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server: rate_limit must be >= 0")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// supportedApp reports whether appID is one of the games the analyzer
// understands.
func supportedApp(appID int) (string, bool) {
	switch appID {
	case 730:
		return "CS2", true
	case 570:
		return "Dota 2", true
	default:
		return "", false
	}
}
