package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies STEAMARB_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known STEAMARB_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Steam ──
	setStr(&cfg.Steam.CommunityURL, "STEAMARB_STEAM_COMMUNITY_URL")
	setStr(&cfg.Steam.WebAPIURL, "STEAMARB_STEAM_WEB_API_URL")
	setStr(&cfg.Steam.APIKey, "STEAM_API_KEY") // compatibility alias, lowest precedence
	setStr(&cfg.Steam.APIKey, "STEAMARB_STEAM_API_KEY")
	setInt(&cfg.Steam.ContextID, "STEAMARB_STEAM_CONTEXT_ID")

	// ── Providers ──
	setBool(&cfg.Skinport.Enabled, "STEAMARB_SKINPORT_ENABLED")
	setStr(&cfg.Skinport.BaseURL, "STEAMARB_SKINPORT_BASE_URL")
	setFloat64(&cfg.Skinport.FeePct, "STEAMARB_SKINPORT_FEE_PCT")
	setFloat64(&cfg.Skinport.FlatFee, "STEAMARB_SKINPORT_FLAT_FEE")
	setBool(&cfg.DMarket.Enabled, "STEAMARB_DMARKET_ENABLED")
	setStr(&cfg.DMarket.BaseURL, "STEAMARB_DMARKET_BASE_URL")
	setFloat64(&cfg.DMarket.FeePct, "STEAMARB_DMARKET_FEE_PCT")
	setFloat64(&cfg.DMarket.FlatFee, "STEAMARB_DMARKET_FLAT_FEE")

	// ── Analysis ──
	setInt(&cfg.Analysis.MaxItems, "STEAMARB_ANALYSIS_MAX_ITEMS")
	setDuration(&cfg.Analysis.QuoteTimeout, "STEAMARB_ANALYSIS_QUOTE_TIMEOUT")
	setStr(&cfg.Analysis.Account, "STEAMARB_ANALYSIS_ACCOUNT")
	setInt(&cfg.Analysis.AppID, "STEAMARB_ANALYSIS_APP_ID")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "STEAMARB_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "STEAMARB_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "STEAMARB_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "STEAMARB_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "STEAMARB_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "STEAMARB_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "STEAMARB_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.QuoteTTL, "STEAMARB_REDIS_QUOTE_TTL")
	setDuration(&cfg.Redis.PriceTTL, "STEAMARB_REDIS_PRICE_TTL")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "STEAMARB_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "STEAMARB_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "STEAMARB_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "STEAMARB_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "STEAMARB_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "STEAMARB_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "STEAMARB_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "STEAMARB_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "STEAMARB_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "STEAMARB_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "STEAMARB_POSTGRES_RUN_MIGRATIONS")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "STEAMARB_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "STEAMARB_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "STEAMARB_S3_REGION")
	setStr(&cfg.S3.Bucket, "STEAMARB_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "STEAMARB_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "STEAMARB_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "STEAMARB_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "STEAMARB_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "STEAMARB_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "STEAMARB_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "STEAMARB_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "STEAMARB_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateLimitWindow, "STEAMARB_SERVER_RATE_LIMIT_WINDOW")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "STEAMARB_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "STEAMARB_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "STEAMARB_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "STEAMARB_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "STEAMARB_MODE")
	setStr(&cfg.LogLevel, "STEAMARB_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
