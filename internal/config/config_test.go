package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "turbo"
	cfg.Skinport.FeePct = 1.5
	cfg.Analysis.MaxItems = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "fee_pct")
	assert.Contains(t, err.Error(), "max_items")
}

func TestValidateAnalyzeModeRequiresAccount(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "analyze"
	cfg.Analysis.Account = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account is required")
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
mode = "analyze"
log_level = "debug"

[analysis]
max_items = 25
quote_timeout = "3s"
account = "76561198012345678"
app_id = 570

[dmarket]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "analyze", cfg.Mode)
	assert.Equal(t, 25, cfg.Analysis.MaxItems)
	assert.Equal(t, 3*time.Second, cfg.Analysis.QuoteTimeout.Duration)
	assert.Equal(t, 570, cfg.Analysis.AppID)
	assert.False(t, cfg.DMarket.Enabled)
	// Untouched sections keep their defaults.
	assert.True(t, cfg.Skinport.Enabled)
	assert.InDelta(t, 0.12, cfg.Skinport.FeePct, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STEAMARB_ANALYSIS_MAX_ITEMS", "10")
	t.Setenv("STEAMARB_SKINPORT_FEE_PCT", "0.10")
	t.Setenv("STEAMARB_REDIS_ENABLED", "false")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, 10, cfg.Analysis.MaxItems)
	assert.InDelta(t, 0.10, cfg.Skinport.FeePct, 1e-9)
	assert.False(t, cfg.Redis.Enabled)
}

func TestSteamAPIKeyAlias(t *testing.T) {
	t.Setenv("STEAM_API_KEY", "legacy-key")

	cfg := Defaults()
	applyEnvOverrides(&cfg)
	assert.Equal(t, "legacy-key", cfg.Steam.APIKey)
}

func TestSteamAPIKeyPrefixedWinsOverAlias(t *testing.T) {
	t.Setenv("STEAM_API_KEY", "legacy-key")
	t.Setenv("STEAMARB_STEAM_API_KEY", "prefixed-key")

	cfg := Defaults()
	applyEnvOverrides(&cfg)
	assert.Equal(t, "prefixed-key", cfg.Steam.APIKey)
}
