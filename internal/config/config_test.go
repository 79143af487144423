package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenCross/internal/model"
)

var envKeys = []string{
	"SYMBOL", "START_DATE", "END_DATE", "FAST_WINDOW", "SLOW_WINDOW",
	"HTTPS_PROXY", "USE_PROXY", "ALPACA_API_KEY", "ALPACA_API_SECRET",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SQLITE_PATH", "CRON_SCHEDULE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", cfg.Backtest.Symbol)
	assert.Equal(t, 5, cfg.Backtest.FastWindow)
	assert.Equal(t, 20, cfg.Backtest.SlowWindow)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "http://127.0.0.1:7897", cfg.Proxy.Address)
	assert.False(t, cfg.Proxy.Enabled)
	assert.Equal(t, "", cfg.ProxyURL())
	assert.Equal(t, 300, cfg.Synthetic.Length)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), cfg.StartDate())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), cfg.EndDate())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
backtest:
  symbol: MSFT
  start: "2022-01-01"
  end: "2022-12-31"
  fast_window: 10
  slow_window: 50
proxy:
  enabled: true
  address: http://proxy.local:8080
schedule:
  cron: "0 0 22 * * 1-5"
`)
	t.Setenv("SLOW_WINDOW", "30")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "MSFT", cfg.Backtest.Symbol)
	assert.Equal(t, 10, cfg.Backtest.FastWindow)
	assert.Equal(t, 30, cfg.Backtest.SlowWindow)
	assert.Equal(t, "http://proxy.local:8080", cfg.ProxyURL())
	assert.Equal(t, "0 0 22 * * 1-5", cfg.Schedule.Cron)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitZeroWindowIsKept(t *testing.T) {
	clearEnv(t)
	t.Setenv("FAST_WINDOW", "0")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Backtest.FastWindow)
	assert.ErrorIs(t, cfg.Validate(), model.ErrInvalidConfiguration)

	clearEnv(t)
	cfg, err = Load(writeConfig(t, "backtest:\n  slow_window: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Backtest.FastWindow)
	assert.Equal(t, 0, cfg.Backtest.SlowWindow)
	assert.ErrorIs(t, cfg.Validate(), model.ErrInvalidConfiguration)
}

func TestLoad_ZeroSyntheticDriftAndVolatility(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, `
synthetic:
  drift: 0
  volatility: 0
`))
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Synthetic.Drift)
	assert.Equal(t, 0.0, cfg.Synthetic.Volatility)
	// keys absent from the file keep their defaults
	assert.Equal(t, 300, cfg.Synthetic.Length)
	assert.Equal(t, 150.0, cfg.Synthetic.StartPrice)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadEnvNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("FAST_WINDOW", "five")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "backtest: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"fast negative", func(c *Config) { c.Backtest.FastWindow = -1 }},
		{"slow equals fast", func(c *Config) { c.Backtest.SlowWindow = c.Backtest.FastWindow }},
		{"slow below fast", func(c *Config) { c.Backtest.FastWindow, c.Backtest.SlowWindow = 20, 5 }},
		{"bad start", func(c *Config) { c.Backtest.Start = "01/02/2023" }},
		{"start after end", func(c *Config) { c.Backtest.Start, c.Backtest.End = "2024-01-01", "2023-01-01" }},
		{"empty symbol", func(c *Config) { c.Backtest.Symbol = " " }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"alpaca without keys", func(c *Config) { c.DataSource.Provider = "alpaca" }},
		{"fast zero", func(c *Config) { c.Backtest.FastWindow = 0 }},
		{"zero request rate", func(c *Config) { c.DataSource.RequestsPerSecond = 0 }},
		{"negative volatility", func(c *Config) { c.Synthetic.Volatility = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), model.ErrInvalidConfiguration)
		})
	}
}
