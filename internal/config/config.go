package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"GoldenCross/internal/model"
)

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Backtest struct {
		Symbol     string `yaml:"symbol"`
		Start      string `yaml:"start"`
		End        string `yaml:"end"`
		FastWindow int    `yaml:"fast_window"`
		SlowWindow int    `yaml:"slow_window"`
	} `yaml:"backtest"`
	DataSource struct {
		Provider          string  `yaml:"provider"` // "yahoo" or "alpaca"
		AlpacaAPIKey      string  `yaml:"alpaca_api_key"`
		AlpacaAPISecret   string  `yaml:"alpaca_api_secret"`
		AlpacaDataURL     string  `yaml:"alpaca_data_url"`
		CacheDir          string  `yaml:"cache_dir"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	Proxy struct {
		Enabled bool   `yaml:"enabled"`
		Address string `yaml:"address"`
	} `yaml:"proxy"`
	Synthetic struct {
		Disabled   bool    `yaml:"disabled"`
		Seed       uint64  `yaml:"seed"`
		Length     int     `yaml:"length"`
		StartPrice float64 `yaml:"start_price"`
		Drift      float64 `yaml:"drift"`
		Volatility float64 `yaml:"volatility"`
	} `yaml:"synthetic"`
	Report struct {
		ChartPath string `yaml:"chart_path"`
		CSVPath   string `yaml:"csv_path"`
	} `yaml:"report"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"` // empty runs once and exits
	} `yaml:"schedule"`
}

// Load starts from the defaults, then overlays the YAML file and the
// environment (.env included). A missing file is not an error. Keys that are
// present keep their value even when it is zero, so Validate sees it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SYMBOL"); v != "" {
		c.Backtest.Symbol = v
	}
	if v := os.Getenv("START_DATE"); v != "" {
		c.Backtest.Start = v
	}
	if v := os.Getenv("END_DATE"); v != "" {
		c.Backtest.End = v
	}
	if v := os.Getenv("FAST_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FAST_WINDOW=%q: %w", v, model.ErrInvalidConfiguration)
		}
		c.Backtest.FastWindow = n
	}
	if v := os.Getenv("SLOW_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SLOW_WINDOW=%q: %w", v, model.ErrInvalidConfiguration)
		}
		c.Backtest.SlowWindow = n
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy.Address = v
	}
	if v := os.Getenv("USE_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("USE_PROXY=%q: %w", v, model.ErrInvalidConfiguration)
		}
		c.Proxy.Enabled = b
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		c.DataSource.AlpacaAPIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		c.DataSource.AlpacaAPISecret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	return nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.Backtest.Symbol = "AAPL"
	c.Backtest.Start = "2023-01-01"
	c.Backtest.End = "2024-06-01"
	c.Backtest.FastWindow = 5
	c.Backtest.SlowWindow = 20
	c.DataSource.Provider = "yahoo"
	c.DataSource.CacheDir = "data/bars"
	c.DataSource.RequestsPerSecond = 2
	c.Proxy.Address = "http://127.0.0.1:7897"
	c.Synthetic.Length = 300
	c.Synthetic.StartPrice = 150
	c.Synthetic.Drift = 0.0005
	c.Synthetic.Volatility = 0.02
	c.Report.ChartPath = "backtest_result.png"
	return c
}

// Validate checks the backtest parameters. Every failure wraps
// model.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Backtest.Symbol) == "" {
		errs = append(errs, errors.New("backtest.symbol is required"))
	}
	if c.Backtest.FastWindow < 1 {
		errs = append(errs, fmt.Errorf("backtest.fast_window must be >= 1, got %d", c.Backtest.FastWindow))
	}
	if c.Backtest.SlowWindow <= c.Backtest.FastWindow {
		errs = append(errs, fmt.Errorf("backtest.slow_window (%d) must exceed fast_window (%d)",
			c.Backtest.SlowWindow, c.Backtest.FastWindow))
	}
	start, serr := time.Parse(dateLayout, c.Backtest.Start)
	if serr != nil {
		errs = append(errs, fmt.Errorf("backtest.start: %w", serr))
	}
	end, eerr := time.Parse(dateLayout, c.Backtest.End)
	if eerr != nil {
		errs = append(errs, fmt.Errorf("backtest.end: %w", eerr))
	}
	if serr == nil && eerr == nil && !start.Before(end) {
		errs = append(errs, fmt.Errorf("backtest.start %s must be before end %s", c.Backtest.Start, c.Backtest.End))
	}
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.AlpacaAPIKey == "" || c.DataSource.AlpacaAPISecret == "" {
			errs = append(errs, errors.New("data_source.provider alpaca needs alpaca_api_key and alpaca_api_secret"))
		}
	default:
		errs = append(errs, fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider))
	}
	if c.DataSource.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("data_source.requests_per_second must be positive, got %g", c.DataSource.RequestsPerSecond))
	}
	if c.Synthetic.Length < 0 || c.Synthetic.StartPrice <= 0 {
		errs = append(errs, errors.New("synthetic.length must be >= 0 and start_price positive"))
	}
	if c.Synthetic.Volatility < 0 {
		errs = append(errs, fmt.Errorf("synthetic.volatility must not be negative, got %g", c.Synthetic.Volatility))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrInvalidConfiguration, errors.Join(errs...))
	}
	return nil
}

// StartDate returns backtest.start parsed as a UTC date.
func (c *Config) StartDate() time.Time {
	t, _ := time.Parse(dateLayout, c.Backtest.Start)
	return t
}

// EndDate returns backtest.end parsed as a UTC date.
func (c *Config) EndDate() time.Time {
	t, _ := time.Parse(dateLayout, c.Backtest.End)
	return t
}

// ProxyURL returns the proxy address when the proxy is enabled, otherwise "".
func (c *Config) ProxyURL() string {
	if !c.Proxy.Enabled {
		return ""
	}
	return c.Proxy.Address
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
