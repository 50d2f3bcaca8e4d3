package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from yaml strings like "45m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		Symbol    string `yaml:"symbol"`
		Timeframe string `yaml:"timeframe"`
		Candles   int    `yaml:"candles"`
	} `yaml:"data_source"`
	Analysis struct {
		Cron        string `yaml:"cron"`
		SwingWindow int    `yaml:"swing_window"`
	} `yaml:"analysis"`
	Signals struct {
		EntryTTL     Duration `yaml:"entry_ttl"`
		TradeTTL     Duration `yaml:"trade_ttl"`
		StopBuffer   float64  `yaml:"stop_buffer"`
		RewardRatio  float64  `yaml:"reward_ratio"`
		Tolerance    float64  `yaml:"tolerance"`
		NearMissBand float64  `yaml:"near_miss_band"`
		WatchEvery   Duration `yaml:"watch_every"`
		SweepEvery   Duration `yaml:"sweep_every"`
		SweepGrace   Duration `yaml:"sweep_grace"`
	} `yaml:"signals"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults.
func Load(path string) (*Config, error) {
	// .env is optional; real env vars win over it.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FEED_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("FEED_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("FEED_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("FEED_TIMEFRAME"); v != "" {
		cfg.DataSource.Timeframe = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ANALYSIS_CRON"); v != "" {
		cfg.Analysis.Cron = v
	}
	if v := os.Getenv("SWING_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.SwingWindow = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "EURUSD"
	}
	if cfg.DataSource.Timeframe == "" {
		cfg.DataSource.Timeframe = "15m"
	}
	if cfg.DataSource.Candles == 0 {
		cfg.DataSource.Candles = 200
	}
	if cfg.Analysis.Cron == "" {
		cfg.Analysis.Cron = "0 */15 * * * *"
	}
	if cfg.Analysis.SwingWindow == 0 {
		cfg.Analysis.SwingWindow = 2
	}
	if cfg.Signals.EntryTTL == 0 {
		cfg.Signals.EntryTTL = Duration(30 * time.Minute)
	}
	if cfg.Signals.TradeTTL == 0 {
		cfg.Signals.TradeTTL = Duration(4 * time.Hour)
	}
	if cfg.Signals.StopBuffer == 0 {
		cfg.Signals.StopBuffer = 0.0005
	}
	if cfg.Signals.RewardRatio == 0 {
		cfg.Signals.RewardRatio = 2.0
	}
	if cfg.Signals.Tolerance == 0 {
		cfg.Signals.Tolerance = 0.0002
	}
	if cfg.Signals.NearMissBand == 0 {
		cfg.Signals.NearMissBand = 0.001
	}
	if cfg.Signals.WatchEvery == 0 {
		cfg.Signals.WatchEvery = Duration(30 * time.Second)
	}
	if cfg.Signals.SweepEvery == 0 {
		cfg.Signals.SweepEvery = Duration(5 * time.Minute)
	}
	if cfg.Signals.SweepGrace == 0 {
		cfg.Signals.SweepGrace = Duration(10 * time.Minute)
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/struct_sentinel.db"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9109"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Analysis.SwingWindow < 1 {
		return fmt.Errorf("analysis.swing_window must be at least 1")
	}
	if c.Signals.RewardRatio <= 0 {
		return fmt.Errorf("signals.reward_ratio must be positive")
	}
	if c.Signals.Tolerance < 0 || c.Signals.Tolerance >= 0.01 {
		return fmt.Errorf("signals.tolerance out of range")
	}
	if c.Signals.EntryTTL <= 0 || c.Signals.TradeTTL <= 0 {
		return fmt.Errorf("signal TTLs must be positive")
	}
	return nil
}
