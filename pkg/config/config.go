package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Scan struct {
		Symbols       []string      `yaml:"symbols"`
		Timeframe     string        `yaml:"timeframe"`
		Interval      time.Duration `yaml:"interval"`
		MaxGapMinutes int           `yaml:"max_gap_minutes"`
	} `yaml:"scan"`
	Scoring struct {
		ScoreThreshold  int `yaml:"score_threshold"`
		AICallThreshold int `yaml:"ai_call_threshold"`
		MinSTierHits    int `yaml:"min_s_tier_hits"`
	} `yaml:"scoring"`
	Alerts struct {
		CooldownMinutes int `yaml:"cooldown_minutes"`
		StrengthenDelta int `yaml:"strengthen_delta"`
	} `yaml:"alerts"`
	AI struct {
		Provider          string `yaml:"provider"`
		APIKey            string `yaml:"api_key"`
		MaxPerSymbolDaily int    `yaml:"max_per_symbol_daily"`
		MaxGlobalDaily    int    `yaml:"max_global_daily"`
	} `yaml:"ai"`
	Backtest struct {
		CooldownBars       int     `yaml:"cooldown_bars"`
		LookaheadBars      int     `yaml:"lookahead_bars"`
		PrecisionTargetPct float64 `yaml:"precision_target_pct"`
	} `yaml:"backtest"`
	Store struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"store"`
	Journal struct {
		Enabled    bool   `yaml:"enabled"`
		Table      string `yaml:"table"`
		ClickHouse struct {
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			UseHTTP          bool          `yaml:"use_http"`
			AsyncInsert      bool          `yaml:"async_insert"`
			WaitForAsync     bool          `yaml:"wait_for_async_insert"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"journal"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
	} `yaml:"kafka"`
	Finnhub struct {
		APIKey   string        `yaml:"api_key"`
		Lookback time.Duration `yaml:"lookback"`
	} `yaml:"finnhub"`
	Notifier struct {
		Type     string `yaml:"type"`
		Telegram struct {
			BotToken string `yaml:"bot_token"`
			ChatID   string `yaml:"chat_id"`
		} `yaml:"telegram"`
		Currency struct {
			Rate  float64 `yaml:"rate"`
			Label string  `yaml:"label"`
		} `yaml:"currency"`
	} `yaml:"notifier"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Override with environment variables
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Scan.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Notifier.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Notifier.Telegram.ChatID = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Journal.ClickHouse.Host = v
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Scan.Timeframe == "" {
		c.Scan.Timeframe = "1h"
	}
	if c.Scan.Interval == 0 {
		c.Scan.Interval = 15 * time.Minute
	}
	if c.Scan.MaxGapMinutes == 0 {
		c.Scan.MaxGapMinutes = 720
	}
	if c.Scoring.ScoreThreshold == 0 {
		c.Scoring.ScoreThreshold = 5
	}
	if c.Scoring.AICallThreshold == 0 {
		c.Scoring.AICallThreshold = 6
	}
	if c.Scoring.MinSTierHits == 0 {
		c.Scoring.MinSTierHits = 2
	}
	if c.Alerts.CooldownMinutes == 0 {
		c.Alerts.CooldownMinutes = 120
	}
	if c.Alerts.StrengthenDelta == 0 {
		c.Alerts.StrengthenDelta = 3
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "rule_based"
	}
	if c.AI.MaxPerSymbolDaily == 0 {
		c.AI.MaxPerSymbolDaily = 3
	}
	if c.AI.MaxGlobalDaily == 0 {
		c.AI.MaxGlobalDaily = 20
	}
	if c.Backtest.CooldownBars == 0 {
		c.Backtest.CooldownBars = 8
	}
	if c.Backtest.LookaheadBars == 0 {
		c.Backtest.LookaheadBars = 130
	}
	if c.Backtest.PrecisionTargetPct == 0 {
		c.Backtest.PrecisionTargetPct = 3.0
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "data/bars"
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = "bottomscan"
	}
	if c.Journal.Table == "" {
		c.Journal.Table = "bottomscan_cycles"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "bottomscan.alerts"
	}
	if c.Kafka.Compression == "" {
		c.Kafka.Compression = "gzip"
	}
	if c.Finnhub.Lookback == 0 {
		c.Finnhub.Lookback = 45 * 24 * time.Hour
	}
	if c.Notifier.Type == "" {
		c.Notifier.Type = "console"
	}
	if c.Notifier.Currency.Rate == 0 {
		c.Notifier.Currency.Rate = 1380
	}
	if c.Notifier.Currency.Label == "" {
		c.Notifier.Currency.Label = "KRW"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Scan.Symbols) == 0 {
		return fmt.Errorf("scan.symbols cannot be empty")
	}
	switch c.Store.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("store.backend must be 'file', 'redis' or 'memory', got '%s'", c.Store.Backend)
	}
	switch c.AI.Provider {
	case "rule_based", "anthropic":
	default:
		return fmt.Errorf("ai.provider must be 'rule_based' or 'anthropic', got '%s'", c.AI.Provider)
	}
	if c.AI.Provider == "anthropic" && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required for the anthropic provider")
	}
	switch c.Notifier.Type {
	case "console", "telegram":
	default:
		return fmt.Errorf("notifier.type must be 'console' or 'telegram', got '%s'", c.Notifier.Type)
	}
	if c.Notifier.Type == "telegram" {
		if c.Notifier.Telegram.BotToken == "" || c.Notifier.Telegram.ChatID == "" {
			return fmt.Errorf("notifier.telegram requires bot_token and chat_id")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Journal.Enabled && c.Journal.ClickHouse.Host == "" {
		return fmt.Errorf("journal.clickhouse.host is required when the journal is enabled")
	}
	return nil
}
