package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/papertrader/signal"
)

// Config represents the complete run configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Live     LiveConfig     `json:"live" yaml:"live"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig contains ledger initialization parameters
type AccountConfig struct {
	InitialBalance float64 `json:"initial_balance" yaml:"initial_balance"`
	StateFile      string  `json:"state_file,omitempty" yaml:"state_file,omitempty"`
}

// StrategyConfig contains moving-average signal parameters
type StrategyConfig struct {
	Window       int     `json:"window" yaml:"window"`
	BuyFactor    float64 `json:"buy_factor" yaml:"buy_factor"`
	SellFactor   float64 `json:"sell_factor" yaml:"sell_factor"`
	RiskFraction float64 `json:"risk_fraction" yaml:"risk_fraction"`
}

// DataConfig selects the symbol universe and the historical range
type DataConfig struct {
	Symbols      []string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	UniverseFile string   `json:"universe_file,omitempty" yaml:"universe_file,omitempty"`
	Interval     string   `json:"interval" yaml:"interval"`
	LookbackDays int      `json:"lookback_days,omitempty" yaml:"lookback_days,omitempty"`
	Start        string   `json:"start,omitempty" yaml:"start,omitempty"`
	End          string   `json:"end,omitempty" yaml:"end,omitempty"`
	DatasetDir   string   `json:"dataset_dir,omitempty" yaml:"dataset_dir,omitempty"`
}

// LiveConfig contains live-trading loop parameters
type LiveConfig struct {
	PollInterval string `json:"poll_interval" yaml:"poll_interval"` // e.g., "60s", "5m"
}

// ParsePollInterval converts the poll interval string to time.Duration
func (lc LiveConfig) ParsePollInterval() (time.Duration, error) {
	if lc.PollInterval == "" {
		return time.Minute, nil
	}
	return time.ParseDuration(lc.PollInterval)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type           string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile     string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	ValuationsFile string `json:"valuations_file,omitempty" yaml:"valuations_file,omitempty"`
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.InitialBalance <= 0 {
		return fmt.Errorf("account.initial_balance must be positive")
	}
	if c.Strategy.Window <= 1 {
		return fmt.Errorf("strategy.window must be > 1")
	}
	if c.Strategy.BuyFactor <= 0 || c.Strategy.SellFactor <= 0 {
		return fmt.Errorf("strategy factors must be positive")
	}
	if c.Strategy.BuyFactor >= c.Strategy.SellFactor {
		return fmt.Errorf("strategy.buy_factor must be below strategy.sell_factor")
	}
	if c.Strategy.RiskFraction <= 0 || c.Strategy.RiskFraction > 1 {
		return fmt.Errorf("strategy.risk_fraction must be between 0 and 1")
	}
	if len(c.Data.Symbols) == 0 && c.Data.UniverseFile == "" {
		return fmt.Errorf("data.symbols or data.universe_file is required")
	}
	if c.Data.Interval == "" {
		return fmt.Errorf("data.interval is required")
	}
	if c.Data.LookbackDays < 0 {
		return fmt.Errorf("data.lookback_days must not be negative")
	}
	if c.Data.Start != "" {
		if _, err := time.Parse("2006-01-02", c.Data.Start); err != nil {
			return fmt.Errorf("data.start must be YYYY-MM-DD: %w", err)
		}
	}
	if c.Data.End != "" {
		if _, err := time.Parse("2006-01-02", c.Data.End); err != nil {
			return fmt.Errorf("data.end must be YYYY-MM-DD: %w", err)
		}
	}
	if _, err := c.Live.ParsePollInterval(); err != nil {
		return fmt.Errorf("live.poll_interval: %w", err)
	}
	switch c.Journal.Type {
	case "none", "":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.ValuationsFile == "" {
			return fmt.Errorf("journal trades_file and valuations_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			InitialBalance: 10000,
			StateFile:      "./ledger.json",
		},
		Strategy: StrategyConfig{
			Window:       signal.DefaultWindow,
			BuyFactor:    signal.DefaultBuyFactor,
			SellFactor:   signal.DefaultSellFactor,
			RiskFraction: signal.DefaultRiskFraction,
		},
		Data: DataConfig{
			Interval:     "1d",
			LookbackDays: 30,
		},
		Live: LiveConfig{
			PollInterval: "60s",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./journal.sqlite",
		},
	}
}

// Evaluator builds the signal evaluator from the strategy section.
func (c *Config) Evaluator() signal.Evaluator {
	return signal.Evaluator{
		Window:     c.Strategy.Window,
		BuyFactor:  c.Strategy.BuyFactor,
		SellFactor: c.Strategy.SellFactor,
	}
}

// Sizer builds the order sizer from the strategy section.
func (c *Config) Sizer() signal.Sizer {
	return signal.Sizer{RiskFraction: c.Strategy.RiskFraction}
}

// Range returns the historical date range, preferring explicit start/end
// and falling back to the lookback window ending now.
func (c *Config) Range(now time.Time) (start, end time.Time, err error) {
	if c.Data.Start != "" {
		start, err = time.Parse("2006-01-02", c.Data.Start)
		if err != nil {
			return
		}
		end = now
		if c.Data.End != "" {
			end, err = time.Parse("2006-01-02", c.Data.End)
			if err != nil {
				return
			}
		}
		return
	}

	days := c.Data.LookbackDays
	if days <= 0 {
		days = 30
	}
	return now.AddDate(0, 0, -days), now, nil
}
