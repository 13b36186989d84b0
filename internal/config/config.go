// Package config provides configuration management for the scanner.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Data    DataConfig    `mapstructure:"data"`
	Trading TradingConfig `mapstructure:"trading"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScanConfig holds pattern detection configuration.
type ScanConfig struct {
	Sensitivity    int `mapstructure:"sensitivity"`
	DoubleWindow   int `mapstructure:"double_window"`
	ShoulderWindow int `mapstructure:"shoulder_window"`
	TriangleWindow int `mapstructure:"triangle_window"`
	LevelWindow    int `mapstructure:"level_window"`
}

// DataConfig holds market data configuration.
type DataConfig struct {
	Provider     string `mapstructure:"provider"` // "stooq", "csv"
	CSVPath      string `mapstructure:"csv_path"` // candle file for the csv provider
	DatabasePath string `mapstructure:"database_path"`
	CacheDays    int    `mapstructure:"cache_days"`
}

// TradingConfig holds paper trading configuration.
type TradingConfig struct {
	DefaultAccount string  `mapstructure:"default_account"`
	StartingCash   float64 `mapstructure:"starting_cash"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	OutputFormat string `mapstructure:"output_format"` // "table", "json"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/chartscan"
	}
	return filepath.Join(home, ".config", "chartscan")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "chartscan.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Data.DatabasePath == "" {
		cfg.Data.DatabasePath = DefaultDatabasePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("scan.sensitivity", 5)
	v.SetDefault("scan.double_window", 20)
	v.SetDefault("scan.shoulder_window", 30)
	v.SetDefault("scan.triangle_window", 40)
	v.SetDefault("scan.level_window", 30)
	v.SetDefault("data.provider", "stooq")
	v.SetDefault("data.cache_days", 1)
	v.SetDefault("trading.default_account", "default")
	v.SetDefault("trading.starting_cash", 100000.0)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.output_format", "table")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a template the user can edit, then carry on
			// with defaults.
			if werr := createTemplateConfig(configDir, name); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHARTSCAN_SENSITIVITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Sensitivity = n
		}
	}
	if v := os.Getenv("CHARTSCAN_DB"); v != "" {
		cfg.Data.DatabasePath = v
	}
	if v := os.Getenv("CHARTSCAN_PROVIDER"); v != "" {
		cfg.Data.Provider = v
	}
	if v := os.Getenv("CHARTSCAN_CSV_PATH"); v != "" {
		cfg.Data.CSVPath = v
	}
	if v := os.Getenv("CHARTSCAN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scan.Sensitivity < 1 || c.Scan.Sensitivity > 10 {
		return fmt.Errorf("sensitivity must be between 1 and 10, got %d", c.Scan.Sensitivity)
	}
	for name, w := range map[string]int{
		"double_window":   c.Scan.DoubleWindow,
		"shoulder_window": c.Scan.ShoulderWindow,
		"triangle_window": c.Scan.TriangleWindow,
		"level_window":    c.Scan.LevelWindow,
	} {
		if w < 1 {
			return fmt.Errorf("%s must be positive, got %d", name, w)
		}
	}
	if c.Data.Provider != "stooq" && c.Data.Provider != "csv" {
		return fmt.Errorf("invalid provider: %s (must be 'stooq' or 'csv')", c.Data.Provider)
	}
	if c.Data.Provider == "csv" && c.Data.CSVPath == "" {
		return fmt.Errorf("csv provider requires csv_path")
	}
	if c.Trading.StartingCash < 0 {
		return fmt.Errorf("starting_cash must be non-negative")
	}
	if c.UI.OutputFormat != "table" && c.UI.OutputFormat != "json" {
		return fmt.Errorf("invalid output_format: %s (must be 'table' or 'json')", c.UI.OutputFormat)
	}
	return nil
}
