package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Sensitivity:    5,
			DoubleWindow:   20,
			ShoulderWindow: 30,
			TriangleWindow: 40,
			LevelWindow:    30,
		},
		Data:    DataConfig{Provider: "stooq", CacheDays: 1},
		Trading: TradingConfig{DefaultAccount: "default", StartingCash: 100000},
		UI:      UIConfig{OutputFormat: "table"},
		Logging: LoggingConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"sensitivity floor", func(c *Config) { c.Scan.Sensitivity = 1 }, false},
		{"sensitivity ceiling", func(c *Config) { c.Scan.Sensitivity = 10 }, false},
		{"sensitivity zero", func(c *Config) { c.Scan.Sensitivity = 0 }, true},
		{"sensitivity above range", func(c *Config) { c.Scan.Sensitivity = 11 }, true},
		{"zero window", func(c *Config) { c.Scan.TriangleWindow = 0 }, true},
		{"negative window", func(c *Config) { c.Scan.DoubleWindow = -5 }, true},
		{"unknown provider", func(c *Config) { c.Data.Provider = "bloomberg" }, true},
		{"csv provider with path", func(c *Config) {
			c.Data.Provider = "csv"
			c.Data.CSVPath = "/tmp/candles.csv"
		}, false},
		{"csv provider without path", func(c *Config) { c.Data.Provider = "csv" }, true},
		{"negative cash", func(c *Config) { c.Trading.StartingCash = -1 }, true},
		{"json output", func(c *Config) { c.UI.OutputFormat = "json" }, false},
		{"unknown output format", func(c *Config) { c.UI.OutputFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCreatesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scan.Sensitivity != 5 {
		t.Errorf("default sensitivity = %d, want 5", cfg.Scan.Sensitivity)
	}
	if cfg.Data.Provider != "stooq" {
		t.Errorf("default provider = %s, want stooq", cfg.Data.Provider)
	}
	if cfg.Data.DatabasePath == "" {
		t.Errorf("database path not defaulted")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template config not written: %v", err)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[scan]
sensitivity = 8
double_window = 10

[data]
provider = "csv"
csv_path = "/tmp/candles.csv"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Scan.Sensitivity != 8 {
		t.Errorf("sensitivity = %d, want 8", cfg.Scan.Sensitivity)
	}
	if cfg.Scan.DoubleWindow != 10 {
		t.Errorf("double_window = %d, want 10", cfg.Scan.DoubleWindow)
	}
	// Unset keys keep their defaults.
	if cfg.Scan.ShoulderWindow != 30 {
		t.Errorf("shoulder_window = %d, want default 30", cfg.Scan.ShoulderWindow)
	}
	if cfg.Data.Provider != "csv" {
		t.Errorf("provider = %s, want csv", cfg.Data.Provider)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[scan]
sensitivity = 42
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Errorf("Load() accepted out-of-range sensitivity")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHARTSCAN_SENSITIVITY", "9")
	t.Setenv("CHARTSCAN_DB", "/tmp/custom.db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Scan.Sensitivity != 9 {
		t.Errorf("sensitivity = %d, want env override 9", cfg.Scan.Sensitivity)
	}
	if cfg.Data.DatabasePath != "/tmp/custom.db" {
		t.Errorf("database path = %s, want env override", cfg.Data.DatabasePath)
	}
}
