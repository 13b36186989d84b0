package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Chartscan Configuration

[scan]
# Detection sensitivity dial: 1 (strict) to 10 (loose)
sensitivity = 5
# Sliding windows (in bars) per pattern family
double_window = 20
shoulder_window = 30
triangle_window = 40
level_window = 30

[data]
# Market data provider: "stooq" or "csv"
provider = "stooq"
# Candle CSV file, required when provider = "csv"
csv_path = ""
# SQLite database path (defaults to the config directory)
database_path = ""
# Re-fetch candles older than this many days
cache_days = 1

[trading]
# Paper trading ledger account
default_account = "default"
# Opening cash balance for new accounts
starting_cash = 100000.0

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Output format: "table" or "json"
output_format = "table"

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
