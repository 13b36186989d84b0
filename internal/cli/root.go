// Package cli provides the command-line interface for the scanner.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"chartscan/internal/config"
	"chartscan/internal/fetch"
	"chartscan/internal/logging"
	"chartscan/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Fetcher fetch.Fetcher
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Data.DatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Data.DatabasePath).Msg("SQLite store initialized")
	}

	app.Fetcher = newFetcher(cfg, logger)

	rootCmd := &cobra.Command{
		Use:   "chartscan",
		Short: "Chartscan - chart pattern detection CLI",
		Long: `Chartscan detects classic chart patterns in OHLC candle series:
double bottoms and tops, head and shoulders, triangles, and support and
resistance levels. Detection is deterministic and tunable through a single
sensitivity dial from 1 (strict) to 10 (loose).

Candles are fetched from Stooq or loaded from CSV files and cached in a
local SQLite database, which also backs watchlists and a paper trading
ledger for acting on detections.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/chartscan)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addScanCommands(rootCmd, app)
	addDataCommands(rootCmd, app)
	addTradingCommands(rootCmd, app)

	return rootCmd
}

// newFetcher builds the candle source selected by data.provider.
func newFetcher(cfg *config.Config, logger zerolog.Logger) fetch.Fetcher {
	if cfg.Data.Provider == "csv" {
		return fetch.NewCSVLoader(cfg.Data.CSVPath)
	}
	return fetch.NewStooqClient(logger)
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Chartscan v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Scan Configuration")
	output.Printf("  Sensitivity:      %d\n", cfg.Scan.Sensitivity)
	output.Printf("  Double Window:    %d\n", cfg.Scan.DoubleWindow)
	output.Printf("  Shoulder Window:  %d\n", cfg.Scan.ShoulderWindow)
	output.Printf("  Triangle Window:  %d\n", cfg.Scan.TriangleWindow)
	output.Printf("  Level Window:     %d\n", cfg.Scan.LevelWindow)
	output.Println()

	output.Bold("Data Configuration")
	output.Printf("  Provider:         %s\n", cfg.Data.Provider)
	output.Printf("  Database:         %s\n", cfg.Data.DatabasePath)
	output.Printf("  Cache Days:       %d\n", cfg.Data.CacheDays)
	output.Println()

	output.Bold("Trading Configuration")
	output.Printf("  Default Account:  %s\n", cfg.Trading.DefaultAccount)
	output.Printf("  Starting Cash:    %.2f\n", cfg.Trading.StartingCash)
	output.Println()

	output.Bold("UI Configuration")
	output.Printf("  Color Enabled:    %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Date Format:      %s\n", cfg.UI.DateFormat)
	output.Printf("  Output Format:    %s\n", cfg.UI.OutputFormat)

	return nil
}

// commandContext returns a context with the app logger attached and a
// generous timeout for store and network work.
func (app *App) commandContext() (context.Context, context.CancelFunc) {
	ctx := logging.WithLogger(context.Background(), app.Logger)
	return context.WithTimeout(ctx, 2*time.Minute)
}
