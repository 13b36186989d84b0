package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "chartscan/internal/errors"
	"chartscan/internal/fetch"
)

// addDataCommands adds market data and watchlist commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newFetchCmd(app))
	rootCmd.AddCommand(newWatchlistCmd(app))
}

func newFetchCmd(app *App) *cobra.Command {
	var (
		days    int
		csvFile string
	)

	cmd := &cobra.Command{
		Use:   "fetch <symbol>",
		Short: "Fetch and cache daily candles for a symbol",
		Long: `Fetch downloads daily candles from the configured provider (or reads a
local CSV file with --file) and stores them in the local database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			fetcher := app.Fetcher
			if csvFile != "" {
				fetcher = fetch.NewCSVLoader(csvFile)
			}

			to := time.Now()
			from := to.AddDate(0, 0, -days)
			candles, err := fetcher.Fetch(ctx, symbol, from, to)
			if err != nil {
				return err
			}

			if err := app.Store.SaveCandles(ctx, symbol, dailyTimeframe, candles); err != nil {
				return err
			}
			app.Store.SetLastSync("candles", time.Now())

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol": symbol,
					"bars":   len(candles),
					"from":   candles[0].Timestamp,
					"to":     candles[len(candles)-1].Timestamp,
				})
			}
			output.Success("Cached %d bars for %s (%s to %s)",
				len(candles), symbol,
				candles[0].Timestamp.Format(app.Config.UI.DateFormat),
				candles[len(candles)-1].Timestamp.Format(app.Config.UI.DateFormat))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 365, "number of days of history to fetch")
	cmd.Flags().StringVar(&csvFile, "file", "", "load candles from a local CSV file instead of the provider")

	return cmd
}

func newWatchlistCmd(app *App) *cobra.Command {
	var listName string

	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Manage watchlists",
	}
	cmd.PersistentFlags().StringVar(&listName, "list", "default", "watchlist name")

	cmd.AddCommand(&cobra.Command{
		Use:   "add <symbol>",
		Short: "Add a symbol to a watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}
			ctx, cancel := app.commandContext()
			defer cancel()

			if err := app.Store.AddToWatchlist(ctx, args[0], listName); err != nil {
				return err
			}
			output.Success("Added %s to %s", args[0], listName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <symbol>",
		Short: "Remove a symbol from a watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}
			ctx, cancel := app.commandContext()
			defer cancel()

			if err := app.Store.RemoveFromWatchlist(ctx, args[0], listName); err != nil {
				return err
			}
			output.Success("Removed %s from %s", args[0], listName)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show all watchlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}
			ctx, cancel := app.commandContext()
			defer cancel()

			lists, err := app.Store.GetAllWatchlists(ctx)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(lists)
			}
			if len(lists) == 0 {
				output.Dim("No watchlists.")
				return nil
			}
			for name, symbols := range lists {
				output.Bold("%s (%d)", name, len(symbols))
				for _, symbol := range symbols {
					output.Printf("  %s\n", symbol)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(newWatchlistScanCmd(app, &listName))

	return cmd
}

// newWatchlistScanCmd scans every symbol on a watchlist.
func newWatchlistScanCmd(app *App, listName *string) *cobra.Command {
	var sensitivity int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan every symbol on a watchlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}
			if sensitivity == 0 {
				sensitivity = app.Config.Scan.Sensitivity
			}
			if sensitivity < 1 || sensitivity > 10 {
				return apperrors.NewValidationError("sensitivity", sensitivity, "must be between 1 and 10")
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			symbols, err := app.Store.GetWatchlist(ctx, *listName)
			if err != nil {
				return err
			}
			if len(symbols) == 0 {
				output.Dim("Watchlist %s is empty.", *listName)
				return nil
			}

			scanner := app.newScanner(sensitivity)
			summary := make(map[string]int, len(symbols))
			for _, symbol := range symbols {
				candles, err := app.loadCandles(ctx, symbol, 365)
				if err != nil {
					output.Warning("%s: %v", symbol, err)
					continue
				}
				report := scanner.Scan(candles)
				summary[symbol] = report.Total()
				if err := app.saveReport(ctx, symbol, sensitivity, report); err != nil {
					output.Warning("%s: saving detections: %v", symbol, err)
				}
			}

			if output.IsJSON() {
				return output.JSON(summary)
			}
			table := NewTable(output, "SYMBOL", "MATCHES")
			for _, symbol := range symbols {
				if count, ok := summary[symbol]; ok {
					table.AddRow(symbol, fmt.Sprintf("%d", count))
				}
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&sensitivity, "sensitivity", "s", 0, "detection sensitivity 1-10 (default from config)")
	return cmd
}
