package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chartscan/internal/analysis"
	"chartscan/internal/analysis/patterns"
	apperrors "chartscan/internal/errors"
	"chartscan/internal/logging"
	"chartscan/internal/models"
	"chartscan/internal/store"
)

const dailyTimeframe = "1day"

// addScanCommands adds pattern detection commands.
func addScanCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newLevelsCmd(app))
	rootCmd.AddCommand(newDetectionsCmd(app))
}

func newScanCmd(app *App) *cobra.Command {
	var (
		sensitivity int
		days        int
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "scan <symbol>",
		Short: "Scan a symbol for chart patterns",
		Long: `Scan runs every pattern detector over the symbol's daily candles:
double bottom, double top, head and shoulders, inverse head and shoulders,
triangles, and support/resistance levels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			if sensitivity < 1 || sensitivity > 10 {
				return apperrors.NewValidationError("sensitivity", sensitivity, "must be between 1 and 10")
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			candles, err := app.loadCandles(ctx, symbol, days)
			if err != nil {
				return err
			}

			start := time.Now()
			scanner := app.newScanner(sensitivity)
			report := scanner.Scan(candles)
			logging.LogScan(app.Logger, symbol, sensitivity, len(candles), report.Total(), time.Since(start))

			if save && app.Store != nil {
				if err := app.saveReport(ctx, symbol, sensitivity, report); err != nil {
					output.Warning("Failed to save detections: %v", err)
				}
			}

			if output.IsJSON() {
				return output.JSON(report)
			}
			renderReport(output, symbol, candles, report, app.Config.UI.DateFormat)
			return nil
		},
	}

	cmd.Flags().IntVarP(&sensitivity, "sensitivity", "s", 0, "detection sensitivity 1-10 (default from config)")
	cmd.Flags().IntVar(&days, "days", 365, "number of days of history to scan")
	cmd.Flags().BoolVar(&save, "save", true, "persist detections to the local database")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if sensitivity == 0 {
			sensitivity = app.Config.Scan.Sensitivity
		}
	}

	return cmd
}

func newLevelsCmd(app *App) *cobra.Command {
	var (
		sensitivity int
		days        int
	)

	cmd := &cobra.Command{
		Use:   "levels <symbol>",
		Short: "Find support and resistance levels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			output := NewOutput(cmd)

			if sensitivity < 1 || sensitivity > 10 {
				return apperrors.NewValidationError("sensitivity", sensitivity, "must be between 1 and 10")
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			candles, err := app.loadCandles(ctx, symbol, days)
			if err != nil {
				return err
			}

			supports, resistances := patterns.FindSupportResistance(candles, sensitivity, app.Config.Scan.LevelWindow)

			if output.IsJSON() {
				return output.JSON(map[string][]analysis.Level{
					"supports":    supports,
					"resistances": resistances,
				})
			}

			output.Bold("%s: support and resistance (sensitivity %d)", symbol, sensitivity)
			table := NewTable(output, "TYPE", "DATE", "PRICE", "TOUCHES")
			for _, lvl := range supports {
				table.AddRow(
					output.Green("support"),
					candles[lvl.Index].Timestamp.Format(app.Config.UI.DateFormat),
					fmt.Sprintf("%.2f", lvl.Price),
					fmt.Sprintf("%d", lvl.Touches),
				)
			}
			for _, lvl := range resistances {
				table.AddRow(
					output.Red("resistance"),
					candles[lvl.Index].Timestamp.Format(app.Config.UI.DateFormat),
					fmt.Sprintf("%.2f", lvl.Price),
					fmt.Sprintf("%d", lvl.Touches),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&sensitivity, "sensitivity", "s", 0, "detection sensitivity 1-10 (default from config)")
	cmd.Flags().IntVar(&days, "days", 365, "number of days of history to scan")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if sensitivity == 0 {
			sensitivity = app.Config.Scan.Sensitivity
		}
	}

	return cmd
}

func newDetectionsCmd(app *App) *cobra.Command {
	var (
		kind  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "detections [symbol]",
		Short: "List stored pattern detections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			filter := storeDetectionFilter(args, kind, limit)
			detections, err := app.Store.GetDetections(ctx, filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(detections)
			}

			if len(detections) == 0 {
				output.Dim("No stored detections.")
				return nil
			}

			table := NewTable(output, "WHEN", "SYMBOL", "PATTERN", "SENS", "INDICES")
			for _, d := range detections {
				table.AddRow(
					d.DetectedAt.Format(app.Config.UI.DateFormat),
					d.Symbol,
					d.Kind,
					fmt.Sprintf("%d", d.Sensitivity),
					formatIndices(d.Indices),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by pattern kind")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show")

	return cmd
}

// newScanner builds a scanner from config windows with the given sensitivity.
func (app *App) newScanner(sensitivity int) *patterns.Scanner {
	return &patterns.Scanner{
		Sensitivity:    sensitivity,
		DoubleWindow:   app.Config.Scan.DoubleWindow,
		ShoulderWindow: app.Config.Scan.ShoulderWindow,
		TriangleWindow: app.Config.Scan.TriangleWindow,
		LevelWindow:    app.Config.Scan.LevelWindow,
	}
}

// loadCandles returns the symbol's daily candles for the trailing window,
// fetching from the provider when the local cache is stale.
func (app *App) loadCandles(ctx context.Context, symbol string, days int) ([]models.Candle, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	if app.Store == nil {
		return app.Fetcher.Fetch(ctx, symbol, from, to)
	}

	freshness, err := app.Store.GetCandlesFreshness(ctx, symbol, dailyTimeframe)
	if err != nil {
		return nil, err
	}

	maxAge := time.Duration(app.Config.Data.CacheDays) * 24 * time.Hour
	if freshness.IsZero() || time.Since(freshness) > maxAge {
		candles, err := app.Fetcher.Fetch(ctx, symbol, from, to)
		if err != nil {
			if freshness.IsZero() {
				return nil, err
			}
			app.Logger.Warn().Err(err).Str("symbol", symbol).Msg("Fetch failed, using cached candles")
		} else {
			if err := app.Store.SaveCandles(ctx, symbol, dailyTimeframe, candles); err != nil {
				return nil, err
			}
			app.Store.SetLastSync("candles", time.Now())
		}
	}

	candles, err := app.Store.GetCandles(ctx, symbol, dailyTimeframe, from, to)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, apperrors.NewDataError("candles", symbol, "no candles in range", apperrors.ErrDataNotFound)
	}
	if err := models.ValidateSeries(candles); err != nil {
		return nil, apperrors.NewDataError("candles", symbol, "invalid series", err)
	}
	return candles, nil
}

// saveReport persists every occurrence in the report.
func (app *App) saveReport(ctx context.Context, symbol string, sensitivity int, report *analysis.Report) error {
	occurrences := report.Occurrences()
	if len(occurrences) == 0 {
		return nil
	}

	now := time.Now()
	detections := make([]models.Detection, 0, len(occurrences))
	for _, occ := range occurrences {
		detail, _ := json.Marshal(occ)
		detections = append(detections, models.Detection{
			Symbol:      symbol,
			Kind:        string(occ.Kind()),
			Sensitivity: sensitivity,
			Indices:     occ.Indices(),
			Detail:      string(detail),
			DetectedAt:  now,
		})
	}
	return app.Store.SaveDetections(ctx, detections)
}

func renderReport(output *Output, symbol string, candles []models.Candle, report *analysis.Report, dateFormat string) {
	output.Bold("%s: %d candles scanned, %d matches", symbol, len(candles), report.Total())
	output.Println()

	if report.Total() == 0 {
		output.Dim("No patterns found.")
		return
	}

	if len(report.DoubleBottoms) > 0 || len(report.DoubleTops) > 0 {
		table := NewTable(output, "PATTERN", "FIRST", "SECOND")
		for _, p := range report.DoubleBottoms {
			table.AddRow(output.Green("double bottom"), candleDate(candles, p.First, dateFormat), candleDate(candles, p.Second, dateFormat))
		}
		for _, p := range report.DoubleTops {
			table.AddRow(output.Red("double top"), candleDate(candles, p.First, dateFormat), candleDate(candles, p.Second, dateFormat))
		}
		table.Render()
		output.Println()
	}

	if len(report.HeadAndShoulders) > 0 || len(report.InverseHeadAndShoulders) > 0 {
		table := NewTable(output, "PATTERN", "LEFT", "HEAD", "RIGHT")
		for _, p := range report.HeadAndShoulders {
			table.AddRow(output.Red("head and shoulders"),
				candleDate(candles, p.LeftShoulder, dateFormat), candleDate(candles, p.Head, dateFormat), candleDate(candles, p.RightShoulder, dateFormat))
		}
		for _, p := range report.InverseHeadAndShoulders {
			table.AddRow(output.Green("inverse head and shoulders"),
				candleDate(candles, p.LeftShoulder, dateFormat), candleDate(candles, p.Head, dateFormat), candleDate(candles, p.RightShoulder, dateFormat))
		}
		table.Render()
		output.Println()
	}

	if len(report.Triangles) > 0 {
		table := NewTable(output, "TRIANGLE", "START", "END", "APEX", "BREAKOUT")
		for _, tri := range report.Triangles {
			label := output.Yellow("no")
			if tri.Breakout {
				label = output.Green("yes")
			}
			table.AddRow(
				string(tri.Type),
				candleDate(candles, tri.Points[0], dateFormat),
				candleDate(candles, tri.Points[4], dateFormat),
				fmt.Sprintf("bar %d @ %.2f", tri.ConvergeX, tri.ConvergeY),
				label,
			)
		}
		table.Render()
		output.Println()
	}

	if len(report.Supports) > 0 || len(report.Resistances) > 0 {
		table := NewTable(output, "LEVEL", "DATE", "PRICE", "TOUCHES")
		for _, lvl := range report.Supports {
			table.AddRow(output.Green("support"), candleDate(candles, lvl.Index, dateFormat),
				fmt.Sprintf("%.2f", lvl.Price), fmt.Sprintf("%d", lvl.Touches))
		}
		for _, lvl := range report.Resistances {
			table.AddRow(output.Red("resistance"), candleDate(candles, lvl.Index, dateFormat),
				fmt.Sprintf("%.2f", lvl.Price), fmt.Sprintf("%d", lvl.Touches))
		}
		table.Render()
	}
}

func candleDate(candles []models.Candle, idx int, format string) string {
	if idx < 0 || idx >= len(candles) {
		return "?"
	}
	return candles[idx].Timestamp.Format(format)
}

func storeDetectionFilter(args []string, kind string, limit int) (filter store.DetectionFilter) {
	if len(args) == 1 {
		filter.Symbol = args[0]
	}
	filter.Kind = kind
	filter.Limit = limit
	return filter
}
