package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "chartscan/internal/errors"
	"chartscan/internal/logging"
	"chartscan/internal/models"
	"chartscan/internal/store"
)

// addTradingCommands adds paper trading ledger commands.
func addTradingCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newPositionsCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newTradeCmd(app *App) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Record paper trades against the ledger",
	}
	cmd.PersistentFlags().StringVar(&account, "account", "", "ledger account (default from config)")

	makeRunE := func(side string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}

			symbol := args[0]
			var quantity int
			var price float64
			if _, err := fmt.Sscanf(args[1], "%d", &quantity); err != nil {
				return apperrors.NewValidationError("quantity", args[1], "must be an integer")
			}
			if _, err := fmt.Sscanf(args[2], "%f", &price); err != nil {
				return apperrors.NewValidationError("price", args[2], "must be a number")
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			if account == "" {
				account = app.Config.Trading.DefaultAccount
			}
			if _, err := app.Store.EnsureAccount(ctx, account, app.Config.Trading.StartingCash); err != nil {
				return err
			}

			trade := models.Trade{
				ID:        fmt.Sprintf("T%d", time.Now().UnixNano()),
				Timestamp: time.Now(),
				Account:   account,
				Symbol:    symbol,
				Side:      side,
				Quantity:  quantity,
				Price:     price,
			}
			if err := app.Store.RecordTrade(ctx, &trade); err != nil {
				return err
			}
			logging.LogTrade(app.Logger, account, symbol, side, quantity, price)

			acc, err := app.Store.GetAccount(ctx, account)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trade": trade,
					"cash":  acc.Cash,
				})
			}
			output.Success("%s %d %s @ %.2f (value %.2f)", side, quantity, symbol, price, trade.Value)
			output.Printf("Cash balance: %.2f\n", acc.Cash)
			return nil
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "buy <symbol> <quantity> <price>",
		Short: "Record a paper buy",
		Args:  cobra.ExactArgs(3),
		RunE:  makeRunE(models.SideBuy),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sell <symbol> <quantity> <price>",
		Short: "Record a paper sell",
		Args:  cobra.ExactArgs(3),
		RunE:  makeRunE(models.SideSell),
	})

	return cmd
}

func newPositionsCmd(app *App) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show open paper positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}
			if account == "" {
				account = app.Config.Trading.DefaultAccount
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			acc, err := app.Store.GetAccount(ctx, account)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrAccountNotFound) {
					output.Dim("Account %s has no activity yet.", account)
					return nil
				}
				return err
			}

			positions, err := app.Store.GetPositions(ctx, account)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"account":   acc,
					"positions": positions,
				})
			}

			output.Bold("Account %s", account)
			output.Printf("Cash: %.2f\n\n", acc.Cash)
			if len(positions) == 0 {
				output.Dim("No open positions.")
				return nil
			}
			table := NewTable(output, "SYMBOL", "QTY", "AVG PRICE", "COST")
			for _, p := range positions {
				table.AddRow(
					p.Symbol,
					fmt.Sprintf("%d", p.Quantity),
					fmt.Sprintf("%.2f", p.AvgPrice),
					fmt.Sprintf("%.2f", p.MarketValue(p.AvgPrice)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "ledger account (default from config)")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		account string
		symbol  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show paper trade history",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.ErrDatabaseError
			}
			if account == "" {
				account = app.Config.Trading.DefaultAccount
			}

			ctx, cancel := app.commandContext()
			defer cancel()

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{
				Account: account,
				Symbol:  symbol,
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Dim("No trades recorded.")
				return nil
			}

			table := NewTable(output, "WHEN", "SYMBOL", "SIDE", "QTY", "PRICE", "VALUE")
			for _, t := range trades {
				side := output.Green(t.Side)
				if t.Side == models.SideSell {
					side = output.Red(t.Side)
				}
				table.AddRow(
					t.Timestamp.Format("02-Jan-2006 15:04"),
					t.Symbol,
					side,
					fmt.Sprintf("%d", t.Quantity),
					fmt.Sprintf("%.2f", t.Price),
					fmt.Sprintf("%.2f", t.Value),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "ledger account (default from config)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show")
	return cmd
}
