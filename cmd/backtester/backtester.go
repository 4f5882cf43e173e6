package backtester

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"tradeconsole/src/backtest"
	"tradeconsole/src/connectors"
	"tradeconsole/src/model"
	"tradeconsole/src/utils"
)

// Runner triggers a session-scoped backtest and prints the engine's summary.
type Runner struct {
	SessionID int64
	StartDate string
	EndDate   string
}

func (r *Runner) Start() error {
	config := GetConfig()

	if r.SessionID == 0 {
		return errors.New("session id is required")
	}
	if r.EndDate == "" {
		r.EndDate = utils.Day(time.Now())
	}
	if err := utils.ValidateRange(r.StartDate, r.EndDate); err != nil {
		return err
	}

	client := connectors.NewEngineClient(config.EngineURL)

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	// nil strategies and tickers: the engine resolves the session's own
	// bindings and watchlist
	result, err := client.RunBacktest(ctx, r.SessionID, model.BacktestRequest{
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		InitialBalance: config.InitialBalance,
	})
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	fmt.Printf("Total Return: %.2f%%  Max Drawdown: %.2f%%  Trades: %d\n",
		result.TotalReturnPct, result.MaxDrawdownPct, result.TotalTrades)

	rows := backtest.PerformanceRows(result)
	if len(rows) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Ticker", "PnL", "Max DD %", "Trades"})

	for _, row := range rows {
		pnl := fmt.Sprintf("%.2f", row.PnL)
		if backtest.Gain(row.PnL) {
			pnl = "+" + pnl
		}
		table.Append([]string{
			row.Ticker,
			pnl,
			fmt.Sprintf("%.2f", row.MaxDrawdownPct),
			fmt.Sprintf("%d", row.Trades),
		})
	}

	table.Render()
	return nil
}
