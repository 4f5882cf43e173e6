package backtest

import (
	"sort"

	"tradeconsole/src/model"
)

// ChartPoint is one chartable row for a single ticker: the closing price plus
// an optional buy or sell marker when a trade landed on that date.
type ChartPoint struct {
	Date  string   `json:"date"`
	Close float64  `json:"close"`
	Buy   *float64 `json:"buy,omitempty"`
	Sell  *float64 `json:"sell,omitempty"`
}

// ProjectChart joins a ticker's daily price series against the flat trade
// list. The price series drives the join: its server-given order is kept and
// trades dated outside it are dropped. When several trades share a date the
// first by list order wins.
func ProjectChart(result *model.BacktestResult, ticker string) []ChartPoint {
	if result == nil {
		return nil
	}
	prices, ok := result.DailyPrices[ticker]
	if !ok {
		return nil
	}

	tradeByDate := make(map[string]model.BacktestTrade, len(result.Trades))
	for _, trade := range result.Trades {
		if trade.Ticker != ticker {
			continue
		}
		if _, seen := tradeByDate[trade.Date]; seen {
			continue
		}
		tradeByDate[trade.Date] = trade
	}

	points := make([]ChartPoint, 0, len(prices))
	for _, p := range prices {
		point := ChartPoint{Date: p.Date, Close: p.Close}
		if trade, ok := tradeByDate[p.Date]; ok {
			price := trade.Price
			switch trade.Action {
			case model.ActionBuy:
				point.Buy = &price
			case model.ActionSell:
				point.Sell = &price
			}
		}
		points = append(points, point)
	}
	return points
}

// Tickers lists the result's tickers in lexicographic order. Go maps are
// unordered, so this is the deterministic counterpart of "first key in the
// price map" used for the default chart selection.
func Tickers(result *model.BacktestResult) []string {
	if result == nil {
		return nil
	}
	tickers := make([]string, 0, len(result.DailyPrices))
	for t := range result.DailyPrices {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// DefaultTicker picks the chart's initial ticker, or "" when the result has
// no price series at all.
func DefaultTicker(result *model.BacktestResult) string {
	tickers := Tickers(result)
	if len(tickers) == 0 {
		return ""
	}
	return tickers[0]
}

// PerformanceRow is one line of the per-instrument breakdown table, engine
// numbers passed through verbatim.
type PerformanceRow struct {
	Ticker         string  `json:"ticker"`
	PnL            float64 `json:"pnl"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Trades         int     `json:"trades"`
}

// PerformanceRows flattens the per-stock map into ticker-ordered rows.
func PerformanceRows(result *model.BacktestResult) []PerformanceRow {
	if result == nil {
		return nil
	}
	tickers := make([]string, 0, len(result.PerStockPerformance))
	for t := range result.PerStockPerformance {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	rows := make([]PerformanceRow, 0, len(tickers))
	for _, t := range tickers {
		stats := result.PerStockPerformance[t]
		rows = append(rows, PerformanceRow{
			Ticker:         t,
			PnL:            stats.PnL,
			MaxDrawdownPct: stats.MaxDrawdownPct,
			Trades:         stats.Trades,
		})
	}
	return rows
}
