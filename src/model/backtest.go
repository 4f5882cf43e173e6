package model

// BacktestRequest carries the parameters for a session-scoped backtest run.
// Strategies and Tickers are left nil so the engine resolves the session's
// own bindings and watchlist.
type BacktestRequest struct {
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Strategies     []string `json:"strategies"`
	Tickers        []string `json:"tickers"`
	InitialBalance float64  `json:"initial_balance"`
}

// PricePoint is one day of a ticker's daily price series. Dates are
// YYYY-MM-DD strings as the engine emits them.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type EquityPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BacktestTrade is one simulated fill from a backtest run.
type BacktestTrade struct {
	Date     string      `json:"date"`
	Ticker   string      `json:"ticker"`
	Action   TradeAction `json:"action"`
	Price    float64     `json:"price"`
	Quantity float64     `json:"quantity,omitempty"`
	Cost     float64     `json:"cost,omitempty"`
	Strategy string      `json:"strategy,omitempty"`
}

// StockPerformance is the engine's per-instrument summary. All numbers are
// authoritative server-side; the console never recomputes them.
type StockPerformance struct {
	PnL            float64 `json:"pnl"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Trades         int     `json:"trades"`
}

// BacktestResult is the engine's whole backtest response. Immutable once
// received; a re-run replaces it entirely.
type BacktestResult struct {
	InitialCapital      float64                     `json:"initial_capital"`
	FinalValue          float64                     `json:"final_value"`
	TotalReturnPct      float64                     `json:"total_return_pct"`
	MaxDrawdownPct      float64                     `json:"max_drawdown_pct"`
	TotalTrades         int                         `json:"total_trades"`
	EquityCurve         []EquityPoint               `json:"equity_curve"`
	Trades              []BacktestTrade             `json:"trades"`
	PerStockPerformance map[string]StockPerformance `json:"per_stock_performance"`
	DailyPrices         map[string][]PricePoint     `json:"daily_prices"`
}
