package backtest

// Test index:
//  1. TestProjectChartMarkers joins a price series against trades and sets buy/sell markers.
//  2. TestProjectChartDropsOutOfRangeTrades drops trades dated outside the price series.
//  3. TestProjectChartFirstTradeWins keeps the first trade when several share a date.
//  4. TestProjectChartMissingTicker returns nil for tickers without a price series.
//  5. TestTickersAndDefault orders tickers lexicographically and picks the first as default.
//  6. TestPerformanceRows flattens the per-stock map into ticker-ordered rows.
//  7. TestReturnPct checks the headline return percentage arithmetic.
//  8. TestGain checks gain/loss classification including the zero boundary.

import (
	"testing"

	"tradeconsole/src/model"
)

func TestProjectChartMarkers(t *testing.T) {
	result := &model.BacktestResult{
		DailyPrices: map[string][]model.PricePoint{
			"AAPL": {
				{Date: "2024-01-01", Close: 100},
				{Date: "2024-01-02", Close: 105},
			},
		},
		Trades: []model.BacktestTrade{
			{Date: "2024-01-01", Ticker: "AAPL", Action: model.ActionBuy, Price: 100},
		},
	}

	points := ProjectChart(result, "AAPL")
	if len(points) != 2 {
		t.Fatalf("expected 2 chart points, got %d", len(points))
	}

	first := points[0]
	if first.Date != "2024-01-01" || first.Close != 100 {
		t.Fatalf("unexpected first point: %+v", first)
	}
	if first.Buy == nil || *first.Buy != 100 {
		t.Fatalf("expected a buy marker at 100, got %+v", first.Buy)
	}
	if first.Sell != nil {
		t.Fatalf("expected no sell marker on the buy date")
	}

	second := points[1]
	if second.Buy != nil || second.Sell != nil {
		t.Fatalf("expected no markers on a trade-free date: %+v", second)
	}
}

func TestProjectChartDropsOutOfRangeTrades(t *testing.T) {
	result := &model.BacktestResult{
		DailyPrices: map[string][]model.PricePoint{
			"AAPL": {{Date: "2024-01-02", Close: 105}},
		},
		Trades: []model.BacktestTrade{
			{Date: "2024-01-01", Ticker: "AAPL", Action: model.ActionBuy, Price: 100},
		},
	}

	points := ProjectChart(result, "AAPL")
	if len(points) != 1 {
		t.Fatalf("expected 1 chart point, got %d", len(points))
	}
	if points[0].Buy != nil || points[0].Sell != nil {
		t.Fatalf("a trade outside the price series must not produce a marker: %+v", points[0])
	}
}

func TestProjectChartFirstTradeWins(t *testing.T) {
	result := &model.BacktestResult{
		DailyPrices: map[string][]model.PricePoint{
			"AAPL": {{Date: "2024-01-01", Close: 100}},
		},
		Trades: []model.BacktestTrade{
			{Date: "2024-01-01", Ticker: "AAPL", Action: model.ActionBuy, Price: 99},
			{Date: "2024-01-01", Ticker: "AAPL", Action: model.ActionSell, Price: 101},
		},
	}

	points := ProjectChart(result, "AAPL")
	if points[0].Buy == nil || *points[0].Buy != 99 {
		t.Fatalf("expected the first trade by list order to win, got %+v", points[0])
	}
	if points[0].Sell != nil {
		t.Fatalf("the later same-date trade must be ignored: %+v", points[0])
	}
}

func TestProjectChartMissingTicker(t *testing.T) {
	result := &model.BacktestResult{
		DailyPrices: map[string][]model.PricePoint{
			"AAPL": {{Date: "2024-01-01", Close: 100}},
		},
	}

	if points := ProjectChart(result, "MSFT"); points != nil {
		t.Fatalf("expected nil for an unknown ticker, got %+v", points)
	}
	if points := ProjectChart(nil, "AAPL"); points != nil {
		t.Fatalf("expected nil for a nil result, got %+v", points)
	}
}

func TestTickersAndDefault(t *testing.T) {
	result := &model.BacktestResult{
		DailyPrices: map[string][]model.PricePoint{
			"MSFT": {{Date: "2024-01-01", Close: 400}},
			"AAPL": {{Date: "2024-01-01", Close: 100}},
			"GOOG": {{Date: "2024-01-01", Close: 150}},
		},
	}

	tickers := Tickers(result)
	want := []string{"AAPL", "GOOG", "MSFT"}
	if len(tickers) != len(want) {
		t.Fatalf("expected %d tickers, got %v", len(want), tickers)
	}
	for i := range want {
		if tickers[i] != want[i] {
			t.Fatalf("expected tickers %v, got %v", want, tickers)
		}
	}

	if got := DefaultTicker(result); got != "AAPL" {
		t.Fatalf("expected default ticker AAPL, got %q", got)
	}
	if got := DefaultTicker(&model.BacktestResult{}); got != "" {
		t.Fatalf("expected empty default for an empty result, got %q", got)
	}
	if got := DefaultTicker(nil); got != "" {
		t.Fatalf("expected empty default for a nil result, got %q", got)
	}
}

func TestPerformanceRows(t *testing.T) {
	result := &model.BacktestResult{
		PerStockPerformance: map[string]model.StockPerformance{
			"MSFT": {PnL: -50, MaxDrawdownPct: 4, Trades: 2},
			"AAPL": {PnL: 120, MaxDrawdownPct: 1.5, Trades: 5},
		},
	}

	rows := PerformanceRows(result)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Ticker != "AAPL" || rows[1].Ticker != "MSFT" {
		t.Fatalf("expected ticker-ordered rows, got %+v", rows)
	}
	if rows[0].PnL != 120 || rows[0].Trades != 5 {
		t.Fatalf("engine numbers must pass through verbatim: %+v", rows[0])
	}
}

func TestReturnPct(t *testing.T) {
	cases := []struct {
		name    string
		equity  float64
		initial float64
		want    float64
	}{
		{name: "gain", equity: 11000, initial: 10000, want: 10},
		{name: "loss", equity: 9500, initial: 10000, want: -5},
		{name: "flat", equity: 10000, initial: 10000, want: 0},
		{name: "rounded", equity: 10001, initial: 30000, want: -66.66},
		{name: "zero initial", equity: 5000, initial: 0, want: 0},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReturnPct(tt.equity, tt.initial); got != tt.want {
				t.Fatalf("ReturnPct(%v, %v) = %v, want %v", tt.equity, tt.initial, got, tt.want)
			}
		})
	}
}

func TestGain(t *testing.T) {
	if !Gain(12.5) {
		t.Fatalf("positive amounts are gains")
	}
	if !Gain(0) {
		t.Fatalf("zero counts as a gain")
	}
	if Gain(-0.01) {
		t.Fatalf("negative amounts are losses")
	}
}
