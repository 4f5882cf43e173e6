package backtest

import "github.com/shopspring/decimal"

// Display arithmetic only. Every authoritative number comes from the engine;
// these helpers derive presentation values such as the headline return
// percentage and gain/loss coloring.

// ReturnPct computes the percentage return of equity over the initial
// capital, rounded to two decimals. Returns 0 when initial is 0.
func ReturnPct(totalEquity, initial float64) float64 {
	if initial == 0 {
		return 0
	}
	equity := decimal.NewFromFloat(totalEquity)
	base := decimal.NewFromFloat(initial)

	pct := equity.Sub(base).Div(base).Mul(decimal.NewFromInt(100))
	out, _ := pct.Round(2).Float64()
	return out
}

// Gain reports whether a signed amount should render as a gain. Zero counts
// as a gain, matching the engine dashboard's >= 0 coloring.
func Gain(amount float64) bool {
	return decimal.NewFromFloat(amount).Sign() >= 0
}
