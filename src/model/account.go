package model

import "time"

// AccountSnapshot is the engine's view of a session's balances. It is an
// immutable value fetched fresh on every poll tick, never patched locally.
type AccountSnapshot struct {
	CashBalance float64    `json:"cash_balance"`
	TotalEquity float64    `json:"total_equity"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Holding is one row of a session's position book, keyed by ticker. A row
// with zero quantity is a watched ticker without an open position.
type Holding struct {
	Ticker       string  `json:"ticker"`
	Strategy     string  `json:"strategy"`
	Quantity     float64 `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	CurrentVal   float64 `json:"current_val"`
	UnrealizedPL float64 `json:"unrealized_pl"`
}
