package model

import "time"

type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// Trade is one executed order as reported by the engine, most-recent-first.
type Trade struct {
	ID        int64       `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Ticker    string      `json:"ticker"`
	Action    TradeAction `json:"action"`
	Quantity  float64     `json:"quantity"`
	Price     float64     `json:"price"`
	Status    string      `json:"status,omitempty"`
	Strategy  string      `json:"strategy"`
	TotalCost float64     `json:"total_cost,omitempty"`
}
