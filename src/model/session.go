package model

import "time"

type TradingMode string

const (
	ModePaper TradingMode = "PAPER"
	ModeLive  TradingMode = "LIVE"
)

type SessionStatus string

const (
	SessionRunning SessionStatus = "RUNNING"
	SessionStopped SessionStatus = "STOPPED"
	SessionError   SessionStatus = "ERROR"
)

// Session is an engine-managed trading instance with its own capital,
// watchlist and strategy bindings. The engine owns every field; the console
// only displays what the last fetch returned.
type Session struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Mode           TradingMode   `json:"mode"`
	Status         SessionStatus `json:"status"`
	InitialBalance float64       `json:"initial_balance,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// CreateSessionRequest is the engine's session-create payload. Either the
// buy/sell strategy pair or the Strategies list is set, not both.
type CreateSessionRequest struct {
	Name           string      `json:"name"`
	Strategies     []string    `json:"strategies,omitempty"`
	BuyStrategy    string      `json:"buy_strategy,omitempty"`
	SellStrategy   string      `json:"sell_strategy,omitempty"`
	Tickers        []string    `json:"tickers"`
	InitialBalance float64     `json:"initial_balance"`
	Mode           TradingMode `json:"mode"`
}
