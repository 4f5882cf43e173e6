package model

// StrategyBinding is a strategy attached to a session. Toggling flips
// IsActive without deleting the binding.
type StrategyBinding struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// StrategyInfo is one entry of the engine's strategy catalog.
type StrategyInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// StockMatch is one symbol-search suggestion.
type StockMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Type     string `json:"type,omitempty"`
}
