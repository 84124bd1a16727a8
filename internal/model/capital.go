package model

// Capital source constants as reported by the backend.
// "default" means no explicit configuration exists and derived returns are
// provisional; it must never be treated as equal-confidence with "database".
const (
	CapitalSourceDatabase = "database"
	CapitalSourceTradier  = "tradier"
	CapitalSourceDefault  = "default"
)

// CapitalConfig is the backend-owned capital configuration for one bot.
// Read-only from the dashboard's perspective except for the explicit
// capital-update request it issues.
type CapitalConfig struct {
	BotID            string   `json:"bot_id"`
	StartingCapital  float64  `json:"starting_capital"`
	CapitalSource    string   `json:"capital_source"`
	TradierConnected bool     `json:"tradier_connected"`
	TradierBalance   *float64 `json:"tradier_balance,omitempty"`
}

// CapitalUpdateRequest is the operator's request to set a bot's starting
// capital. The amount is validated locally before any backend call; a
// missing amount decodes to zero and is rejected there with a specific
// message rather than a generic binding error.
type CapitalUpdateRequest struct {
	Amount float64 `json:"amount"`
}
