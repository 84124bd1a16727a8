package model

import "time"

// MetricsSummary is computed server-side and consumed read-only.
// WinRate is already on a 0-100 scale; the dashboard must never re-scale it.
// Invariant: WinningTrades + LosingTrades <= TotalTrades.
type MetricsSummary struct {
	BotID              string    `json:"bot_id"`
	CurrentEquity      float64   `json:"current_equity"`
	StartingCapital    float64   `json:"starting_capital"`
	TotalPnl           float64   `json:"total_pnl"`
	TotalRealizedPnl   float64   `json:"total_realized_pnl"`
	TotalUnrealizedPnl float64   `json:"total_unrealized_pnl"`
	TotalReturnPct     float64   `json:"total_return_pct"`
	WinRate            float64   `json:"win_rate"`
	WinningTrades      int       `json:"winning_trades"`
	LosingTrades       int       `json:"losing_trades"`
	TotalTrades        int       `json:"total_trades"`
	TodayPnl           float64   `json:"today_pnl"`
	TodayRealizedPnl   float64   `json:"today_realized_pnl"`
	OpenPositions      int       `json:"open_positions"`
	MaxDrawdownPct     float64   `json:"max_drawdown_pct"`
	HighWaterMark      float64   `json:"high_water_mark"`
	CalculatedAt       time.Time `json:"calculated_at"`
}
