package model

import "time"

// Bot identifiers. The fleet is a fixed, closed set; an identifier outside
// this list is a configuration error, not a runtime data issue.
const (
	BotARES   = "ARES"
	BotATHENA = "ATHENA"
	BotAPOLLO = "APOLLO"
	BotHERMES = "HERMES"
	BotTITAN  = "TITAN"
)

// KnownBots lists every bot the dashboard monitors, in display order.
var KnownBots = []string{BotARES, BotATHENA, BotAPOLLO, BotHERMES, BotTITAN}

// IsKnownBot reports whether botID belongs to the monitored fleet.
func IsKnownBot(botID string) bool {
	for _, id := range KnownBots {
		if id == botID {
			return true
		}
	}
	return false
}

// BotStatusSnapshot is the raw per-bot status reported by the backend.
// It carries the flags the dashboard derives presentation state from.
type BotStatusSnapshot struct {
	BotID               string     `json:"bot_id"`
	IsActive            bool       `json:"is_active"`
	IsPaused            bool       `json:"is_paused"`
	HasError            bool       `json:"has_error"`
	ErrorMessage        *string    `json:"error_message,omitempty"`
	LastScanAt          *time.Time `json:"last_scan_at,omitempty"`
	ScanIntervalMinutes int        `json:"scan_interval_minutes"`
	OpenPositions       int        `json:"open_positions"`
	TodayPnl            float64    `json:"today_pnl"`
	TodayTrades         int        `json:"today_trades"`
}

// BotOperationalState is the derived, presentation-ready state for one bot.
// It is recreated on every tick from the latest snapshot and never persisted;
// each recomputation supersedes the previous one entirely.
type BotOperationalState struct {
	BotID               string     `json:"bot_id"`
	State               string     `json:"state"`
	Severity            string     `json:"severity"`
	IsActive            bool       `json:"is_active"`
	IsPaused            bool       `json:"is_paused"`
	HasError            bool       `json:"has_error"`
	ErrorMessage        *string    `json:"error_message,omitempty"`
	LastScanAt          *time.Time `json:"last_scan_at,omitempty"`
	ScanIntervalMinutes int        `json:"scan_interval_minutes"`
	CountdownLabel      string     `json:"countdown_label,omitempty"`
	SecondsRemaining    int        `json:"seconds_remaining"`
	OpenPositions       int        `json:"open_positions"`
	TodayPnl            float64    `json:"today_pnl"`
	TodayPnlDisplay     string     `json:"today_pnl_display"`
	TodayTrades         int        `json:"today_trades"`
	ComputedAt          time.Time  `json:"computed_at"`
}
