package model

import "time"

// WebSocket message types pushed to dashboard clients
const (
	MessageTypeBotState       = "bot_state"
	MessageTypeSummaryUpdate  = "summary_update"
	MessageTypeCapitalUpdate  = "capital_update"
	MessageTypeReconciliation = "reconciliation_update"
)

// WSMessage is the envelope for all dashboard push messages. Origin
// identifies the publishing instance so a replica never re-broadcasts its
// own envelopes off the pub/sub channel.
type WSMessage struct {
	Type      string      `json:"type"`
	BotID     string      `json:"bot_id,omitempty"`
	Data      interface{} `json:"data"`
	Origin    string      `json:"origin,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
