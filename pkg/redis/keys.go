package redis

import "fmt"

// Redis key patterns for the dashboard cache
// Following the pattern: entity:id or entity:id:attribute

// Snapshot cache keys (latest backend payload per bot)

func BotStatusKey(botID string) string {
	return fmt.Sprintf("bot_status:%s", botID)
}

func MetricsSummaryKey(botID string) string {
	return fmt.Sprintf("metrics_summary:%s", botID)
}

func CapitalConfigKey(botID string) string {
	return fmt.Sprintf("capital_config:%s", botID)
}

func ReconciliationKey(botID string) string {
	return fmt.Sprintf("reconciliation:%s", botID)
}

// Reset confirmation keys (short-lived arm tokens)

func ResetTokenKey(botID string) string {
	return fmt.Sprintf("reset_token:%s", botID)
}

// Rate limiting keys
func RateLimitKey(identifier, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, identifier)
}

// Pub/Sub channels
const (
	// Bot update channels
	ChannelBotStateUpdate = "channel:bot_state_update"
)
