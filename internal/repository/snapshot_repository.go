// Package repository provides data access for the dashboard's Redis cache.
package repository

import (
	"context"
	"time"

	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/internal/util"
	"alphagex/dashboard/pkg/redis"

	redislib "github.com/redis/go-redis/v9"
)

// SnapshotRepository caches the latest backend payload per bot so the
// dashboard keeps serving (visibly stale) data across backend outages.
// Absent keys surface as MISSING_DATA, never as zero values.
type SnapshotRepository struct {
	redis *redis.Client
}

func NewSnapshotRepository(redisClient *redis.Client) *SnapshotRepository {
	return &SnapshotRepository{
		redis: redisClient,
	}
}

type statusEnvelope struct {
	FetchedAt time.Time                `json:"fetched_at"`
	Data      *model.BotStatusSnapshot `json:"data"`
}

type summaryEnvelope struct {
	FetchedAt time.Time             `json:"fetched_at"`
	Data      *model.MetricsSummary `json:"data"`
}

type capitalEnvelope struct {
	FetchedAt time.Time            `json:"fetched_at"`
	Data      *model.CapitalConfig `json:"data"`
}

type reconciliationEnvelope struct {
	FetchedAt time.Time                   `json:"fetched_at"`
	Data      *model.ReconciliationResult `json:"data"`
}

// SaveBotStatus stores the latest raw status snapshot for a bot
func (r *SnapshotRepository) SaveBotStatus(ctx context.Context, snap *model.BotStatusSnapshot) error {
	env := statusEnvelope{FetchedAt: time.Now(), Data: snap}
	return r.redis.SetJSON(ctx, redis.BotStatusKey(snap.BotID), env, 0)
}

// GetBotStatus retrieves the latest raw status snapshot for a bot
func (r *SnapshotRepository) GetBotStatus(ctx context.Context, botID string) (*model.BotStatusSnapshot, time.Time, error) {
	var env statusEnvelope
	err := r.redis.GetJSON(ctx, redis.BotStatusKey(botID), &env)
	if err != nil {
		if err == redislib.Nil {
			return nil, time.Time{}, util.ErrMissingData("Bot status")
		}
		return nil, time.Time{}, err
	}
	return env.Data, env.FetchedAt, nil
}

// SaveSummary stores the latest metrics summary for a bot
func (r *SnapshotRepository) SaveSummary(ctx context.Context, summary *model.MetricsSummary) error {
	env := summaryEnvelope{FetchedAt: time.Now(), Data: summary}
	return r.redis.SetJSON(ctx, redis.MetricsSummaryKey(summary.BotID), env, 0)
}

// GetSummary retrieves the latest metrics summary for a bot
func (r *SnapshotRepository) GetSummary(ctx context.Context, botID string) (*model.MetricsSummary, time.Time, error) {
	var env summaryEnvelope
	err := r.redis.GetJSON(ctx, redis.MetricsSummaryKey(botID), &env)
	if err != nil {
		if err == redislib.Nil {
			return nil, time.Time{}, util.ErrMissingData("Metrics summary")
		}
		return nil, time.Time{}, err
	}
	return env.Data, env.FetchedAt, nil
}

// SaveCapitalConfig stores the latest capital configuration for a bot
func (r *SnapshotRepository) SaveCapitalConfig(ctx context.Context, cfg *model.CapitalConfig) error {
	env := capitalEnvelope{FetchedAt: time.Now(), Data: cfg}
	return r.redis.SetJSON(ctx, redis.CapitalConfigKey(cfg.BotID), env, 0)
}

// GetCapitalConfig retrieves the latest capital configuration for a bot
func (r *SnapshotRepository) GetCapitalConfig(ctx context.Context, botID string) (*model.CapitalConfig, time.Time, error) {
	var env capitalEnvelope
	err := r.redis.GetJSON(ctx, redis.CapitalConfigKey(botID), &env)
	if err != nil {
		if err == redislib.Nil {
			return nil, time.Time{}, util.ErrMissingData("Capital config")
		}
		return nil, time.Time{}, err
	}
	return env.Data, env.FetchedAt, nil
}

// SaveReconciliation stores the latest reconciliation result for a bot
func (r *SnapshotRepository) SaveReconciliation(ctx context.Context, result *model.ReconciliationResult) error {
	env := reconciliationEnvelope{FetchedAt: time.Now(), Data: result}
	return r.redis.SetJSON(ctx, redis.ReconciliationKey(result.BotID), env, 0)
}

// GetReconciliation retrieves the latest reconciliation result for a bot
func (r *SnapshotRepository) GetReconciliation(ctx context.Context, botID string) (*model.ReconciliationResult, time.Time, error) {
	var env reconciliationEnvelope
	err := r.redis.GetJSON(ctx, redis.ReconciliationKey(botID), &env)
	if err != nil {
		if err == redislib.Nil {
			return nil, time.Time{}, util.ErrMissingData("Reconciliation result")
		}
		return nil, time.Time{}, err
	}
	return env.Data, env.FetchedAt, nil
}

// ArmReset stores a short-lived confirmation token for a destructive reset
func (r *SnapshotRepository) ArmReset(ctx context.Context, botID, token string, ttl time.Duration) error {
	return r.redis.Set(ctx, redis.ResetTokenKey(botID), token, ttl)
}

// ConsumeResetToken atomically fetches and deletes the reset token for a bot.
// Returns the stored token, or MISSING_DATA if none is armed.
func (r *SnapshotRepository) ConsumeResetToken(ctx context.Context, botID string) (string, error) {
	token, err := r.redis.GetDel(ctx, redis.ResetTokenKey(botID))
	if err != nil {
		if err == redislib.Nil {
			return "", util.ErrMissingData("Reset confirmation")
		}
		return "", err
	}
	return token, nil
}
