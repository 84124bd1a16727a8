package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"alphagex/dashboard/internal/capital"
	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/internal/reconcile"
	"alphagex/dashboard/internal/status"
	"alphagex/dashboard/internal/util"
	"alphagex/dashboard/pkg/logger"
	"alphagex/dashboard/pkg/metricsapi"

	"github.com/google/uuid"
)

// BotOverview is one row of the fleet list.
type BotOverview struct {
	BotID string                     `json:"bot_id"`
	State *model.BotOperationalState `json:"state,omitempty"`
}

// SummaryDisplay carries the preformatted figures every widget renders,
// so precision and sign conventions stay uniform.
type SummaryDisplay struct {
	CurrentEquity   string `json:"current_equity"`
	StartingCapital string `json:"starting_capital"`
	TotalPnl        string `json:"total_pnl"`
	TotalReturnPct  string `json:"total_return_pct"`
	TodayPnl        string `json:"today_pnl"`
	WinRate         string `json:"win_rate"`
	MaxDrawdownPct  string `json:"max_drawdown_pct"`
	HighWaterMark   string `json:"high_water_mark"`
}

// SummaryView is the metrics summary joined with the resolved capital.
type SummaryView struct {
	Summary     *model.MetricsSummary `json:"summary"`
	Capital     capital.Resolution    `json:"capital"`
	Favorable   bool                  `json:"favorable"`
	Provisional bool                  `json:"provisional"`
	Display     SummaryDisplay        `json:"display"`
	FetchedAt   time.Time             `json:"fetched_at"`
}

// ReconciliationView is the evaluated consistency verdict for one bot.
type ReconciliationView struct {
	Evaluation      reconcile.Evaluation `json:"evaluation"`
	FullyConsistent bool                 `json:"fully_consistent"`
	FetchedAt       time.Time            `json:"fetched_at"`
}

// ResetChallenge is the first half of the two-step reset confirmation.
type ResetChallenge struct {
	ConfirmToken string    `json:"confirm_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// BotService assembles derived views for the dashboard and carries the two
// mutations (capital update, reset) to the backend.
type BotService struct {
	client   BackendClient
	repo     SnapshotStore
	refresh  *RefreshService
	resetTTL time.Duration
	log      *logger.Logger
}

func NewBotService(client BackendClient, repo SnapshotStore, refresh *RefreshService, resetTTL time.Duration) *BotService {
	return &BotService{
		client:   client,
		repo:     repo,
		refresh:  refresh,
		resetTTL: resetTTL,
		log:      logger.GetLogger(),
	}
}

// ListBots returns the fleet with the current derived state where one is
// available. Bots whose first snapshot has not arrived are listed without a
// state rather than with fabricated zeros.
func (s *BotService) ListBots(ctx context.Context) []BotOverview {
	overviews := make([]BotOverview, 0, len(model.KnownBots))
	for _, botID := range model.KnownBots {
		overview := BotOverview{BotID: botID}
		if tracker := s.refresh.Tracker(botID); tracker != nil {
			overview.State = tracker.State()
		}
		if overview.State == nil {
			if snap, _, err := s.repo.GetBotStatus(ctx, botID); err == nil {
				overview.State = status.DeriveState(snap, time.Now())
			}
		}
		overviews = append(overviews, overview)
	}
	return overviews
}

// GetStatus returns the derived operational state for one bot.
func (s *BotService) GetStatus(ctx context.Context, botID string) (*model.BotOperationalState, error) {
	if tracker := s.refresh.Tracker(botID); tracker != nil {
		if state := tracker.State(); state != nil {
			return state, nil
		}
	}

	snap, _, err := s.repo.GetBotStatus(ctx, botID)
	if err != nil {
		return nil, err
	}
	return status.DeriveState(snap, time.Now()), nil
}

// GetSummary returns the metrics summary joined with the resolved starting
// capital. The capital config may be absent; the resolver's fallback chain
// decides the provenance.
func (s *BotService) GetSummary(ctx context.Context, botID string) (*SummaryView, error) {
	summary, fetchedAt, err := s.repo.GetSummary(ctx, botID)
	if err != nil {
		return nil, err
	}

	cfg, _, err := s.repo.GetCapitalConfig(ctx, botID)
	if err != nil && !util.HasCode(err, util.ErrCodeMissingData) {
		return nil, err
	}

	res := capital.Resolve(cfg, summary)

	return &SummaryView{
		Summary:     summary,
		Capital:     res,
		Favorable:   capital.Favorable(summary.CurrentEquity, res),
		Provisional: res.Provisional(),
		Display: SummaryDisplay{
			CurrentEquity:   util.FormatCurrency(summary.CurrentEquity),
			StartingCapital: util.FormatCurrency(res.Value),
			TotalPnl:        util.FormatSignedCurrency(summary.TotalPnl),
			TotalReturnPct:  util.FormatSignedPercent(summary.TotalReturnPct),
			TodayPnl:        util.FormatSignedCurrency(summary.TodayPnl),
			WinRate:         util.FormatPercent(summary.WinRate),
			MaxDrawdownPct:  util.FormatPercent(summary.MaxDrawdownPct),
			HighWaterMark:   util.FormatCurrency(summary.HighWaterMark),
		},
		FetchedAt: fetchedAt,
	}, nil
}

// GetCapitalConfig returns the backend-owned capital configuration.
func (s *BotService) GetCapitalConfig(ctx context.Context, botID string) (*model.CapitalConfig, error) {
	cfg, _, err := s.repo.GetCapitalConfig(ctx, botID)
	return cfg, err
}

// GetReconciliation returns the evaluated consistency verdict.
func (s *BotService) GetReconciliation(ctx context.Context, botID string) (*ReconciliationView, error) {
	result, fetchedAt, err := s.repo.GetReconciliation(ctx, botID)
	if err != nil {
		return nil, err
	}

	return &ReconciliationView{
		Evaluation:      reconcile.Evaluate(result),
		FullyConsistent: reconcile.FullyConsistent(result),
		FetchedAt:       fetchedAt,
	}, nil
}

// UpdateCapital validates the amount locally, forwards it to the backend,
// and refreshes both the summary and the capital config on success. The
// displayed capital is never updated optimistically.
func (s *BotService) UpdateCapital(ctx context.Context, botID string, amount float64) error {
	if err := capital.ValidateAmount(amount); err != nil {
		return err
	}

	if err := s.client.UpdateCapital(ctx, botID, amount); err != nil {
		return mapBackendError(err)
	}

	s.log.Infof("Capital updated for bot %s", botID)
	s.refreshAfterMutation(botID)
	return nil
}

// RequestReset arms a reset: it issues a short-lived confirmation token the
// operator must echo back. No backend call happens here, so a single click
// can never trigger the deletion.
func (s *BotService) RequestReset(ctx context.Context, botID string) (*ResetChallenge, error) {
	token := uuid.New().String()
	if err := s.repo.ArmReset(ctx, botID, token, s.resetTTL); err != nil {
		return nil, err
	}

	s.log.Warnf("Reset armed for bot %s", botID)
	return &ResetChallenge{
		ConfirmToken: token,
		ExpiresAt:    time.Now().Add(s.resetTTL),
	}, nil
}

// ConfirmReset completes the two-step reset. The token is consumed whether
// or not it matches, so every attempt needs a fresh challenge.
func (s *BotService) ConfirmReset(ctx context.Context, botID, token string) error {
	armed, err := s.repo.ConsumeResetToken(ctx, botID)
	if err != nil {
		if util.HasCode(err, util.ErrCodeMissingData) {
			return util.NewAppError(http.StatusConflict, util.ErrCodeResetNotArmed,
				"Reset was not requested or the confirmation expired")
		}
		return err
	}
	if armed != token {
		return util.NewAppError(http.StatusConflict, util.ErrCodeResetNotArmed,
			"Reset confirmation token does not match")
	}

	if err := s.client.Reset(ctx, botID); err != nil {
		return mapBackendError(err)
	}

	s.log.Warnf("Reset executed for bot %s", botID)
	s.refreshAfterMutation(botID)
	return nil
}

// refreshAfterMutation re-pulls summary and capital config so displayed
// figures reflect the backend's post-mutation truth.
func (s *BotService) refreshAfterMutation(botID string) {
	ctx := context.Background()
	go s.refresh.RefreshSummary(ctx, botID)
	go s.refresh.RefreshCapital(ctx, botID)
}

// mapBackendError translates client errors into the operator-facing taxonomy
func mapBackendError(err error) error {
	var rejection *metricsapi.RejectionError
	if errors.As(err, &rejection) {
		return util.ErrBackendRejected(rejection.Detail)
	}

	var transport *metricsapi.TransportError
	if errors.As(err, &transport) {
		return util.ErrNetwork(transport.Err)
	}

	return util.WrapError(http.StatusBadGateway, util.ErrCodeInternal, "Unexpected backend error", err)
}
