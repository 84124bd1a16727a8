package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"alphagex/dashboard/internal/config"
	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/internal/status"
	"alphagex/dashboard/pkg/logger"
)

// BackendClient is the slice of the metrics API the dashboard consumes.
type BackendClient interface {
	GetBotStatus(ctx context.Context, botID string) (*model.BotStatusSnapshot, error)
	GetMetricsSummary(ctx context.Context, botID string) (*model.MetricsSummary, error)
	GetCapitalConfig(ctx context.Context, botID string) (*model.CapitalConfig, error)
	GetReconciliation(ctx context.Context, botID string) (*model.ReconciliationResult, error)
	UpdateCapital(ctx context.Context, botID string, amount float64) error
	Reset(ctx context.Context, botID string) error
}

// Broadcaster pushes derived updates to connected dashboards.
type Broadcaster interface {
	Broadcast(msg model.WSMessage)
}

// SnapshotStore is the cache of latest backend payloads per bot.
// Implemented by repository.SnapshotRepository.
type SnapshotStore interface {
	SaveBotStatus(ctx context.Context, snap *model.BotStatusSnapshot) error
	GetBotStatus(ctx context.Context, botID string) (*model.BotStatusSnapshot, time.Time, error)
	SaveSummary(ctx context.Context, summary *model.MetricsSummary) error
	GetSummary(ctx context.Context, botID string) (*model.MetricsSummary, time.Time, error)
	SaveCapitalConfig(ctx context.Context, cfg *model.CapitalConfig) error
	GetCapitalConfig(ctx context.Context, botID string) (*model.CapitalConfig, time.Time, error)
	SaveReconciliation(ctx context.Context, result *model.ReconciliationResult) error
	GetReconciliation(ctx context.Context, botID string) (*model.ReconciliationResult, time.Time, error)
	ArmReset(ctx context.Context, botID, token string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, botID string) (string, error)
}

// Refresh kinds, one sequence stream per (bot, kind)
const (
	kindStatus         = "status"
	kindSummary        = "summary"
	kindCapital        = "capital"
	kindReconciliation = "reconciliation"
)

// RefreshService pulls the backend data sources on their polling cadences and
// on demand. Refreshes are re-entrant: one in flight never blocks another.
// Every fetch carries a per-(bot,kind) sequence number taken when the request
// is issued; a response is applied only if no later-issued response has been
// applied already, so a stale reply can never overwrite fresher state
// (last-writer-by-request-order, not by arrival order).
type RefreshService struct {
	client BackendClient
	repo   SnapshotStore
	hub    Broadcaster
	poll   config.PollConfig
	log    *logger.Logger

	trackers map[string]*status.Tracker

	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
	commits map[string]*sync.Mutex

	done chan struct{}
}

func NewRefreshService(client BackendClient, repo SnapshotStore, hub Broadcaster, poll config.PollConfig) *RefreshService {
	s := &RefreshService{
		client:   client,
		repo:     repo,
		hub:      hub,
		poll:     poll,
		log:      logger.GetLogger(),
		trackers: make(map[string]*status.Tracker),
		issued:   make(map[string]uint64),
		applied:  make(map[string]uint64),
		commits:  make(map[string]*sync.Mutex),
		done:     make(chan struct{}),
	}

	for _, botID := range model.KnownBots {
		id := botID
		s.trackers[id] = status.NewTracker(id, func(state *model.BotOperationalState) {
			s.hub.Broadcast(model.WSMessage{
				Type:      model.MessageTypeBotState,
				BotID:     id,
				Data:      state,
				Timestamp: time.Now(),
			})
		})
	}

	return s
}

// Start begins the polling loops, one per data source.
func (s *RefreshService) Start() {
	go s.pollLoop(s.poll.StatusInterval, s.refreshStatusAll)
	go s.pollLoop(s.poll.SummaryInterval, s.refreshSummaryAll)
	go s.pollLoop(s.poll.CapitalInterval, s.refreshCapitalAll)
	go s.pollLoop(s.poll.ReconciliationInterval, s.refreshReconciliationAll)
	s.log.Info("Refresh service started")
}

// Stop halts polling and tears down every countdown timer.
func (s *RefreshService) Stop() {
	close(s.done)
	for _, tracker := range s.trackers {
		tracker.Stop()
	}
	s.log.Info("Refresh service stopped")
}

// Tracker returns the countdown tracker for a bot.
func (s *RefreshService) Tracker(botID string) *status.Tracker {
	return s.trackers[botID]
}

func (s *RefreshService) pollLoop(interval time.Duration, refreshAll func(context.Context)) {
	// Prime immediately, then tick
	refreshAll(context.Background())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refreshAll(context.Background())
		case <-s.done:
			return
		}
	}
}

func (s *RefreshService) refreshStatusAll(ctx context.Context) {
	for _, botID := range model.KnownBots {
		go s.RefreshStatus(ctx, botID)
	}
}

func (s *RefreshService) refreshSummaryAll(ctx context.Context) {
	for _, botID := range model.KnownBots {
		go s.RefreshSummary(ctx, botID)
	}
}

func (s *RefreshService) refreshCapitalAll(ctx context.Context) {
	for _, botID := range model.KnownBots {
		go s.RefreshCapital(ctx, botID)
	}
}

func (s *RefreshService) refreshReconciliationAll(ctx context.Context) {
	for _, botID := range model.KnownBots {
		go s.RefreshReconciliation(ctx, botID)
	}
}

// RefreshStatus fetches the raw status flags for one bot and feeds them to
// its countdown tracker.
func (s *RefreshService) RefreshStatus(ctx context.Context, botID string) error {
	seq := s.nextSeq(botID, kindStatus)

	snap, err := s.client.GetBotStatus(ctx, botID)
	if err != nil {
		s.log.Warnf("Status refresh failed for bot %s: %v", botID, err)
		return err
	}
	snap.BotID = botID

	return s.apply(botID, kindStatus, seq, func() error {
		if err := s.repo.SaveBotStatus(ctx, snap); err != nil {
			return err
		}
		if tracker := s.trackers[botID]; tracker != nil {
			tracker.Update(snap)
		}
		return nil
	})
}

// RefreshSummary fetches the metrics summary for one bot.
func (s *RefreshService) RefreshSummary(ctx context.Context, botID string) error {
	seq := s.nextSeq(botID, kindSummary)

	summary, err := s.client.GetMetricsSummary(ctx, botID)
	if err != nil {
		s.log.Warnf("Summary refresh failed for bot %s: %v", botID, err)
		return err
	}
	summary.BotID = botID

	return s.apply(botID, kindSummary, seq, func() error {
		if err := s.repo.SaveSummary(ctx, summary); err != nil {
			return err
		}
		s.hub.Broadcast(model.WSMessage{
			Type:      model.MessageTypeSummaryUpdate,
			BotID:     botID,
			Data:      summary,
			Timestamp: time.Now(),
		})
		return nil
	})
}

// RefreshCapital fetches the capital configuration for one bot.
func (s *RefreshService) RefreshCapital(ctx context.Context, botID string) error {
	seq := s.nextSeq(botID, kindCapital)

	cfg, err := s.client.GetCapitalConfig(ctx, botID)
	if err != nil {
		s.log.Warnf("Capital refresh failed for bot %s: %v", botID, err)
		return err
	}
	cfg.BotID = botID

	return s.apply(botID, kindCapital, seq, func() error {
		if err := s.repo.SaveCapitalConfig(ctx, cfg); err != nil {
			return err
		}
		s.hub.Broadcast(model.WSMessage{
			Type:      model.MessageTypeCapitalUpdate,
			BotID:     botID,
			Data:      cfg,
			Timestamp: time.Now(),
		})
		return nil
	})
}

// RefreshReconciliation fetches the consistency check result for one bot.
func (s *RefreshService) RefreshReconciliation(ctx context.Context, botID string) error {
	seq := s.nextSeq(botID, kindReconciliation)

	result, err := s.client.GetReconciliation(ctx, botID)
	if err != nil {
		s.log.Warnf("Reconciliation refresh failed for bot %s: %v", botID, err)
		return err
	}
	result.BotID = botID

	return s.apply(botID, kindReconciliation, seq, func() error {
		if err := s.repo.SaveReconciliation(ctx, result); err != nil {
			return err
		}
		s.hub.Broadcast(model.WSMessage{
			Type:      model.MessageTypeReconciliation,
			BotID:     botID,
			Data:      result,
			Timestamp: time.Now(),
		})
		return nil
	})
}

// RefreshAll triggers every data source for one bot concurrently (manual
// refresh button). The fetches outlive the caller, so they run on a detached
// context rather than the request's.
func (s *RefreshService) RefreshAll(botID string) {
	ctx := context.Background()
	go s.RefreshStatus(ctx, botID)
	go s.RefreshSummary(ctx, botID)
	go s.RefreshCapital(ctx, botID)
	go s.RefreshReconciliation(ctx, botID)
}

// nextSeq tags an outgoing request with the next sequence for (bot, kind).
func (s *RefreshService) nextSeq(botID, kind string) uint64 {
	key := seqKey(botID, kind)
	s.mu.Lock()
	s.issued[key]++
	seq := s.issued[key]
	s.mu.Unlock()
	return seq
}

// apply commits a fetched payload unless a later-issued request has already
// been applied, in which case the stale response is discarded. Commits are
// serialized per (bot, kind) stream only; a slow save on one stream never
// blocks another.
func (s *RefreshService) apply(botID, kind string, seq uint64, commit func() error) error {
	key := seqKey(botID, kind)

	stream := s.commitLock(key)
	stream.Lock()
	defer stream.Unlock()

	s.mu.Lock()
	stale := seq <= s.applied[key]
	if !stale {
		s.applied[key] = seq
	}
	s.mu.Unlock()

	if stale {
		s.log.Debugf("Discarding stale %s response for bot %s (seq %d)", kind, botID, seq)
		return nil
	}
	return commit()
}

func (s *RefreshService) commitLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.commits[key]
	if !ok {
		m = &sync.Mutex{}
		s.commits[key] = m
	}
	return m
}

func seqKey(botID, kind string) string {
	return fmt.Sprintf("%s:%s", botID, kind)
}
