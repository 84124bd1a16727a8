package service

import (
	"context"
	"sync"
	"time"

	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/internal/util"
)

// fakeClient is an in-memory BackendClient with per-method call counters and
// overridable behavior.
type fakeClient struct {
	mu sync.Mutex

	statusFn  func(botID string) (*model.BotStatusSnapshot, error)
	summaryFn func(botID string) (*model.MetricsSummary, error)
	capitalFn func(botID string) (*model.CapitalConfig, error)
	reconFn   func(botID string) (*model.ReconciliationResult, error)

	updateCapitalErr error
	resetErr         error

	updateCapitalCalls int
	resetCalls         int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		statusFn: func(botID string) (*model.BotStatusSnapshot, error) {
			return &model.BotStatusSnapshot{BotID: botID, IsActive: true, ScanIntervalMinutes: 30}, nil
		},
		summaryFn: func(botID string) (*model.MetricsSummary, error) {
			return &model.MetricsSummary{BotID: botID, CurrentEquity: 30000, StartingCapital: 25000}, nil
		},
		capitalFn: func(botID string) (*model.CapitalConfig, error) {
			return &model.CapitalConfig{BotID: botID, StartingCapital: 25000, CapitalSource: model.CapitalSourceDatabase}, nil
		},
		reconFn: func(botID string) (*model.ReconciliationResult, error) {
			return &model.ReconciliationResult{BotID: botID, IsConsistent: true}, nil
		},
	}
}

func (f *fakeClient) GetBotStatus(_ context.Context, botID string) (*model.BotStatusSnapshot, error) {
	return f.statusFn(botID)
}

func (f *fakeClient) GetMetricsSummary(_ context.Context, botID string) (*model.MetricsSummary, error) {
	return f.summaryFn(botID)
}

func (f *fakeClient) GetCapitalConfig(_ context.Context, botID string) (*model.CapitalConfig, error) {
	return f.capitalFn(botID)
}

func (f *fakeClient) GetReconciliation(_ context.Context, botID string) (*model.ReconciliationResult, error) {
	return f.reconFn(botID)
}

func (f *fakeClient) UpdateCapital(_ context.Context, _ string, _ float64) error {
	f.mu.Lock()
	f.updateCapitalCalls++
	f.mu.Unlock()
	return f.updateCapitalErr
}

func (f *fakeClient) Reset(_ context.Context, _ string) error {
	f.mu.Lock()
	f.resetCalls++
	f.mu.Unlock()
	return f.resetErr
}

func (f *fakeClient) capitalCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateCapitalCalls
}

func (f *fakeClient) resetCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetCalls
}

// fakeStore is an in-memory SnapshotStore. saveSummaryHook, when set, runs
// before a summary save commits.
type fakeStore struct {
	mu        sync.Mutex
	statuses  map[string]*model.BotStatusSnapshot
	summaries map[string]*model.MetricsSummary
	capitals  map[string]*model.CapitalConfig
	recons    map[string]*model.ReconciliationResult
	tokens    map[string]string

	saveSummaryHook func(summary *model.MetricsSummary)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statuses:  make(map[string]*model.BotStatusSnapshot),
		summaries: make(map[string]*model.MetricsSummary),
		capitals:  make(map[string]*model.CapitalConfig),
		recons:    make(map[string]*model.ReconciliationResult),
		tokens:    make(map[string]string),
	}
}

func (f *fakeStore) SaveBotStatus(_ context.Context, snap *model.BotStatusSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[snap.BotID] = snap
	return nil
}

func (f *fakeStore) GetBotStatus(_ context.Context, botID string) (*model.BotStatusSnapshot, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.statuses[botID]
	if !ok {
		return nil, time.Time{}, util.ErrMissingData("Bot status")
	}
	return snap, time.Now(), nil
}

func (f *fakeStore) SaveSummary(_ context.Context, summary *model.MetricsSummary) error {
	if f.saveSummaryHook != nil {
		f.saveSummaryHook(summary)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries[summary.BotID] = summary
	return nil
}

func (f *fakeStore) GetSummary(_ context.Context, botID string) (*model.MetricsSummary, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary, ok := f.summaries[botID]
	if !ok {
		return nil, time.Time{}, util.ErrMissingData("Metrics summary")
	}
	return summary, time.Now(), nil
}

func (f *fakeStore) SaveCapitalConfig(_ context.Context, cfg *model.CapitalConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capitals[cfg.BotID] = cfg
	return nil
}

func (f *fakeStore) GetCapitalConfig(_ context.Context, botID string) (*model.CapitalConfig, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.capitals[botID]
	if !ok {
		return nil, time.Time{}, util.ErrMissingData("Capital configuration")
	}
	return cfg, time.Now(), nil
}

func (f *fakeStore) SaveReconciliation(_ context.Context, result *model.ReconciliationResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recons[result.BotID] = result
	return nil
}

func (f *fakeStore) GetReconciliation(_ context.Context, botID string) (*model.ReconciliationResult, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result, ok := f.recons[botID]
	if !ok {
		return nil, time.Time{}, util.ErrMissingData("Reconciliation result")
	}
	return result, time.Now(), nil
}

func (f *fakeStore) ArmReset(_ context.Context, botID, token string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[botID] = token
	return nil
}

func (f *fakeStore) ConsumeResetToken(_ context.Context, botID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[botID]
	if !ok {
		return "", util.ErrMissingData("Reset confirmation")
	}
	delete(f.tokens, botID)
	return token, nil
}

// fakeHub records broadcast messages.
type fakeHub struct {
	mu       sync.Mutex
	messages []model.WSMessage
}

func (f *fakeHub) Broadcast(msg model.WSMessage) {
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()
}

func (f *fakeHub) messagesOfType(msgType string) []model.WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.WSMessage
	for _, msg := range f.messages {
		if msg.Type == msgType {
			out = append(out, msg)
		}
	}
	return out
}
