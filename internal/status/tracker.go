package status

import (
	"sync"
	"time"

	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/internal/util"
	"alphagex/dashboard/pkg/logger"
)

// DeriveState builds the full presentation state for a bot from its latest
// snapshot at the given instant.
func DeriveState(snap *model.BotStatusSnapshot, now time.Time) *model.BotOperationalState {
	cd := DeriveCountdown(snap.LastScanAt, snap.ScanIntervalMinutes, snap.IsPaused, snap.IsActive, now)
	st := Classify(snap.HasError, snap.IsPaused, snap.IsActive, cd.SecondsRemaining)

	return &model.BotOperationalState{
		BotID:               snap.BotID,
		State:               string(st),
		Severity:            st.Severity(),
		IsActive:            snap.IsActive,
		IsPaused:            snap.IsPaused,
		HasError:            snap.HasError,
		ErrorMessage:        snap.ErrorMessage,
		LastScanAt:          snap.LastScanAt,
		ScanIntervalMinutes: snap.ScanIntervalMinutes,
		CountdownLabel:      cd.Label,
		SecondsRemaining:    cd.SecondsRemaining,
		OpenPositions:       snap.OpenPositions,
		TodayPnl:            snap.TodayPnl,
		TodayPnlDisplay:     util.FormatSignedCurrency(snap.TodayPnl),
		TodayTrades:         snap.TodayTrades,
		ComputedAt:          now,
	}
}

// Tracker owns the once-per-second countdown recomputation for a single bot.
// The timer runs only while the bot is active, unpaused, and has a recorded
// last scan; it is torn down and rebuilt whenever any of those driving inputs
// changes, and Stop guarantees no residual tick fires afterwards.
type Tracker struct {
	botID   string
	publish func(*model.BotOperationalState)
	log     *logger.Logger

	mu       sync.Mutex
	snapshot *model.BotStatusSnapshot
	ticker   *time.Ticker
	done     chan struct{}
	gen      uint64
}

// NewTracker creates a tracker for one bot. publish receives every derived
// state; it must not block.
func NewTracker(botID string, publish func(*model.BotOperationalState)) *Tracker {
	return &Tracker{
		botID:   botID,
		publish: publish,
		log:     logger.GetLogger(),
	}
}

// Update replaces the tracker's snapshot. If the driving inputs (last scan,
// interval, paused, active) changed identity, the running timer is replaced.
// The derived state is recomputed and published immediately either way.
func (t *Tracker) Update(snap *model.BotStatusSnapshot) {
	t.mu.Lock()
	changed := drivingInputsChanged(t.snapshot, snap)
	t.snapshot = snap
	if changed {
		t.stopTimerLocked()
		if shouldTick(snap) {
			t.startTimerLocked()
		}
	}
	state := DeriveState(snap, time.Now())
	t.mu.Unlock()

	t.publish(state)
}

// Stop cancels the timer. No tick is delivered after Stop returns.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopTimerLocked()
	t.mu.Unlock()
}

// State returns the current derived state, or nil before the first snapshot.
func (t *Tracker) State() *model.BotOperationalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return nil
	}
	return DeriveState(t.snapshot, time.Now())
}

func (t *Tracker) startTimerLocked() {
	t.gen++
	gen := t.gen
	t.ticker = time.NewTicker(time.Second)
	t.done = make(chan struct{})

	go func(tick *time.Ticker, done chan struct{}) {
		for {
			select {
			case <-tick.C:
				t.recompute(gen)
			case <-done:
				return
			}
		}
	}(t.ticker, t.done)

	t.log.Debugf("Countdown timer started for bot %s", t.botID)
}

func (t *Tracker) stopTimerLocked() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.done)
	t.ticker = nil
	t.done = nil
	t.gen++ // invalidates ticks already in flight
	t.log.Debugf("Countdown timer stopped for bot %s", t.botID)
}

// recompute publishes a fresh state for a timer tick. Ticks from a torn-down
// timer carry a stale generation and are dropped.
func (t *Tracker) recompute(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.snapshot == nil {
		t.mu.Unlock()
		return
	}
	state := DeriveState(t.snapshot, time.Now())
	t.mu.Unlock()

	t.publish(state)
}

func shouldTick(snap *model.BotStatusSnapshot) bool {
	return snap.IsActive && !snap.IsPaused && snap.LastScanAt != nil
}

func drivingInputsChanged(prev, next *model.BotStatusSnapshot) bool {
	if prev == nil {
		return true
	}
	if prev.IsActive != next.IsActive || prev.IsPaused != next.IsPaused ||
		prev.ScanIntervalMinutes != next.ScanIntervalMinutes {
		return true
	}
	switch {
	case prev.LastScanAt == nil && next.LastScanAt == nil:
		return false
	case prev.LastScanAt == nil || next.LastScanAt == nil:
		return true
	default:
		return !prev.LastScanAt.Equal(*next.LastScanAt)
	}
}
