package status

import (
	"sync"
	"testing"
	"time"

	"alphagex/dashboard/internal/model"
)

type publishRecorder struct {
	mu     sync.Mutex
	states []*model.BotOperationalState
}

func (r *publishRecorder) publish(state *model.BotOperationalState) {
	r.mu.Lock()
	r.states = append(r.states, state)
	r.mu.Unlock()
}

func (r *publishRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func activeSnapshot(botID string, lastScan time.Time) *model.BotStatusSnapshot {
	return &model.BotStatusSnapshot{
		BotID:               botID,
		IsActive:            true,
		LastScanAt:          &lastScan,
		ScanIntervalMinutes: 30,
	}
}

func TestTrackerPublishesOnUpdate(t *testing.T) {
	rec := &publishRecorder{}
	tracker := NewTracker("ARES", rec.publish)
	defer tracker.Stop()

	tracker.Update(activeSnapshot("ARES", time.Now().Add(-5*time.Minute)))

	if rec.count() != 1 {
		t.Fatalf("publish count = %d, want 1", rec.count())
	}

	state := tracker.State()
	if state == nil {
		t.Fatal("State() returned nil after an update")
	}
	if state.State != string(StateActive) {
		t.Errorf("state = %s, want %s", state.State, StateActive)
	}
}

func TestTrackerStateNilBeforeFirstSnapshot(t *testing.T) {
	tracker := NewTracker("ARES", func(*model.BotOperationalState) {})
	defer tracker.Stop()

	if tracker.State() != nil {
		t.Error("State() must be nil before the first snapshot")
	}
}

func TestTrackerTicksWhileActive(t *testing.T) {
	rec := &publishRecorder{}
	tracker := NewTracker("ATHENA", rec.publish)
	defer tracker.Stop()

	tracker.Update(activeSnapshot("ATHENA", time.Now().Add(-10*time.Minute)))

	time.Sleep(1500 * time.Millisecond)

	// One immediate publish plus at least one timer tick.
	if rec.count() < 2 {
		t.Errorf("publish count = %d, want at least 2", rec.count())
	}
}

func TestTrackerNoTickAfterStop(t *testing.T) {
	rec := &publishRecorder{}
	tracker := NewTracker("APOLLO", rec.publish)

	tracker.Update(activeSnapshot("APOLLO", time.Now().Add(-10*time.Minute)))
	tracker.Stop()

	before := rec.count()
	time.Sleep(1500 * time.Millisecond)

	if after := rec.count(); after != before {
		t.Errorf("publish count grew from %d to %d after Stop", before, after)
	}
}

func TestTrackerNoTickWhilePaused(t *testing.T) {
	rec := &publishRecorder{}
	tracker := NewTracker("HERMES", rec.publish)
	defer tracker.Stop()

	lastScan := time.Now().Add(-10 * time.Minute)
	snap := activeSnapshot("HERMES", lastScan)
	snap.IsPaused = true
	tracker.Update(snap)

	before := rec.count()
	time.Sleep(1500 * time.Millisecond)

	if after := rec.count(); after != before {
		t.Errorf("paused tracker published %d extra states", after-before)
	}
}

func TestTrackerRestartsTimerOnDrivingInputChange(t *testing.T) {
	rec := &publishRecorder{}
	tracker := NewTracker("TITAN", rec.publish)
	defer tracker.Stop()

	lastScan := time.Now().Add(-10 * time.Minute)
	tracker.Update(activeSnapshot("TITAN", lastScan))

	// Pausing tears the timer down.
	paused := activeSnapshot("TITAN", lastScan)
	paused.IsPaused = true
	tracker.Update(paused)

	before := rec.count()
	time.Sleep(1200 * time.Millisecond)
	if after := rec.count(); after != before {
		t.Fatalf("timer survived a pause: %d extra publishes", after-before)
	}

	// Resuming brings it back.
	tracker.Update(activeSnapshot("TITAN", lastScan))
	before = rec.count()
	time.Sleep(1500 * time.Millisecond)
	if after := rec.count(); after <= before {
		t.Error("timer did not restart after resume")
	}
}

func TestDrivingInputsChanged(t *testing.T) {
	scanA := time.Now().Add(-5 * time.Minute)
	scanB := scanA.Add(time.Minute)

	base := activeSnapshot("ARES", scanA)

	same := activeSnapshot("ARES", scanA)
	same.OpenPositions = 3
	same.TodayPnl = 120.5
	if drivingInputsChanged(base, same) {
		t.Error("non-driving fields must not count as a change")
	}

	if !drivingInputsChanged(nil, base) {
		t.Error("first snapshot always counts as a change")
	}
	if !drivingInputsChanged(base, activeSnapshot("ARES", scanB)) {
		t.Error("new last scan must count as a change")
	}

	paused := activeSnapshot("ARES", scanA)
	paused.IsPaused = true
	if !drivingInputsChanged(base, paused) {
		t.Error("pause flip must count as a change")
	}

	noScan := activeSnapshot("ARES", scanA)
	noScan.LastScanAt = nil
	if !drivingInputsChanged(base, noScan) {
		t.Error("losing the last scan must count as a change")
	}
}
