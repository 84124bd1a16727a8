package status

import (
	"testing"
	"time"
)

func TestDeriveCountdownOneMinuteOut(t *testing.T) {
	now := time.Now()
	lastScan := now.Add(-29 * time.Minute)

	cd := DeriveCountdown(&lastScan, 30, false, true, now)

	if !cd.Ticking {
		t.Fatal("expected a ticking countdown")
	}
	if cd.Label != "1m 0s" {
		t.Errorf("label = %q, want %q", cd.Label, "1m 0s")
	}
	if cd.SecondsRemaining != 60 {
		t.Errorf("secondsRemaining = %d, want 60", cd.SecondsRemaining)
	}
}

func TestDeriveCountdownOverdueScan(t *testing.T) {
	now := time.Now()
	lastScan := now.Add(-31 * time.Minute)

	cd := DeriveCountdown(&lastScan, 30, false, true, now)

	if cd.Label != ScanningLabel {
		t.Errorf("label = %q, want %q", cd.Label, ScanningLabel)
	}
	if cd.SecondsRemaining != 0 {
		t.Errorf("secondsRemaining = %d, want 0", cd.SecondsRemaining)
	}
}

func TestDeriveCountdownExactlyDue(t *testing.T) {
	now := time.Now()
	lastScan := now.Add(-30 * time.Minute)

	cd := DeriveCountdown(&lastScan, 30, false, true, now)

	if cd.Label != ScanningLabel || cd.SecondsRemaining != 0 {
		t.Errorf("got (%q, %d), want (%q, 0)", cd.Label, cd.SecondsRemaining, ScanningLabel)
	}
}

func TestDeriveCountdownBlankStates(t *testing.T) {
	now := time.Now()
	lastScan := now.Add(-5 * time.Minute)

	tests := []struct {
		name       string
		lastScanAt *time.Time
		isPaused   bool
		isActive   bool
	}{
		{"paused", &lastScan, true, true},
		{"inactive", &lastScan, false, false},
		{"no last scan", nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := DeriveCountdown(tt.lastScanAt, 30, tt.isPaused, tt.isActive, now)
			if cd.Ticking {
				t.Error("countdown must not tick")
			}
			if cd.Label != "" {
				t.Errorf("label = %q, want blank", cd.Label)
			}
			if cd.SecondsRemaining != 0 {
				t.Errorf("secondsRemaining = %d, want 0", cd.SecondsRemaining)
			}
		})
	}
}

func TestDeriveCountdownClockSkew(t *testing.T) {
	// A last scan in the future yields a remaining time larger than the
	// interval, never a negative value.
	now := time.Now()
	lastScan := now.Add(2 * time.Minute)

	cd := DeriveCountdown(&lastScan, 30, false, true, now)

	if cd.SecondsRemaining != 32*60 {
		t.Errorf("secondsRemaining = %d, want %d", cd.SecondsRemaining, 32*60)
	}
	if cd.Label != "32m 0s" {
		t.Errorf("label = %q, want %q", cd.Label, "32m 0s")
	}
}

func TestDeriveCountdownSecondsOnlyLabel(t *testing.T) {
	now := time.Now()
	lastScan := now.Add(-30*time.Minute + 42*time.Second)

	cd := DeriveCountdown(&lastScan, 30, false, true, now)

	if cd.Label != "42s" {
		t.Errorf("label = %q, want %q", cd.Label, "42s")
	}
}
