package status

import (
	"fmt"
	"time"
)

// ScanningLabel is shown once the next scan time has been reached.
const ScanningLabel = "Scanning..."

// Countdown is the derived time-to-next-scan for a bot.
// Ticking is false when the countdown is undefined (paused, inactive, or no
// recorded scan); the label is blank in that case and must not tick.
type Countdown struct {
	Label            string
	SecondsRemaining int
	Ticking          bool
}

// DeriveCountdown computes the countdown to a bot's next scan at the given
// instant. A lastScanAt in the future (clock skew) simply yields a remaining
// time larger than the interval; it is never negative.
func DeriveCountdown(lastScanAt *time.Time, scanIntervalMinutes int, isPaused, isActive bool, now time.Time) Countdown {
	if isPaused || !isActive || lastScanAt == nil {
		return Countdown{}
	}

	nextScanAt := lastScanAt.Add(time.Duration(scanIntervalMinutes) * time.Minute)
	if !now.Before(nextScanAt) {
		return Countdown{Label: ScanningLabel, SecondsRemaining: 0, Ticking: true}
	}

	secs := int(nextScanAt.Sub(now).Round(time.Second) / time.Second)
	return Countdown{
		Label:            formatCountdown(secs),
		SecondsRemaining: secs,
		Ticking:          true,
	}
}

func formatCountdown(secs int) string {
	minutes := secs / 60
	seconds := secs % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
