// Package status derives a bot's operational state and countdown from the
// raw flags and timestamps the backend reports.
package status

// State is the resolved operational state of a bot. Exactly one state is
// resolved at any instant.
type State string

const (
	StateError        State = "ERROR"
	StatePaused       State = "PAUSED"
	StateInactive     State = "INACTIVE"
	StateScanningSoon State = "SCANNING_SOON"
	StateActive       State = "ACTIVE"
)

// Severity buckets used purely for presentation weight.
const (
	SeverityAlarm   = "alarm"
	SeverityCaution = "caution"
	SeverityNeutral = "neutral"
	SeverityInfo    = "info"
)

// scanningSoonWindow is the imminent-scan warning window in seconds.
const scanningSoonWindow = 10

// Classify resolves the operational state from bot flags. The checks form a
// strict priority chain: first match wins, an error overrides everything
// including paused and inactive.
func Classify(hasError, isPaused, isActive bool, secondsRemaining int) State {
	switch {
	case hasError:
		return StateError
	case isPaused:
		return StatePaused
	case !isActive:
		return StateInactive
	case secondsRemaining > 0 && secondsRemaining <= scanningSoonWindow:
		return StateScanningSoon
	default:
		return StateActive
	}
}

// Severity returns the presentation weight for a state.
func (s State) Severity() string {
	switch s {
	case StateError:
		return SeverityAlarm
	case StatePaused:
		return SeverityCaution
	case StateInactive:
		return SeverityNeutral
	default:
		return SeverityInfo
	}
}
