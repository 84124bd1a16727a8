package model

// Severity is the closed classification of a reconciliation issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// ReconciliationIssue is a single discrepancy found between independently
// stored metrics.
type ReconciliationIssue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ReconciliationResult is the backend's verdict on whether a bot's stored
// metrics (equity, trade counts, P&L) agree with each other.
//
// IsConsistent can in principle disagree with Issues; the evaluator treats
// the issue list as ground truth.
type ReconciliationResult struct {
	BotID        string                `json:"bot_id"`
	IsConsistent bool                  `json:"is_consistent"`
	Issues       []ReconciliationIssue `json:"issues"`
}
