// Package reconcile classifies backend reconciliation results for display.
package reconcile

import (
	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/pkg/logger"
)

// Verdict values
const (
	VerdictConsistent = "consistent"
	VerdictHasIssues  = "has_issues"
)

// Grouped holds issues split by severity, original relative order preserved
// within each group.
type Grouped struct {
	Critical []model.ReconciliationIssue `json:"critical"`
	Warning  []model.ReconciliationIssue `json:"warning"`
	Info     []model.ReconciliationIssue `json:"info"`
}

// Evaluation is the dashboard's consistency verdict for one bot.
type Evaluation struct {
	BotID   string  `json:"bot_id"`
	Verdict string  `json:"verdict"`
	Grouped Grouped `json:"grouped"`
}

// Evaluate classifies a reconciliation result. The issue list, not the
// backend's IsConsistent flag, is ground truth: any non-empty list yields
// has_issues. Every supplied issue lands in exactly one group; an issue with
// an unrecognized severity is filed under warning rather than dropped.
func Evaluate(result *model.ReconciliationResult) Evaluation {
	ev := Evaluation{BotID: result.BotID, Verdict: VerdictConsistent}
	if len(result.Issues) == 0 {
		return ev
	}

	ev.Verdict = VerdictHasIssues
	if result.IsConsistent {
		logger.Warnf("Bot %s reports is_consistent=true with %d issues; trusting the issue list",
			result.BotID, len(result.Issues))
	}

	for _, issue := range result.Issues {
		switch issue.Severity {
		case model.SeverityCritical:
			ev.Grouped.Critical = append(ev.Grouped.Critical, issue)
		case model.SeverityInfo:
			ev.Grouped.Info = append(ev.Grouped.Info, issue)
		case model.SeverityWarning:
			ev.Grouped.Warning = append(ev.Grouped.Warning, issue)
		default:
			logger.Warnf("Unknown reconciliation severity %q for bot %s, treating as warning",
				issue.Severity, result.BotID)
			ev.Grouped.Warning = append(ev.Grouped.Warning, issue)
		}
	}

	return ev
}

// FullyConsistent reports whether the panel can be collapsed entirely: the
// backend says consistent and there is nothing to show, informational or
// otherwise.
func FullyConsistent(result *model.ReconciliationResult) bool {
	return result.IsConsistent && len(result.Issues) == 0
}
