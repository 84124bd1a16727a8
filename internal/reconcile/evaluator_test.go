package reconcile

import (
	"testing"

	"alphagex/dashboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateConsistent(t *testing.T) {
	result := &model.ReconciliationResult{BotID: "ARES", IsConsistent: true}

	ev := Evaluate(result)

	assert.Equal(t, VerdictConsistent, ev.Verdict)
	assert.Empty(t, ev.Grouped.Critical)
	assert.Empty(t, ev.Grouped.Warning)
	assert.Empty(t, ev.Grouped.Info)
	assert.True(t, FullyConsistent(result))
}

func TestEvaluateGroupsBySeverity(t *testing.T) {
	result := &model.ReconciliationResult{
		BotID:        "ATHENA",
		IsConsistent: false,
		Issues: []model.ReconciliationIssue{
			{Severity: model.SeverityWarning, Message: "equity drift 0.5%"},
			{Severity: model.SeverityCritical, Message: "trade count mismatch"},
			{Severity: model.SeverityInfo, Message: "stale high water mark"},
			{Severity: model.SeverityCritical, Message: "realized pnl mismatch"},
		},
	}

	ev := Evaluate(result)

	assert.Equal(t, VerdictHasIssues, ev.Verdict)
	if assert.Len(t, ev.Grouped.Critical, 2) {
		// Relative order within a group follows the input.
		assert.Equal(t, "trade count mismatch", ev.Grouped.Critical[0].Message)
		assert.Equal(t, "realized pnl mismatch", ev.Grouped.Critical[1].Message)
	}
	assert.Len(t, ev.Grouped.Warning, 1)
	assert.Len(t, ev.Grouped.Info, 1)
}

func TestEvaluateIssueListOverridesFlag(t *testing.T) {
	// A backend claiming consistency while supplying issues is not trusted.
	result := &model.ReconciliationResult{
		BotID:        "APOLLO",
		IsConsistent: true,
		Issues: []model.ReconciliationIssue{
			{Severity: model.SeverityWarning, Message: "open positions disagree"},
		},
	}

	ev := Evaluate(result)

	assert.Equal(t, VerdictHasIssues, ev.Verdict)
	assert.False(t, FullyConsistent(result))
}

func TestEvaluateUnknownSeverityFiledAsWarning(t *testing.T) {
	result := &model.ReconciliationResult{
		BotID: "HERMES",
		Issues: []model.ReconciliationIssue{
			{Severity: "catastrophic", Message: "unclassified discrepancy"},
		},
	}

	ev := Evaluate(result)

	assert.Equal(t, VerdictHasIssues, ev.Verdict)
	if assert.Len(t, ev.Grouped.Warning, 1) {
		assert.Equal(t, "unclassified discrepancy", ev.Grouped.Warning[0].Message)
	}
	assert.Empty(t, ev.Grouped.Critical)
	assert.Empty(t, ev.Grouped.Info)
}

func TestFullyConsistentRequiresBoth(t *testing.T) {
	// Informational issues still keep the panel open.
	withInfo := &model.ReconciliationResult{
		IsConsistent: true,
		Issues:       []model.ReconciliationIssue{{Severity: model.SeverityInfo, Message: "note"}},
	}
	assert.False(t, FullyConsistent(withInfo))

	flagFalse := &model.ReconciliationResult{IsConsistent: false}
	assert.False(t, FullyConsistent(flagFalse))
}
