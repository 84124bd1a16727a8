// Package capital resolves which source defines a bot's starting capital and
// validates operator-supplied capital updates.
package capital

import (
	"math"

	"alphagex/dashboard/internal/model"
	"alphagex/dashboard/internal/util"
)

// Resolution sources. Database, tradier and default pass through from the
// backend's capital config untouched. SourceSummary marks a value borrowed
// from the metrics summary; SourceUnknown marks the local zero fallback when
// neither input was available. A source is never upgraded beyond what was
// actually supplied.
const (
	SourceDatabase = model.CapitalSourceDatabase
	SourceTradier  = model.CapitalSourceTradier
	SourceDefault  = model.CapitalSourceDefault
	SourceSummary  = "summary"
	SourceUnknown  = "unknown"
)

// Resolution is the authoritative starting capital and its provenance.
// Resolved is false only for the zero fallback, so callers can tell a real
// backend-reported default apart from "nothing was available".
type Resolution struct {
	Value    float64 `json:"value"`
	Source   string  `json:"source"`
	Resolved bool    `json:"resolved"`
}

// Resolve picks the starting capital: explicit config first, the metrics
// summary's figure second, zero last. It never fabricates a non-zero default.
func Resolve(cfg *model.CapitalConfig, summary *model.MetricsSummary) Resolution {
	if cfg != nil {
		return Resolution{Value: cfg.StartingCapital, Source: cfg.CapitalSource, Resolved: true}
	}
	if summary != nil {
		return Resolution{Value: summary.StartingCapital, Source: SourceSummary, Resolved: true}
	}
	return Resolution{Value: 0, Source: SourceUnknown, Resolved: false}
}

// Favorable reports whether current equity is at or above the resolved
// starting capital. Always compared against the resolved value so that a
// source change propagates to every dependent visual.
func Favorable(currentEquity float64, res Resolution) bool {
	return currentEquity >= res.Value
}

// Provisional reports whether derived returns built on this resolution
// should be flagged as unreliable: either nothing was configured at the
// backend ("default") or the value was not resolvable at all.
func (r Resolution) Provisional() bool {
	return !r.Resolved || r.Source == SourceDefault || r.Source == SourceUnknown
}

// ValidateAmount checks an operator-supplied capital value before any
// network call. Anything that is not a finite number greater than zero is
// rejected with a validation error.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return util.ErrValidation("Please enter a valid capital amount greater than zero")
	}
	return nil
}
