package engine

import "github.com/shopspring/decimal"

// =============================================================================
// AVAILABILITY RESOLVER - Weekly-hours baseline
// =============================================================================

// DefaultWeeklyHours is the global fallback when a resource has no
// availability history. It is injected into the Calculator rather than
// buried in the fold so deployments can override it.
var DefaultWeeklyHours = decimal.NewFromInt(40)

// ResolveWeeklyHours returns the weekly-hours baseline for a resource:
// the TotalHoursPerWeek of the LAST element of the supplied history, or
// defaultHours when the history is empty.
//
// This is a documented simplification, not a point-in-time lookup: the
// resolver does not sort the history and does not consult effective
// ranges. Callers that want "the record effective as of date D" must sort
// ascending by EffectiveFrom and accept that the latest record wins for
// every query date.
func ResolveWeeklyHours(history []AvailabilityRecord, defaultHours decimal.Decimal) decimal.Decimal {
	if len(history) == 0 {
		return defaultHours
	}
	return history[len(history)-1].TotalHoursPerWeek
}
