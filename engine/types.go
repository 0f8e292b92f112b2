/*
Package engine provides the core capacity-planning calculation engine.

PURPOSE:
  This package contains the types and algorithms for computing per-period
  resource utilization: given time-bounded allocation records, availability
  baselines, and unavailability periods, it answers "how loaded is this
  resource in this period?" for capacity-planning visualization.

KEY CONCEPTS IN THIS FILE (types.go):
  - AllocationPeriod: A resource's claimed percentage on a project for a date range
  - AvailabilityRecord: Weekly-hours baseline history for a resource
  - UnavailabilityPeriod: Vacation, sick leave, and other time away
  - TimePeriod: A half-open reporting bucket [Start, End)
  - UtilizationPeriod: The computed, read-only output per bucket

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a pure function over in-memory collections
  2. Precision: Uses decimal.Decimal for percent/hour quantities
  3. Trust: The calculation layer performs NO input validation; callers gate
     inputs through the validate package first
  4. Immutability: Transforms return new records; inputs are never mutated

SEE ALSO:
  - bucket.go: Reporting-period generation
  - overlap.go: Interval overlap tests and clipping
  - availability.go: Weekly-hours baseline resolution
  - utilization.go: The per-period utilization fold
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ResourceID string
type ProjectID string

// Resource is the minimal directory entry the engine needs for fan-out
// and display. Everything else about a person lives in external systems.
type Resource struct {
	ID    ResourceID
	Name  string
	Email string
}

// =============================================================================
// ALLOCATION PERIOD - The central record of the system
// =============================================================================

// AllocationPeriod records that a resource claims PercentAllocation of its
// capacity on a project over an inclusive date range [StartDate, EndDate].
// Percent may exceed 100 when multiple roles or projects overlap.
//
/// Invariant: StartDate <= EndDate.
//
// Periods are created during extraction from source rows and mutated only
// by the migrate package transforms, each of which produces new records.
type AllocationPeriod struct {
	ID                string          `json:"id"`
	ResourceID        ResourceID      `json:"resource_id"`
	ProjectID         ProjectID       `json:"project_id"`
	ProjectName       string          `json:"project_name,omitempty"`
	ProjectColor      string          `json:"project_color,omitempty"`
	StartDate         TimePoint       `json:"start_date"`
	EndDate           TimePoint       `json:"end_date"`
	PercentAllocation decimal.Decimal `json:"percent_allocation"`

	// HoursPerWeek is derived from percent against a standard week; it is
	// informational and is never read back by the calculator.
	HoursPerWeek decimal.Decimal `json:"hours_per_week"`

	Role  string `json:"role,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// =============================================================================
// AVAILABILITY - How many hours a resource works in a normal week
// =============================================================================

// AvailabilityRecord is one entry in a resource's availability history.
// EffectiveTo is nil for the open-ended current record.
//
// Invariant: EffectiveFrom < EffectiveTo when EffectiveTo is present.
type AvailabilityRecord struct {
	ResourceID        ResourceID      `json:"resource_id"`
	EffectiveFrom     TimePoint       `json:"effective_from"`
	EffectiveTo       *TimePoint      `json:"effective_to,omitempty"`
	HoursPerDay       decimal.Decimal `json:"hours_per_day"`
	DaysPerWeek       decimal.Decimal `json:"days_per_week"`
	TotalHoursPerWeek decimal.Decimal `json:"total_hours_per_week"`
}

// =============================================================================
// UNAVAILABILITY - Time a resource cannot be allocated
// =============================================================================

type UnavailabilityType string

const (
	UnavailabilityVacation      UnavailabilityType = "vacation"
	UnavailabilitySickLeave     UnavailabilityType = "sick_leave"
	UnavailabilityTraining      UnavailabilityType = "training"
	UnavailabilityPublicHoliday UnavailabilityType = "public_holiday"
	UnavailabilityOther         UnavailabilityType = "other"
)

type UnavailabilityPeriod struct {
	ResourceID  ResourceID         `json:"resource_id"`
	Type        UnavailabilityType `json:"type"`
	StartDate   TimePoint          `json:"start_date"`
	EndDate     TimePoint          `json:"end_date"`
	Description string             `json:"description,omitempty"`
}

// =============================================================================
// TIME PERIOD - Half-open reporting bucket
// =============================================================================

// TimePeriod is a half-open interval [Start, End). A sequence of periods
// produced by the bucketer covers a caller-given range exactly; the final
// period is clipped even if shorter than the granularity unit.
//
// Label is a locale-formatted display string and must never be used as a
// join key.
type TimePeriod struct {
	Start TimePoint `json:"start"`
	End   TimePoint `json:"end"`
	Label string    `json:"label"`
}

// Days returns the fractional length of the period in days.
func (p TimePeriod) Days() float64 {
	return FractionalDaysBetween(p.Start, p.End)
}

func (p TimePeriod) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + ")"
}

// =============================================================================
// UTILIZATION PERIOD - Computed output, never persisted
// =============================================================================

type UtilizationStatus string

const (
	StatusOverutilized  UtilizationStatus = "overutilized"
	StatusOptimal       UtilizationStatus = "optimal"
	StatusAverage       UtilizationStatus = "average"
	StatusUnderutilized UtilizationStatus = "underutilized"
	StatusAvailable     UtilizationStatus = "available"
)

// UtilizationPeriod is the per-bucket result of the utilization fold.
// It is computed fresh per request; the engine never caches or persists it.
type UtilizationPeriod struct {
	PeriodStart            TimePoint             `json:"period_start"`
	PeriodEnd              TimePoint             `json:"period_end"`
	TotalAllocationPercent decimal.Decimal       `json:"total_allocation_percent"`
	NetAvailableHours      decimal.Decimal       `json:"net_available_hours"`
	AllocatedHours         decimal.Decimal       `json:"allocated_hours"`
	UnavailableHours       decimal.Decimal       `json:"unavailable_hours"`
	UtilizationPercent     decimal.Decimal       `json:"utilization_percent"`
	Status                 UtilizationStatus     `json:"status"`
	Allocations            []AllocationDetail    `json:"allocations"`
	Unavailability         []UnavailabilityDetail `json:"unavailability,omitempty"`
}

// AllocationDetail is one allocation's contribution to a period.
type AllocationDetail struct {
	ProjectID   ProjectID       `json:"project_id"`
	ProjectName string          `json:"project_name,omitempty"`
	Color       string          `json:"color,omitempty"`
	Percent     decimal.Decimal `json:"percent"`
	Tasks       []TaskDetail    `json:"tasks,omitempty"`
}

// TaskDetail is nested per-project task info supplied by the caller.
type TaskDetail struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnavailabilityDetail records the clipped contribution of one
// unavailability period; only overlapping periods produce an entry.
type UnavailabilityDetail struct {
	Type        UnavailabilityType `json:"type"`
	StartDate   TimePoint          `json:"start_date"`
	EndDate     TimePoint          `json:"end_date"`
	Days        decimal.Decimal    `json:"days"`
	HoursLost   decimal.Decimal    `json:"hours_lost"`
	Description string             `json:"description,omitempty"`
}
