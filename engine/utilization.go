/*
utilization.go - The per-period utilization fold

PURPOSE:
  Computes a UtilizationPeriod from allocation, availability, and
  unavailability collections for one reporting period. This is the central
  calculation that answers "how loaded is this resource right here?"

THE FOLD:
  1. Sum percent of allocations overlapping the period (no upper clamp)
  2. periodDays = fractional length of the period
  3. grossHoursAvailable = (weeklyHours / 7) * periodDays
  4. unavailableHours = sum over overlapping unavailability of
     (weeklyHours / 7) * clippedOverlapDays
  5. netAvailableHours = max(0, gross - unavailable)
  6. allocatedHours = net * totalAllocationPercent / 100
  7. utilizationPercent = net > 0 ? allocated/net*100 : 0
  8. status from the utilization percent thresholds

THE ZERO-DIVISION GUARD:
  When unavailability fully consumes a period, utilization is reported as 0
  even if the allocation percent is nonzero. This is deliberate: there are
  no available hours to be utilized. Do not "fix" it.

TRUST BOUNDARY:
  No input validation happens here. Malformed records produce wrong
  numbers, not errors; callers gate inputs through the validate package.
*/
package engine

import (
	"github.com/shopspring/decimal"
)

var (
	seven   = decimal.NewFromInt(7)
	hundred = decimal.NewFromInt(100)
)

// Status thresholds, checked in order; first match wins.
// The >=100 boundary is inclusive on the high side.
var statusThresholds = []struct {
	Min    decimal.Decimal
	Status UtilizationStatus
}{
	{decimal.NewFromInt(100), StatusOverutilized},
	{decimal.NewFromInt(80), StatusOptimal},
	{decimal.NewFromInt(60), StatusAverage},
	{decimal.NewFromInt(40), StatusUnderutilized},
}

// StatusFor classifies a utilization percentage.
func StatusFor(utilizationPercent decimal.Decimal) UtilizationStatus {
	for _, t := range statusThresholds {
		if utilizationPercent.GreaterThanOrEqual(t.Min) {
			return t.Status
		}
	}
	return StatusAvailable
}

// CalculationInput carries all collections for one resource and one period.
// Tasks is an optional per-project task list for detail nesting.
type CalculationInput struct {
	Period         TimePeriod
	Allocations    []AllocationPeriod
	Availability   []AvailabilityRecord
	Unavailability []UnavailabilityPeriod
	Tasks          map[ProjectID][]TaskDetail
}

// Calculator folds collections into per-period utilization. It is pure and
// stateless apart from configuration; computing utilization for N resources
// is safe to fan out across goroutines with no synchronization.
type Calculator struct {
	// DefaultWeeklyHours is used when a resource has no availability
	// history. See ResolveWeeklyHours.
	DefaultWeeklyHours decimal.Decimal
}

func NewCalculator() *Calculator {
	return &Calculator{DefaultWeeklyHours: DefaultWeeklyHours}
}

// Calculate computes the UtilizationPeriod for one period.
func (c *Calculator) Calculate(in CalculationInput) UtilizationPeriod {
	period := in.Period

	// 1. Overlapping allocations: full percent counted, boolean overlap.
	totalPercent := decimal.Zero
	var details []AllocationDetail
	for _, a := range in.Allocations {
		if !AllocationOverlaps(a, period) {
			continue
		}
		totalPercent = totalPercent.Add(a.PercentAllocation)
		details = append(details, AllocationDetail{
			ProjectID:   a.ProjectID,
			ProjectName: a.ProjectName,
			Color:       a.ProjectColor,
			Percent:     a.PercentAllocation,
			Tasks:       in.Tasks[a.ProjectID],
		})
	}

	// 2-3. Gross availability for the period.
	periodDays := decimal.NewFromFloat(period.Days())
	weeklyHours := ResolveWeeklyHours(in.Availability, c.DefaultWeeklyHours)
	dailyHours := weeklyHours.Div(seven)
	grossHours := dailyHours.Mul(periodDays)

	// 4. Hours lost to overlapping unavailability, on clipped intervals.
	unavailableHours := decimal.Zero
	var unavailability []UnavailabilityDetail
	for _, u := range in.Unavailability {
		if !UnavailabilityOverlaps(u, period) {
			continue
		}
		overlapDays := decimal.NewFromFloat(ClippedOverlapDays(u.StartDate, u.EndDate, period))
		hoursLost := dailyHours.Mul(overlapDays)
		unavailableHours = unavailableHours.Add(hoursLost)
		unavailability = append(unavailability, UnavailabilityDetail{
			Type:        u.Type,
			StartDate:   u.StartDate,
			EndDate:     u.EndDate,
			Days:        overlapDays,
			HoursLost:   hoursLost,
			Description: u.Description,
		})
	}

	// 5. Net availability never goes negative.
	netHours := grossHours.Sub(unavailableHours)
	if netHours.IsNegative() {
		netHours = decimal.Zero
	}

	// 6-7. Allocated hours and utilization, guarding the zero divisor.
	allocatedHours := netHours.Mul(totalPercent).Div(hundred)
	utilizationPercent := decimal.Zero
	if netHours.IsPositive() {
		utilizationPercent = allocatedHours.Div(netHours).Mul(hundred)
	}

	return UtilizationPeriod{
		PeriodStart:            period.Start,
		PeriodEnd:              period.End,
		TotalAllocationPercent: totalPercent,
		NetAvailableHours:      netHours,
		AllocatedHours:         allocatedHours,
		UnavailableHours:       unavailableHours,
		UtilizationPercent:     utilizationPercent,
		Status:                 StatusFor(utilizationPercent),
		Allocations:            details,
		Unavailability:         unavailability,
	}
}

// CalculateRange runs the fold over every period in a bucketed range.
func (c *Calculator) CalculateRange(
	periods []TimePeriod,
	allocations []AllocationPeriod,
	availability []AvailabilityRecord,
	unavailability []UnavailabilityPeriod,
	tasks map[ProjectID][]TaskDetail,
) []UtilizationPeriod {
	out := make([]UtilizationPeriod, len(periods))
	for i, p := range periods {
		out[i] = c.Calculate(CalculationInput{
			Period:         p,
			Allocations:    allocations,
			Availability:   availability,
			Unavailability: unavailability,
			Tasks:          tasks,
		})
	}
	return out
}
