package engine

// =============================================================================
// OVERLAP RESOLVER - Interval overlap tests and clipping
// =============================================================================
//
// The overlap test is OPEN on both sides: an interval overlaps a period iff
//
//   interval.start < period.end AND interval.end > period.start
//
// Zero-length and boundary-touching intervals do not count. Allocation
// overlap is boolean-only: the full percent is counted if any overlap
// exists, with no proration for partial coverage inside the period.

// IntervalOverlaps reports whether [start, end] overlaps the period under
// the open test.
func IntervalOverlaps(start, end TimePoint, period TimePeriod) bool {
	return start.Before(period.End) && end.After(period.Start)
}

// AllocationOverlaps reports whether an allocation contributes to a period.
func AllocationOverlaps(a AllocationPeriod, period TimePeriod) bool {
	return IntervalOverlaps(a.StartDate, a.EndDate, period)
}

// UnavailabilityOverlaps reports whether an unavailability period
// contributes to a period.
func UnavailabilityOverlaps(u UnavailabilityPeriod, period TimePeriod) bool {
	return IntervalOverlaps(u.StartDate, u.EndDate, period)
}

// ClippedOverlapDays returns the fractional overlap duration in days of
// [start, end] against the period, computed on the clipped interval:
//
//   overlapStart = max(start, period.Start)
//   overlapEnd   = min(end, period.End)
//
// The result is fractional, never rounded to whole days. Returns 0 when
// the interval does not overlap.
func ClippedOverlapDays(start, end TimePoint, period TimePeriod) float64 {
	if !IntervalOverlaps(start, end, period) {
		return 0
	}
	overlapStart := MaxTime(start, period.Start)
	overlapEnd := MinTime(end, period.End)
	return FractionalDaysBetween(overlapStart, overlapEnd)
}
