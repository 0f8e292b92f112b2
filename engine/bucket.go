package engine

// =============================================================================
// TIME BUCKETER - Reporting-period generation
// =============================================================================

// Granularity is the bucketing unit for utilization reporting.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// ParseGranularity maps a query-string value to a Granularity.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return Granularity(s), true
	}
	return "", false
}

// GenerateTimePeriods produces an ordered, non-overlapping, contiguous
// sequence of TimePeriod covering exactly [rangeStart, rangeEnd).
//
// Daily advances one day; weekly advances seven days (label spans
// start..start+6); monthly advances to the first of the next calendar
// month. Any period whose computed end exceeds rangeEnd is clipped, which
// can yield a final short period.
//
// The caller guarantees rangeStart < rangeEnd; a degenerate range yields
// an empty sequence.
func GenerateTimePeriods(rangeStart, rangeEnd TimePoint, granularity Granularity) []TimePeriod {
	var periods []TimePeriod

	current := rangeStart
	for current.Before(rangeEnd) {
		var next TimePoint
		var label string

		switch granularity {
		case GranularityDaily:
			next = current.AddDays(1)
			label = current.Time.Format("Jan 2")
		case GranularityWeekly:
			next = current.AddDays(7)
			label = current.Time.Format("Jan 2") + " - " + current.AddDays(6).Time.Format("Jan 2")
		case GranularityMonthly:
			next = current.StartOfNextMonth()
			label = current.Time.Format("Jan 2006")
		default:
			return periods
		}

		end := MinTime(next, rangeEnd)
		periods = append(periods, TimePeriod{Start: current, End: end, Label: label})
		current = next
	}

	return periods
}
