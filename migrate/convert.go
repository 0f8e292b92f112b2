/*
Package migrate provides the algorithms used to compress, aggregate, and
regenerate allocation records during bulk data migrations.

PURPOSE:
  Source systems export one row per resource per week. Imported naively
  that is tens of thousands of records; most are identical week after
  week. This package shrinks them (MergeConsecutive), collapses concurrent
  multi-role rows (AggregateRoles), re-expands long spans when weekly
  granularity is needed (SplitWeekly), and converts between hours and
  percent-of-standard-week.

PIPELINE:
  extract -> strategy -> aggregate -> merge -> identity -> validate

  Every transform returns new records; inputs are never mutated. All
  transforms are pure, synchronous, and operate over fully materialized
  slices - total input size bounds memory, there is no streaming.

SEE ALSO:
  - merge.go: consecutive-period merging (temporal run-length encoding)
  - aggregate.go: multi-role aggregation
  - split.go: weekly splitting and the declarative split-strategy table
  - extract.go: TSV 2-D array extraction
  - pipeline.go: composition, envelope output, validation gating
*/
package migrate

import "github.com/shopspring/decimal"

// StandardWeekHours is the default full-time week used for hours/percent
// conversion. Callers with different standards pass their own value.
var StandardWeekHours = decimal.NewFromInt(40)

var hundred = decimal.NewFromInt(100)

// HoursToPercent converts weekly hours to a percent of the standard week,
// rounded to 2 decimals. Values above the standard week yield >100 percent
// (multi-role); negative inputs are not rejected.
func HoursToPercent(hours, standardWeek decimal.Decimal) decimal.Decimal {
	return hours.Div(standardWeek).Mul(hundred).Round(2)
}

// PercentToHours converts a percent of the standard week back to weekly
// hours. Exact inverse of HoursToPercent up to rounding.
func PercentToHours(percent, standardWeek decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred).Mul(standardWeek)
}
