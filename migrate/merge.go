package migrate

import (
	"sort"

	"github.com/warp/capacity-engine/engine"
)

// =============================================================================
// CONSECUTIVE-PERIOD MERGER - Run-length encoding over time
// =============================================================================

// MergeConsecutive fuses consecutive periods for the same
// (resource, project, percent) into single spans: when a period ends the
// day before the next one starts, the two become one record covering both
// ranges.
//
// Guarantees:
//   - Idempotent: merging the output again is a no-op.
//   - Conservative: the union of day-ranges and the total of
//     hoursPerWeek x weeks are preserved exactly.
//   - Non-transitive across value changes: a different resource, project,
//     or percent each independently blocks a merge.
//
// Input order does not matter; output is sorted by
// (resource, project, startDate). O(n log n).
func MergeConsecutive(periods []engine.AllocationPeriod) []engine.AllocationPeriod {
	if len(periods) == 0 {
		return nil
	}

	sorted := make([]engine.AllocationPeriod, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ResourceID != b.ResourceID {
			return a.ResourceID < b.ResourceID
		}
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.StartDate.Before(b.StartDate)
	})

	merged := make([]engine.AllocationPeriod, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if mergeable(current, next) {
			current.EndDate = next.EndDate
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}

// mergeable reports whether b directly continues a with the same identity
// and percent. Adjacency means a ends the calendar day before b starts.
func mergeable(a, b engine.AllocationPeriod) bool {
	return a.ResourceID == b.ResourceID &&
		a.ProjectID == b.ProjectID &&
		a.PercentAllocation.Equal(b.PercentAllocation) &&
		a.EndDate.AddDays(1).Equal(b.StartDate)
}
