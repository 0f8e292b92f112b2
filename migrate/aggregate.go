package migrate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/engine"
)

// =============================================================================
// MULTI-ROLE AGGREGATOR
// =============================================================================

type aggregateKey struct {
	resource engine.ResourceID
	project  engine.ProjectID
	start    string
	end      string
}

// AggregateRoles collapses concurrent multi-role assignments: records
// sharing the exact (resource, project, startDate, endDate) key become a
// single allocation whose percent and hoursPerWeek are the sums over the
// group, whose role is the non-empty roles joined with ", ", and whose
// notes record the group size. The summed percent may exceed 100; that is
// the point, not an error.
//
// Groups of size 1 pass through unchanged. First-appearance order of keys
// is preserved.
func AggregateRoles(periods []engine.AllocationPeriod) []engine.AllocationPeriod {
	groups := make(map[aggregateKey][]engine.AllocationPeriod, len(periods))
	var order []aggregateKey

	for _, p := range periods {
		k := aggregateKey{p.ResourceID, p.ProjectID, p.StartDate.String(), p.EndDate.String()}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], p)
	}

	out := make([]engine.AllocationPeriod, 0, len(order))
	for _, k := range order {
		group := groups[k]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		out = append(out, aggregateGroup(group))
	}
	return out
}

func aggregateGroup(group []engine.AllocationPeriod) engine.AllocationPeriod {
	combined := group[0]

	percent := decimal.Zero
	hours := decimal.Zero
	var roles []string
	for _, p := range group {
		percent = percent.Add(p.PercentAllocation)
		hours = hours.Add(p.HoursPerWeek)
		if p.Role != "" {
			roles = append(roles, p.Role)
		}
	}

	combined.PercentAllocation = percent.Round(2)
	combined.HoursPerWeek = hours
	combined.Role = strings.Join(roles, ", ")
	combined.Notes = fmt.Sprintf("Aggregated from %d roles", len(group))
	return combined
}
