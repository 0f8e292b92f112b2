package migrate

import (
	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/engine"
)

// =============================================================================
// PERIOD SPLITTER - Inverse of merging
// =============================================================================

// SplitWeekly walks a single allocation from its start date in fixed 7-day
// windows, producing one record per window with the final window clipped
// to the original end date. Percent, role, and notes are preserved on
// every piece. IDs are cleared; the pipeline reassigns deterministic ones.
//
// Used to normalize long spans back to weekly granularity for hour-bucket
// distribution.
func SplitWeekly(p engine.AllocationPeriod) []engine.AllocationPeriod {
	var out []engine.AllocationPeriod

	current := p.StartDate
	for current.BeforeOrEqual(p.EndDate) {
		piece := p
		piece.ID = ""
		piece.StartDate = current
		piece.EndDate = engine.MinTime(current.AddDays(6), p.EndDate)
		out = append(out, piece)
		current = current.AddDays(7)
	}
	return out
}

// SplitAllWeekly applies SplitWeekly across a whole collection.
func SplitAllWeekly(periods []engine.AllocationPeriod) []engine.AllocationPeriod {
	var out []engine.AllocationPeriod
	for _, p := range periods {
		out = append(out, SplitWeekly(p)...)
	}
	return out
}

// =============================================================================
// ALLOCATION-SPLIT STRATEGY - Declarative per-source business rules
// =============================================================================
//
// Source data sometimes needs one-off redistribution: a named build team's
// hours split six ways, one person's rows booked under a shared account.
// Rather than literal branches keyed on email strings inside migration
// scripts, those rules are expressed as data: a table of
// {match predicate -> split policy} applied uniformly by the pipeline.

// Match selects allocations by resource and/or project. A zero field
// matches anything.
type Match struct {
	ResourceID engine.ResourceID
	ProjectID  engine.ProjectID
}

func (m Match) matches(p engine.AllocationPeriod) bool {
	if m.ResourceID != "" && m.ResourceID != p.ResourceID {
		return false
	}
	if m.ProjectID != "" && m.ProjectID != p.ProjectID {
		return false
	}
	return true
}

// Share is one recipient of a split: Fraction of the matched allocation's
// percent and hours is reassigned to ResourceID. Fractions across a rule's
// shares should sum to 1 to conserve hours; the pipeline's conservation
// check catches rules that don't.
type Share struct {
	ResourceID engine.ResourceID
	Fraction   decimal.Decimal
	Role       string // optional override; empty keeps the original role
}

// Rule binds a match predicate to its split policy.
type Rule struct {
	Match  Match
	Shares []Share
}

// Strategy is an ordered rule table; the first matching rule wins.
type Strategy []Rule

// Apply rewrites the collection: each matched allocation is replaced by
// one record per share, everything else passes through unchanged.
func (s Strategy) Apply(periods []engine.AllocationPeriod) []engine.AllocationPeriod {
	if len(s) == 0 {
		return periods
	}

	out := make([]engine.AllocationPeriod, 0, len(periods))
	for _, p := range periods {
		rule, ok := s.ruleFor(p)
		if !ok {
			out = append(out, p)
			continue
		}
		for _, share := range rule.Shares {
			piece := p
			piece.ID = ""
			piece.ResourceID = share.ResourceID
			piece.PercentAllocation = p.PercentAllocation.Mul(share.Fraction).Round(2)
			piece.HoursPerWeek = p.HoursPerWeek.Mul(share.Fraction).Round(2)
			if share.Role != "" {
				piece.Role = share.Role
			}
			out = append(out, piece)
		}
	}
	return out
}

func (s Strategy) ruleFor(p engine.AllocationPeriod) (Rule, bool) {
	for _, r := range s {
		if r.Match.matches(p) {
			return r, true
		}
	}
	return Rule{}, false
}
