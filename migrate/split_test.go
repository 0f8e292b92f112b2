package migrate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/migrate"
)

// =============================================================================
// WEEKLY SPLITTING
// =============================================================================

func TestSplitWeekly_ClipsFinalWindow(t *testing.T) {
	// GIVEN: a 15-day span
	// THEN:  two full 7-day windows plus a 1-day remainder

	p := engine.AllocationPeriod{
		ID:                "original-id",
		ResourceID:        "r1",
		ProjectID:         "proj-a",
		StartDate:         engine.MustParseDate("2024-01-01"),
		EndDate:           engine.MustParseDate("2024-01-15"),
		PercentAllocation: decimal.NewFromInt(50),
		Role:              "Developer",
	}

	pieces := migrate.SplitWeekly(p)

	require.Len(t, pieces, 3)
	assert.Equal(t, "2024-01-01", pieces[0].StartDate.String())
	assert.Equal(t, "2024-01-07", pieces[0].EndDate.String())
	assert.Equal(t, "2024-01-08", pieces[1].StartDate.String())
	assert.Equal(t, "2024-01-14", pieces[1].EndDate.String())
	assert.Equal(t, "2024-01-15", pieces[2].StartDate.String())
	assert.Equal(t, "2024-01-15", pieces[2].EndDate.String())

	for _, piece := range pieces {
		assert.Empty(t, piece.ID, "split pieces get fresh IDs from the pipeline")
		assert.True(t, piece.PercentAllocation.Equal(p.PercentAllocation))
		assert.Equal(t, "Developer", piece.Role)
	}
}

func TestSplitWeekly_SingleWeekIsIdentityModuloID(t *testing.T) {
	p := engine.AllocationPeriod{
		ResourceID: "r1",
		ProjectID:  "proj-a",
		StartDate:  engine.MustParseDate("2024-01-01"),
		EndDate:    engine.MustParseDate("2024-01-07"),
	}

	pieces := migrate.SplitWeekly(p)

	require.Len(t, pieces, 1)
	assert.Equal(t, p, pieces[0])
}

func TestSplitWeekly_InvertsMerge(t *testing.T) {
	// Splitting a merged span reproduces the original weekly records
	// (minus IDs).
	weeks := consecutiveWeeks("r1", "proj-a", "2024-01-01", 8, 50)

	merged := migrate.MergeConsecutive(weeks)
	require.Len(t, merged, 1)

	split := migrate.SplitAllWeekly(merged)
	require.Len(t, split, 8)
	for i := range weeks {
		assert.Equal(t, weeks[i].StartDate, split[i].StartDate)
		assert.Equal(t, weeks[i].EndDate, split[i].EndDate)
	}
}

// =============================================================================
// SPLIT STRATEGY
// =============================================================================

func TestStrategy_SplitsMatchedAllocationAcrossShares(t *testing.T) {
	// GIVEN: a rule splitting a shared account's bookings 60/40 across two
	//        real people
	strategy := migrate.Strategy{
		{
			Match: migrate.Match{ResourceID: "shared-account"},
			Shares: []migrate.Share{
				{ResourceID: "alice", Fraction: decimal.NewFromFloat(0.6)},
				{ResourceID: "bob", Fraction: decimal.NewFromFloat(0.4), Role: "Support"},
			},
		},
	}

	input := []engine.AllocationPeriod{
		roleAlloc("shared-account", "proj-a", "2024-01-01", "2024-01-07", "Developer", 100),
		roleAlloc("carol", "proj-a", "2024-01-01", "2024-01-07", "Developer", 50),
	}

	out := strategy.Apply(input)

	require.Len(t, out, 3)

	assert.Equal(t, engine.ResourceID("alice"), out[0].ResourceID)
	assert.True(t, out[0].PercentAllocation.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "Developer", out[0].Role, "empty share role keeps the original")

	assert.Equal(t, engine.ResourceID("bob"), out[1].ResourceID)
	assert.True(t, out[1].PercentAllocation.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "Support", out[1].Role)

	assert.Equal(t, input[1], out[2], "unmatched records pass through")
}

func TestStrategy_FirstMatchingRuleWins(t *testing.T) {
	strategy := migrate.Strategy{
		{
			Match:  migrate.Match{ResourceID: "r1", ProjectID: "proj-a"},
			Shares: []migrate.Share{{ResourceID: "specific", Fraction: decimal.NewFromInt(1)}},
		},
		{
			Match:  migrate.Match{ResourceID: "r1"},
			Shares: []migrate.Share{{ResourceID: "general", Fraction: decimal.NewFromInt(1)}},
		},
	}

	out := strategy.Apply([]engine.AllocationPeriod{
		roleAlloc("r1", "proj-a", "2024-01-01", "2024-01-07", "", 50),
		roleAlloc("r1", "proj-b", "2024-01-01", "2024-01-07", "", 50),
	})

	require.Len(t, out, 2)
	assert.Equal(t, engine.ResourceID("specific"), out[0].ResourceID)
	assert.Equal(t, engine.ResourceID("general"), out[1].ResourceID)
}

func TestStrategy_EmptyStrategyIsIdentity(t *testing.T) {
	input := []engine.AllocationPeriod{
		roleAlloc("r1", "proj-a", "2024-01-01", "2024-01-07", "", 50),
	}
	out := migrate.Strategy(nil).Apply(input)
	assert.Equal(t, input, out)
}

func TestStrategy_UnitFractionsConserveHours(t *testing.T) {
	strategy := migrate.Strategy{
		{
			Match: migrate.Match{ProjectID: "proj-a"},
			Shares: []migrate.Share{
				{ResourceID: "a", Fraction: decimal.NewFromFloat(0.5)},
				{ResourceID: "b", Fraction: decimal.NewFromFloat(0.25)},
				{ResourceID: "c", Fraction: decimal.NewFromFloat(0.25)},
			},
		},
	}

	input := []engine.AllocationPeriod{
		roleAlloc("team", "proj-a", "2024-01-01", "2024-01-14", "", 100),
	}

	before := migrate.TotalComputedHours(input, migrate.StandardWeekHours)
	after := migrate.TotalComputedHours(strategy.Apply(input), migrate.StandardWeekHours)

	diff := before.Sub(after).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"hours before %s, after %s", before, after)
}
