package migrate_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/identity"
	"github.com/warp/capacity-engine/migrate"
)

// sheetConfig mirrors a typical export: header row, email in column 0,
// role in column 1, four week columns.
func sheetConfig() migrate.ExtractConfig {
	return migrate.ExtractConfig{
		HasHeader:   true,
		EmailColumn: 0,
		RoleColumn:  1,
		ProjectName: "Platform Rebuild",
		Weeks: []migrate.WeekColumn{
			{Index: 2, WeekStart: engine.MustParseDate("2024-01-01")},
			{Index: 3, WeekStart: engine.MustParseDate("2024-01-08")},
			{Index: 4, WeekStart: engine.MustParseDate("2024-01-15")},
			{Index: 5, WeekStart: engine.MustParseDate("2024-01-22")},
		},
	}
}

func sheetRows() [][]string {
	return [][]string{
		{"Email", "Role", "W1", "W2", "W3", "W4"},
		{"alice@example.com", "Developer", "20", "20", "20", "20"},
		{"bob@example.com", "Tech Lead", "40", "40", "", "40"},
		{"", "Ghost", "40", "40", "40", "40"}, // no email, skipped
		{"carol@example.com", "QA", "0", "x", "8", ""},
	}
}

// =============================================================================
// EXTRACTION
// =============================================================================

func TestExtractWeeklyAllocations(t *testing.T) {
	records := migrate.ExtractWeeklyAllocations(sheetRows(), sheetConfig())

	// alice 4 weeks + bob 3 weeks + carol 1 week; blanks, zeros, and
	// unparsable cells skipped.
	require.Len(t, records, 8)

	first := records[0]
	assert.Equal(t, identity.ResourceIDFromEmail("alice@example.com"), string(first.ResourceID))
	assert.Equal(t, "Platform Rebuild", first.ProjectName)
	assert.Equal(t, "Developer", first.Role)
	assert.Equal(t, "2024-01-01", first.StartDate.String())
	assert.Equal(t, "2024-01-07", first.EndDate.String())
	assert.True(t, first.PercentAllocation.Equal(decimal.NewFromInt(50)))
	assert.True(t, identity.IsUUIDv5(first.ID))
}

func TestExtractWeeklyAllocations_NoRoleColumn(t *testing.T) {
	cfg := sheetConfig()
	cfg.RoleColumn = -1

	records := migrate.ExtractWeeklyAllocations(sheetRows(), cfg)

	require.NotEmpty(t, records)
	for _, r := range records {
		assert.Empty(t, r.Role)
	}
}

// =============================================================================
// PIPELINE
// =============================================================================

func TestPipeline_Run(t *testing.T) {
	// GIVEN: extracted weekly records
	// WHEN:  the pipeline aggregates, merges, and validates them
	// THEN:  the envelope is valid, smaller than the input, and carries
	//        honest metadata

	records := migrate.ExtractWeeklyAllocations(sheetRows(), sheetConfig())

	p := migrate.NewPipeline(zerolog.Nop())
	p.SourceFile = "platform_rebuild.tsv"

	env, report := p.Run(records)

	assert.True(t, report.IsValid, "errors: %v", report.Errors)
	assert.Equal(t, "platform_rebuild.tsv", env.Metadata.SourceFile)
	assert.Equal(t, len(records), env.Metadata.SourceCount)
	assert.Equal(t, len(env.Entities), env.Metadata.EntityCount)
	assert.Less(t, len(env.Entities), len(records), "merging must shrink the set")
	assert.Greater(t, env.Metadata.ReductionPercent, 0.0)
	assert.False(t, env.Metadata.GeneratedAt.IsZero())

	for _, e := range env.Entities {
		assert.True(t, identity.IsUUIDv5(e.ID))
	}
}

func TestPipeline_Run_DeterministicIDs(t *testing.T) {
	// Two runs over the same source produce identical entity IDs, so
	// re-importing is idempotent.
	records := migrate.ExtractWeeklyAllocations(sheetRows(), sheetConfig())

	p := migrate.NewPipeline(zerolog.Nop())
	first, _ := p.Run(records)
	second, _ := p.Run(records)

	require.Equal(t, len(first.Entities), len(second.Entities))
	for i := range first.Entities {
		assert.Equal(t, first.Entities[i].ID, second.Entities[i].ID)
	}
}

func TestPipeline_Run_GateRejectsBadPercent(t *testing.T) {
	bad := roleAlloc("r1", "proj-a", "2024-01-01", "2024-01-07", "", -50)

	p := migrate.NewPipeline(zerolog.Nop())
	_, report := p.Run([]engine.AllocationPeriod{bad})

	assert.False(t, report.IsValid)
	require.NotEmpty(t, report.Errors)
}

func TestPipeline_Run_GateRejectsInvertedDates(t *testing.T) {
	bad := roleAlloc("r1", "proj-a", "2024-01-07", "2024-01-01", "", 50)

	p := migrate.NewPipeline(zerolog.Nop())
	_, report := p.Run([]engine.AllocationPeriod{bad})

	assert.False(t, report.IsValid)
}

func TestPipeline_Run_StrategyThenSplit(t *testing.T) {
	// A shared-account rule plus weekly re-expansion: the whole pipeline
	// end to end.
	p := migrate.NewPipeline(zerolog.Nop())
	p.SplitToWeeks = true
	p.Strategy = migrate.Strategy{
		{
			Match: migrate.Match{ResourceID: "build-team"},
			Shares: []migrate.Share{
				{ResourceID: "alice", Fraction: decimal.NewFromFloat(0.5)},
				{ResourceID: "bob", Fraction: decimal.NewFromFloat(0.5)},
			},
		},
	}

	input := []engine.AllocationPeriod{
		roleAlloc("build-team", "proj-a", "2024-01-01", "2024-01-14", "Engineer", 100),
	}

	env, report := p.Run(input)

	assert.True(t, report.IsValid, "errors: %v", report.Errors)
	// 2 shares x 2 weeks
	require.Len(t, env.Entities, 4)
	for _, e := range env.Entities {
		assert.True(t, e.PercentAllocation.Equal(decimal.NewFromInt(50)))
		assert.True(t, identity.IsUUIDv5(e.ID))
	}
}

func TestPipeline_Run_EmptyInput(t *testing.T) {
	p := migrate.NewPipeline(zerolog.Nop())
	env, report := p.Run(nil)

	assert.True(t, report.IsValid)
	assert.Empty(t, env.Entities)
	assert.Zero(t, env.Metadata.ReductionPercent)
}
