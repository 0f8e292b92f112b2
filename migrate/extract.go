package migrate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/identity"
)

// =============================================================================
// TSV EXTRACTION - Parsed 2-D array to allocation periods
// =============================================================================

// WeekColumn maps one column of the source sheet to the Monday (or
// whatever day the sheet uses) that starts its week.
type WeekColumn struct {
	Index     int
	WeekStart engine.TimePoint
}

// ExtractConfig describes the column semantics of one source file. Which
// column holds the email and which hold week hours is a property of each
// migration, not of this package.
type ExtractConfig struct {
	HasHeader   bool
	EmailColumn int
	RoleColumn  int // -1 when the sheet has no role column
	ProjectName string
	Weeks       []WeekColumn

	// StandardWeek for hours-to-percent conversion; zero value means
	// StandardWeekHours.
	StandardWeek decimal.Decimal
}

// ExtractWeeklyAllocations converts a parsed TSV (a 2-D array of strings)
// into one AllocationPeriod per non-empty hours cell. Each record spans
// the 7 days of its week column, carries percent derived from hours, and
// gets a deterministic ID so repeated extraction runs are idempotent.
//
// Cells that are blank, zero, or unparsable are skipped; data quality is
// judged afterwards by the validate package, not here.
func ExtractWeeklyAllocations(rows [][]string, cfg ExtractConfig) []engine.AllocationPeriod {
	standard := cfg.StandardWeek
	if standard.IsZero() {
		standard = StandardWeekHours
	}

	start := 0
	if cfg.HasHeader && len(rows) > 0 {
		start = 1
	}

	projectID := identity.ProjectIDFromName(cfg.ProjectName)

	var out []engine.AllocationPeriod
	for _, row := range rows[start:] {
		if cfg.EmailColumn >= len(row) {
			continue
		}
		email := strings.TrimSpace(row[cfg.EmailColumn])
		if email == "" {
			continue
		}
		resourceID := identity.ResourceIDFromEmail(email)

		role := ""
		if cfg.RoleColumn >= 0 && cfg.RoleColumn < len(row) {
			role = strings.TrimSpace(row[cfg.RoleColumn])
		}

		for _, wc := range cfg.Weeks {
			if wc.Index >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[wc.Index])
			if cell == "" {
				continue
			}
			hours, err := decimal.NewFromString(cell)
			if err != nil || hours.IsZero() {
				continue
			}

			startDate := wc.WeekStart
			endDate := wc.WeekStart.AddDays(6)
			out = append(out, engine.AllocationPeriod{
				ID: identity.AllocationID(resourceID, projectID,
					startDate.String(), endDate.String()),
				ResourceID:        engine.ResourceID(resourceID),
				ProjectID:         engine.ProjectID(projectID),
				ProjectName:       cfg.ProjectName,
				StartDate:         startDate,
				EndDate:           endDate,
				PercentAllocation: HoursToPercent(hours, standard),
				HoursPerWeek:      hours,
				Role:              role,
			})
		}
	}
	return out
}
