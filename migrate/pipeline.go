package migrate

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/identity"
	"github.com/warp/capacity-engine/metrics"
	"github.com/warp/capacity-engine/validate"
)

// =============================================================================
// MIGRATION PIPELINE - strategy -> aggregate -> merge -> identity -> gate
// =============================================================================

// DefaultMaxPercent is the data-quality sanity bound on a single record's
// percent. It is a gate, not a clamp: multi-role percents above 100 are
// normal, percents above this are almost certainly unit confusion in the
// source sheet.
var DefaultMaxPercent = decimal.NewFromInt(1000)

// hoursTolerance bounds the conservation check across the pipeline.
var hoursTolerance = decimal.NewFromFloat(0.01)

// Pipeline composes the migration transforms and gates the output.
type Pipeline struct {
	Logger   zerolog.Logger
	Strategy Strategy

	// SplitToWeeks re-expands merged spans into weekly records, for
	// consumers that distribute hours into week buckets.
	SplitToWeeks bool

	SourceFile   string
	StandardWeek decimal.Decimal // zero value means StandardWeekHours
	MaxPercent   decimal.Decimal // zero value means DefaultMaxPercent
}

func NewPipeline(logger zerolog.Logger) *Pipeline {
	return &Pipeline{Logger: logger}
}

// Run transforms raw allocation records into a validated envelope. The
// returned Result accumulates every data-quality finding; Run itself never
// fails - the caller decides whether an invalid Result aborts persistence.
func (p *Pipeline) Run(records []engine.AllocationPeriod) (Envelope, validate.Result) {
	standard := p.StandardWeek
	if standard.IsZero() {
		standard = StandardWeekHours
	}

	sourceCount := len(records)

	// One-off business rules first, so their output participates in
	// aggregation and merging like any other record.
	shaped := p.Strategy.Apply(records)
	expectedHours := TotalComputedHours(shaped, standard)

	aggregated := AggregateRoles(shaped)
	merged := MergeConsecutive(aggregated)

	out := merged
	if p.SplitToWeeks {
		out = SplitAllWeekly(merged)
	}

	// Stable IDs from the identity key make repeated runs idempotent.
	for i := range out {
		out[i].ID = identity.AllocationID(
			string(out[i].ResourceID), string(out[i].ProjectID),
			out[i].StartDate.String(), out[i].EndDate.String())
	}

	report := p.gate(out, expectedHours, standard)

	reduction := 0.0
	if sourceCount > 0 {
		reduction = (1 - float64(len(out))/float64(sourceCount)) * 100
	}

	metrics.MigrationRecordsIn.Add(float64(sourceCount))
	metrics.MigrationRecordsOut.Add(float64(len(out)))
	metrics.MigrationReductionPercent.Set(reduction)
	metrics.ValidationErrorsTotal.Add(float64(len(report.Errors)))
	metrics.ValidationWarningsTotal.Add(float64(len(report.Warnings)))

	p.Logger.Info().
		Str("source_file", p.SourceFile).
		Int("records_in", sourceCount).
		Int("records_out", len(out)).
		Float64("reduction_percent", reduction).
		Bool("valid", report.IsValid).
		Msg("migration pipeline complete")

	return Envelope{
		Entities: out,
		Metadata: Metadata{
			SourceFile:       p.SourceFile,
			GeneratedAt:      time.Now().UTC(),
			SourceCount:      sourceCount,
			EntityCount:      len(out),
			ReductionPercent: reduction,
		},
	}, report
}

// gate runs the data-quality checks over pipeline output.
func (p *Pipeline) gate(out []engine.AllocationPeriod, expectedHours, standard decimal.Decimal) validate.Result {
	maxPercent := p.MaxPercent
	if maxPercent.IsZero() {
		maxPercent = DefaultMaxPercent
	}

	results := []validate.Result{
		validate.Sum(TotalComputedHours(out, standard), expectedHours, hoursTolerance, "total hours"),
	}

	ids := make([]string, 0, len(out))
	for i, rec := range out {
		ids = append(ids, rec.ID)
		label := fmt.Sprintf("entity %d", i)

		results = append(results,
			validate.RequiredFields(recordFields(rec),
				[]string{"id", "resource_id", "project_id", "start_date", "end_date"}),
			validate.UUIDField(rec.ID, label+" id"),
			validate.DateField(rec.StartDate.String(), label+" start_date"),
			validate.DateField(rec.EndDate.String(), label+" end_date"),
			validate.Range(rec.PercentAllocation, decimal.Zero, maxPercent, label+" percent_allocation"),
		)
		if rec.EndDate.Before(rec.StartDate) {
			results = append(results, validate.Invalid(
				fmt.Sprintf("%s: end_date %s before start_date %s", label, rec.EndDate, rec.StartDate)))
		}
	}
	results = append(results, validate.Unique(ids, "id"))

	return validate.Combine(results...).
		WithMetadata("entity_count", len(out))
}

func recordFields(p engine.AllocationPeriod) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"resource_id": string(p.ResourceID),
		"project_id":  string(p.ProjectID),
		"start_date":  p.StartDate.String(),
		"end_date":    p.EndDate.String(),
	}
}

// TotalComputedHours sums percentToHours(percent) x weeks over a
// collection. Merging must conserve this total exactly; the pipeline
// checks it within a 0.01 tolerance.
func TotalComputedHours(periods []engine.AllocationPeriod, standardWeek decimal.Decimal) decimal.Decimal {
	seven := decimal.NewFromInt(7)
	total := decimal.Zero
	for _, p := range periods {
		days := engine.DaysBetween(p.StartDate, p.EndDate) + 1
		weeks := decimal.NewFromInt(int64(days)).Div(seven)
		total = total.Add(PercentToHours(p.PercentAllocation, standardWeek).Mul(weeks))
	}
	return total
}
