/*
Package validate provides composable data-quality checks for migration
pipelines.

PURPOSE:
  The calculation engine trusts its inputs completely; this package is the
  gate in front of it. Every primitive returns a Result - never a Go error -
  and accumulates EVERY finding rather than stopping at the first. Callers
  decide whether a failed Result aborts the pipeline.

THE RESULT MONOID:
  Combine concatenates errors and warnings, merges metadata, and is valid
  iff every input is valid. Combining zero results yields a trivially valid
  Result. This makes validation plans composable: build small checks, fold
  them together, inspect one report.

USAGE:
  report := validate.Combine(
      validate.RequiredFields(rec, []string{"resource_id", "start_date"}),
      validate.UUIDField(rec["resource_id"].(string), "resource_id"),
      validate.DateField(rec["start_date"].(string), "start_date"),
  )
  if !report.IsValid {
      // abort, log report.Errors
  }
*/
package validate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/identity"
)

// Result is the outcome of one or more validation checks.
type Result struct {
	IsValid  bool           `json:"is_valid"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Valid returns the monoid identity: no findings, trivially valid.
func Valid() Result {
	return Result{IsValid: true}
}

// Invalid returns a failed result carrying the given errors.
func Invalid(errs ...string) Result {
	return Result{IsValid: false, Errors: errs}
}

// WithWarning appends a warning without affecting validity.
func (r Result) WithWarning(w string) Result {
	r.Warnings = append(r.Warnings, w)
	return r
}

// WithMetadata attaches a metadata entry.
func (r Result) WithMetadata(key string, value any) Result {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
	return r
}

// Combine folds results together: all errors and warnings concatenated,
// metadata merged (later entries win), valid iff every input is valid.
func Combine(results ...Result) Result {
	combined := Valid()
	for _, r := range results {
		if !r.IsValid {
			combined.IsValid = false
		}
		combined.Errors = append(combined.Errors, r.Errors...)
		combined.Warnings = append(combined.Warnings, r.Warnings...)
		for k, v := range r.Metadata {
			if combined.Metadata == nil {
				combined.Metadata = make(map[string]any)
			}
			combined.Metadata[k] = v
		}
	}
	return combined
}

// =============================================================================
// PRIMITIVES
// =============================================================================

// Sum checks that actual is within tolerance of expected.
func Sum(actual, expected, tolerance decimal.Decimal, label string) Result {
	diff := actual.Sub(expected).Abs()
	if diff.GreaterThan(tolerance) {
		return Invalid(fmt.Sprintf("%s: sum %s differs from expected %s by %s (tolerance %s)",
			label, actual, expected, diff, tolerance))
	}
	return Valid()
}

// RequiredFields checks that every named field is present and non-empty.
// A nil value and an empty string both count as missing.
func RequiredFields(record map[string]any, fields []string) Result {
	result := Valid()
	for _, f := range fields {
		v, ok := record[f]
		if !ok || v == nil || v == "" {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("missing required field: %s", f))
		}
	}
	return result
}

// UUIDField checks that value is a canonical RFC 4122 version-5 UUID.
func UUIDField(value, field string) Result {
	if !identity.IsUUIDv5(value) {
		return Invalid(fmt.Sprintf("%s: not a valid v5 UUID: %q", field, value))
	}
	return Valid()
}

// UUIDFields checks several UUID fields on one record.
func UUIDFields(record map[string]any, fields []string) Result {
	results := make([]Result, 0, len(fields))
	for _, f := range fields {
		s, _ := record[f].(string)
		results = append(results, UUIDField(s, f))
	}
	return Combine(results...)
}

// DateField checks strict YYYY-MM-DD shape and that the value is a real
// calendar date (leap years included).
func DateField(value, field string) Result {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return Invalid(fmt.Sprintf("%s: not a valid YYYY-MM-DD date: %q", field, value))
	}
	return Valid()
}

// Range checks min <= value <= max.
func Range(value, min, max decimal.Decimal, field string) Result {
	if value.LessThan(min) || value.GreaterThan(max) {
		return Invalid(fmt.Sprintf("%s: value %s outside range [%s, %s]", field, value, min, max))
	}
	return Valid()
}

// Unique checks for duplicate values, reporting EVERY duplicate.
func Unique(values []string, field string) Result {
	seen := make(map[string]int, len(values))
	for _, v := range values {
		seen[v]++
	}

	var dups []string
	for v, n := range seen {
		if n > 1 {
			dups = append(dups, fmt.Sprintf("%s: duplicate value %q (%d occurrences)", field, v, n))
		}
	}
	if len(dups) == 0 {
		return Valid()
	}
	sort.Strings(dups)
	return Invalid(dups...)
}

// ForeignKeys checks that every value is a member of the valid-ID set.
func ForeignKeys(values []string, validIDs map[string]struct{}, field string) Result {
	result := Valid()
	for _, v := range values {
		if _, ok := validIDs[v]; !ok {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: unknown reference %q", field, v))
		}
	}
	return result
}

// Count checks exact equality of a record count.
func Count(actual, expected int, label string) Result {
	if actual != expected {
		return Invalid(fmt.Sprintf("%s: expected %d records, found %d", label, expected, actual))
	}
	return Valid()
}
