package engine

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar date abstraction (this IS a calendar-date system)
// =============================================================================

// TimePoint is a calendar date at day granularity, always UTC midnight.
// All allocation, availability, and unavailability boundaries are dates;
// sub-day precision only appears in duration arithmetic, never in storage.
type TimePoint struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict ISO YYYY-MM-DD date.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return TimePoint{Time: t}, nil
}

// MustParseDate panics on malformed input. Intended for literals in tests
// and scenario fixtures, never for external data.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

func Today() TimePoint {
	now := time.Now().UTC()
	return NewTimePoint(now.Year(), now.Month(), now.Day())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }
func (tp TimePoint) IsZero() bool                       { return tp.Time.IsZero() }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, n, 0)} }

// StartOfNextMonth returns the first day of the following calendar month.
func (tp TimePoint) StartOfNextMonth() TimePoint {
	return NewTimePoint(tp.Time.Year(), tp.Time.Month()+1, 1)
}

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }

func (tp TimePoint) String() string { return tp.Time.Format(dateLayout) }

// MarshalJSON encodes as "YYYY-MM-DD".
func (tp TimePoint) MarshalJSON() ([]byte, error) {
	return []byte(`"` + tp.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" only.
func (tp *TimePoint) UnmarshalJSON(data []byte) error {
	t, err := time.Parse(`"`+dateLayout+`"`, string(data))
	if err != nil {
		return err
	}
	tp.Time = t
	return nil
}

// Min and Max clamp helpers used by overlap clipping.
func MinTime(a, b TimePoint) TimePoint {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxTime(a, b TimePoint) TimePoint {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// DURATION ARITHMETIC
// =============================================================================

// DaysBetween returns whole days from one date to another.
func DaysBetween(from, to TimePoint) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// FractionalDaysBetween returns the signed duration between two points in
// days, without rounding. Overlap durations are fractional by contract.
func FractionalDaysBetween(from, to TimePoint) float64 {
	return to.Time.Sub(from.Time).Hours() / 24
}
