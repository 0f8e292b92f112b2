/*
Package sqlite provides a SQLite-backed implementation of engine.Store.

PURPOSE:
  Persists the materialized collections the engine computes over:
  resources, allocation periods, availability histories, and
  unavailability periods. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

IDEMPOTENT IMPORTS:
  Allocation periods carry deterministic v5 UUIDs as primary keys, so
  migration output is written with INSERT OR REPLACE: re-running the same
  import converges instead of duplicating.

KEY TABLES:
  resources:              Resource directory
  allocation_periods:     Time-bounded project allocations
  availability_records:   Weekly-hours baseline history
  unavailability_periods: Vacation, sick leave, training, holidays

DATE STORAGE:
  Dates are stored as ISO YYYY-MM-DD TEXT, which makes lexicographic
  comparison equivalent to date comparison in range queries. Decimal
  quantities are stored as TEXT to avoid float drift.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, a single writer at a time.

USAGE:
  store, err := sqlite.New("./data/capacity.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: Interface definition
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/migrate"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time check that Store implements engine.Store.
var _ engine.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT
	);

	CREATE TABLE IF NOT EXISTS allocation_periods (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		project_name TEXT,
		project_color TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		percent_allocation TEXT NOT NULL,
		hours_per_week TEXT NOT NULL,
		role TEXT,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_allocations_resource_dates
		ON allocation_periods(resource_id, start_date, end_date);

	CREATE TABLE IF NOT EXISTS availability_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		resource_id TEXT NOT NULL,
		effective_from TEXT NOT NULL,
		effective_to TEXT,
		hours_per_day TEXT NOT NULL,
		days_per_week TEXT NOT NULL,
		total_hours_per_week TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_availability_resource
		ON availability_records(resource_id, effective_from);

	CREATE TABLE IF NOT EXISTS unavailability_periods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		resource_id TEXT NOT NULL,
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		description TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_unavailability_resource_dates
		ON unavailability_periods(resource_id, start_date, end_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WRITES
// =============================================================================

// SaveResource upserts a directory entry.
func (s *Store) SaveResource(ctx context.Context, r engine.Resource) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO resources (id, name, email) VALUES (?, ?, ?)`,
		string(r.ID), r.Name, r.Email)
	return err
}

// SaveAllocation upserts by deterministic ID, making imports idempotent.
func (s *Store) SaveAllocation(ctx context.Context, a engine.AllocationPeriod) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO allocation_periods
		(id, resource_id, project_id, project_name, project_color,
		 start_date, end_date, percent_allocation, hours_per_week, role, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.ResourceID), string(a.ProjectID), a.ProjectName, a.ProjectColor,
		a.StartDate.String(), a.EndDate.String(),
		a.PercentAllocation.String(), a.HoursPerWeek.String(), a.Role, a.Notes)
	return err
}

// SaveAvailability appends an availability history record.
func (s *Store) SaveAvailability(ctx context.Context, r engine.AvailabilityRecord) error {
	var effectiveTo any
	if r.EffectiveTo != nil {
		effectiveTo = r.EffectiveTo.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO availability_records
		(resource_id, effective_from, effective_to, hours_per_day, days_per_week, total_hours_per_week)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(r.ResourceID), r.EffectiveFrom.String(), effectiveTo,
		r.HoursPerDay.String(), r.DaysPerWeek.String(), r.TotalHoursPerWeek.String())
	return err
}

// SaveUnavailability appends an unavailability period.
func (s *Store) SaveUnavailability(ctx context.Context, u engine.UnavailabilityPeriod) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unavailability_periods
		(resource_id, type, start_date, end_date, description)
		VALUES (?, ?, ?, ?, ?)`,
		string(u.ResourceID), string(u.Type), u.StartDate.String(), u.EndDate.String(), u.Description)
	return err
}

// ImportEnvelope persists a migration envelope in one transaction.
// Deterministic IDs make repeated imports converge.
func (s *Store) ImportEnvelope(ctx context.Context, env migrate.Envelope) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO allocation_periods
		(id, resource_id, project_id, project_name, project_color,
		 start_date, end_date, percent_allocation, hours_per_week, role, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range env.Entities {
		if _, err := stmt.ExecContext(ctx,
			a.ID, string(a.ResourceID), string(a.ProjectID), a.ProjectName, a.ProjectColor,
			a.StartDate.String(), a.EndDate.String(),
			a.PercentAllocation.String(), a.HoursPerWeek.String(), a.Role, a.Notes); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// engine.Store
// =============================================================================

func (s *Store) Resources(ctx context.Context) ([]engine.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, COALESCE(email, '') FROM resources ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Resource
	for rows.Next() {
		var r engine.Resource
		var id string
		if err := rows.Scan(&id, &r.Name, &r.Email); err != nil {
			return nil, err
		}
		r.ID = engine.ResourceID(id)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Resource(ctx context.Context, id engine.ResourceID) (engine.Resource, error) {
	var r engine.Resource
	var rid string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(email, '') FROM resources WHERE id = ?`, string(id)).
		Scan(&rid, &r.Name, &r.Email)
	if err == sql.ErrNoRows {
		return engine.Resource{}, engine.ErrResourceNotFound
	}
	if err != nil {
		return engine.Resource{}, err
	}
	r.ID = engine.ResourceID(rid)
	return r, nil
}

func (s *Store) AllocationsInRange(ctx context.Context, id engine.ResourceID, from, to engine.TimePoint) ([]engine.AllocationPeriod, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resource_id, project_id, COALESCE(project_name, ''), COALESCE(project_color, ''),
		       start_date, end_date, percent_allocation, hours_per_week,
		       COALESCE(role, ''), COALESCE(notes, '')
		FROM allocation_periods
		WHERE resource_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date`,
		string(id), to.String(), from.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.AllocationPeriod
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) AvailabilityHistory(ctx context.Context, id engine.ResourceID) ([]engine.AvailabilityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_id, effective_from, effective_to,
		       hours_per_day, days_per_week, total_hours_per_week
		FROM availability_records
		WHERE resource_id = ?
		ORDER BY effective_from`,
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.AvailabilityRecord
	for rows.Next() {
		var r engine.AvailabilityRecord
		var rid, effectiveFrom, hoursPerDay, daysPerWeek, totalHours string
		var effectiveTo sql.NullString
		if err := rows.Scan(&rid, &effectiveFrom, &effectiveTo, &hoursPerDay, &daysPerWeek, &totalHours); err != nil {
			return nil, err
		}
		r.ResourceID = engine.ResourceID(rid)
		if r.EffectiveFrom, err = engine.ParseDate(effectiveFrom); err != nil {
			return nil, err
		}
		if effectiveTo.Valid {
			tp, err := engine.ParseDate(effectiveTo.String)
			if err != nil {
				return nil, err
			}
			r.EffectiveTo = &tp
		}
		if r.HoursPerDay, err = decimal.NewFromString(hoursPerDay); err != nil {
			return nil, err
		}
		if r.DaysPerWeek, err = decimal.NewFromString(daysPerWeek); err != nil {
			return nil, err
		}
		if r.TotalHoursPerWeek, err = decimal.NewFromString(totalHours); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UnavailabilityInRange(ctx context.Context, id engine.ResourceID, from, to engine.TimePoint) ([]engine.UnavailabilityPeriod, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_id, type, start_date, end_date, COALESCE(description, '')
		FROM unavailability_periods
		WHERE resource_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date`,
		string(id), to.String(), from.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.UnavailabilityPeriod
	for rows.Next() {
		var u engine.UnavailabilityPeriod
		var rid, utype, startDate, endDate string
		if err := rows.Scan(&rid, &utype, &startDate, &endDate, &u.Description); err != nil {
			return nil, err
		}
		u.ResourceID = engine.ResourceID(rid)
		u.Type = engine.UnavailabilityType(utype)
		if u.StartDate, err = engine.ParseDate(startDate); err != nil {
			return nil, err
		}
		if u.EndDate, err = engine.ParseDate(endDate); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanAllocation(rows *sql.Rows) (engine.AllocationPeriod, error) {
	var a engine.AllocationPeriod
	var rid, pid, startDate, endDate, percent, hours string
	if err := rows.Scan(&a.ID, &rid, &pid, &a.ProjectName, &a.ProjectColor,
		&startDate, &endDate, &percent, &hours, &a.Role, &a.Notes); err != nil {
		return a, err
	}
	a.ResourceID = engine.ResourceID(rid)
	a.ProjectID = engine.ProjectID(pid)

	var err error
	if a.StartDate, err = engine.ParseDate(startDate); err != nil {
		return a, err
	}
	if a.EndDate, err = engine.ParseDate(endDate); err != nil {
		return a, err
	}
	if a.PercentAllocation, err = decimal.NewFromString(percent); err != nil {
		return a, err
	}
	if a.HoursPerWeek, err = decimal.NewFromString(hours); err != nil {
		return a, err
	}
	return a, nil
}
