package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"protocolo/internal/platform/database"
	"protocolo/internal/process/models"
	id "protocolo/pkg/domain"
)

const processColumns = `id, process_number, volume, department, entry_date, entry_time, exit_date, exit_time,
	destination, genre, species, object, contracted_party, recurring, priority, deadline_days,
	analyst, analysis_date, dispatch_number, observation, notice_sent, value, period, analysis_status,
	monitoring_cadence, monitoring_next_due, monitoring_status, created_at, updated_at`

// SQLStore persists processes through sqlx. The same queries serve Postgres
// and SQLite: placeholders are written as ? and rebound per driver.
type SQLStore struct {
	db sqlx.ExtContext
}

// NewSQL returns a store over a database handle.
func NewSQL(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// NewSQLTx returns a store bound to an open transaction.
func NewSQLTx(tx *sqlx.Tx) *SQLStore {
	return &SQLStore{db: tx}
}

func (s *SQLStore) Create(ctx context.Context, p *models.Process) error {
	query := `INSERT INTO processes (` + processColumns + `) VALUES (
		:id, :process_number, :volume, :department, :entry_date, :entry_time, :exit_date, :exit_time,
		:destination, :genre, :species, :object, :contracted_party, :recurring, :priority, :deadline_days,
		:analyst, :analysis_date, :dispatch_number, :observation, :notice_sent, :value, :period, :analysis_status,
		:monitoring_cadence, :monitoring_next_due, :monitoring_status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.db, query, p); err != nil {
		return fmt.Errorf("insert process: %w", database.ClassifyError(err))
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, p *models.Process) error {
	query := `UPDATE processes SET
		process_number = :process_number, volume = :volume, department = :department,
		entry_date = :entry_date, entry_time = :entry_time, exit_date = :exit_date, exit_time = :exit_time,
		destination = :destination, genre = :genre, species = :species, object = :object,
		contracted_party = :contracted_party, recurring = :recurring, priority = :priority,
		deadline_days = :deadline_days, analyst = :analyst, analysis_date = :analysis_date,
		dispatch_number = :dispatch_number, observation = :observation, notice_sent = :notice_sent,
		value = :value, period = :period, analysis_status = :analysis_status,
		monitoring_cadence = :monitoring_cadence, monitoring_next_due = :monitoring_next_due,
		monitoring_status = :monitoring_status, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, s.db, query, p)
	if err != nil {
		return fmt.Errorf("update process: %w", database.ClassifyError(err))
	}
	return requireAffected(res)
}

// Delete removes the process and its owned records. Children are deleted
// explicitly so the behaviour does not depend on the driver honouring cascades.
func (s *SQLStore) Delete(ctx context.Context, processID id.ProcessID) error {
	for _, table := range []string{"process_change_log", "monitoring_records"} {
		query := s.db.Rebind(`DELETE FROM ` + table + ` WHERE process_id = ?`)
		if _, err := s.db.ExecContext(ctx, query, processID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM processes WHERE id = ?`), processID)
	if err != nil {
		return fmt.Errorf("delete process: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLStore) FindByID(ctx context.Context, processID id.ProcessID) (*models.Process, error) {
	var p models.Process
	query := s.db.Rebind(`SELECT ` + processColumns + ` FROM processes WHERE id = ?`)
	if err := sqlx.GetContext(ctx, s.db, &p, query, processID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find process: %w", err)
	}
	return &p, nil
}

func (s *SQLStore) FindLatestByNumber(ctx context.Context, number string) (*models.Process, error) {
	var p models.Process
	query := s.db.Rebind(`SELECT ` + processColumns + ` FROM processes
		WHERE process_number = ?
		ORDER BY entry_date DESC, entry_time DESC
		LIMIT 1`)
	if err := sqlx.GetContext(ctx, s.db, &p, query, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find process by number: %w", err)
	}
	return &p, nil
}

func (s *SQLStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Process, error) {
	if filter.Genres != nil && len(filter.Genres) == 0 {
		return []*models.Process{}, nil
	}
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}
	order := ` ORDER BY entry_date ASC, priority ASC, created_at ASC`
	if filter.Closed {
		order = ` ORDER BY exit_date DESC, created_at ASC`
	}
	query := s.db.Rebind(`SELECT ` + processColumns + ` FROM processes WHERE ` + where + order)

	out := make([]*models.Process, 0)
	if err := sqlx.SelectContext(ctx, s.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return out, nil
}

func buildWhere(f models.ListFilter) (string, []any, error) {
	clauses := []string{"exit_date IS NULL"}
	if f.Closed {
		clauses[0] = "exit_date IS NOT NULL"
	}
	var args []any

	if f.Genres != nil {
		in, inArgs, err := sqlx.In(`genre IN (?)`, f.Genres)
		if err != nil {
			return "", nil, fmt.Errorf("build genre filter: %w", err)
		}
		clauses = append(clauses, in)
		args = append(args, inArgs...)
	}
	if f.Term != "" {
		like := "%" + strings.ToLower(f.Term) + "%"
		ors := make([]string, 0, len(termFields))
		for _, col := range termFields {
			ors = append(ors, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	eq := func(col string, v string) {
		if v != "" {
			clauses = append(clauses, col+" = ?")
			args = append(args, v)
		}
	}
	eq("priority", string(f.Priority))
	eq("genre", string(f.Genre))
	eq("species", f.Species)
	eq("monitoring_status", string(f.Monitoring))
	eq("analysis_status", string(f.AnalysisStatus))
	if f.ExitFrom != nil {
		clauses = append(clauses, "exit_date >= ?")
		args = append(args, *f.ExitFrom)
	}
	if f.ExitTo != nil {
		clauses = append(clauses, "exit_date <= ?")
		args = append(args, *f.ExitTo)
	}
	return strings.Join(clauses, " AND "), args, nil
}

func (s *SQLStore) ListByNumberAndSpecies(ctx context.Context, number string, species []string) ([]*models.Process, error) {
	out := make([]*models.Process, 0)
	if len(species) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+processColumns+` FROM processes
		WHERE process_number = ? AND species IN (?)
		ORDER BY created_at ASC`, number, species)
	if err != nil {
		return nil, fmt.Errorf("build supersession query: %w", err)
	}
	if err := sqlx.SelectContext(ctx, s.db, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list processes by number: %w", err)
	}
	return out, nil
}

func (s *SQLStore) AppendChanges(ctx context.Context, entries []*models.ChangeLogEntry) error {
	query := `INSERT INTO process_change_log (id, process_id, field, old_value, new_value, changed_at, changed_by)
		VALUES (:id, :process_id, :field, :old_value, :new_value, :changed_at, :changed_by)`
	for _, e := range entries {
		if _, err := sqlx.NamedExecContext(ctx, s.db, query, e); err != nil {
			return fmt.Errorf("insert change log entry: %w", database.ClassifyError(err))
		}
	}
	return nil
}

func (s *SQLStore) AppendMonitoringRecord(ctx context.Context, r *models.MonitoringRecord) error {
	query := `INSERT INTO monitoring_records (id, process_id, registered_at, note, recorded_by)
		VALUES (:id, :process_id, :registered_at, :note, :recorded_by)`
	if _, err := sqlx.NamedExecContext(ctx, s.db, query, r); err != nil {
		return fmt.Errorf("insert monitoring record: %w", database.ClassifyError(err))
	}
	return nil
}

func (s *SQLStore) ListChanges(ctx context.Context, processID id.ProcessID) ([]*models.ChangeLogEntry, error) {
	out := make([]*models.ChangeLogEntry, 0)
	query := s.db.Rebind(`SELECT id, process_id, field, old_value, new_value, changed_at, changed_by
		FROM process_change_log WHERE process_id = ? ORDER BY changed_at DESC`)
	if err := sqlx.SelectContext(ctx, s.db, &out, query, processID); err != nil {
		return nil, fmt.Errorf("list change log: %w", err)
	}
	return out, nil
}

func (s *SQLStore) ListMonitoringRecords(ctx context.Context, processID id.ProcessID) ([]*models.MonitoringRecord, error) {
	out := make([]*models.MonitoringRecord, 0)
	query := s.db.Rebind(`SELECT id, process_id, registered_at, note, recorded_by
		FROM monitoring_records WHERE process_id = ? ORDER BY registered_at DESC`)
	if err := sqlx.SelectContext(ctx, s.db, &out, query, processID); err != nil {
		return nil, fmt.Errorf("list monitoring records: %w", err)
	}
	return out, nil
}

func (s *SQLStore) DistinctGenres(ctx context.Context) ([]models.Genre, error) {
	out := make([]models.Genre, 0)
	if err := sqlx.SelectContext(ctx, s.db, &out, `SELECT DISTINCT genre FROM processes ORDER BY genre`); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return out, nil
}

func (s *SQLStore) DistinctSpecies(ctx context.Context, genres []models.Genre) ([]string, error) {
	out := make([]string, 0)
	if genres == nil {
		if err := sqlx.SelectContext(ctx, s.db, &out, `SELECT DISTINCT species FROM processes ORDER BY species`); err != nil {
			return nil, fmt.Errorf("list species: %w", err)
		}
		return out, nil
	}
	if len(genres) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT DISTINCT species FROM processes WHERE genre IN (?) ORDER BY species`, genres)
	if err != nil {
		return nil, fmt.Errorf("build species query: %w", err)
	}
	if err := sqlx.SelectContext(ctx, s.db, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	return out, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
