package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRepository records process runs and the plans they produced
type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, started_at, finished_at, input_source, categorize_mode, apply_mode,
	total_input, kept, discarded, plan_file, error`

// CreateRun inserts a new run, assigning an ID when none is set
func (r *RunRepository) CreateRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (id, started_at, input_source, categorize_mode, apply_mode)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.InputSource, run.CategorizeMode, run.ApplyMode)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the run counters and replaces its plan items
func (r *RunRepository) FinishRun(run *Run, items []RunPlanItem) error {
	if run.FinishedAt == nil {
		now := time.Now().UTC()
		run.FinishedAt = &now
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE runs
		SET finished_at = ?, input_source = ?, total_input = ?, kept = ?, discarded = ?, plan_file = ?
		WHERE id = ?
	`, run.FinishedAt.UTC(), run.InputSource, run.TotalInput, run.Kept, run.Discarded, run.PlanFile, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM run_plan_items WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("failed to clear plan items: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_plan_items (run_id, position, action, reason, bookmark_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare plan item insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.Exec(run.ID, i, item.Action, item.Reason, item.BookmarkID); err != nil {
			return fmt.Errorf("failed to store plan item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// FailRun marks a run as failed with the cause. Counters already stored are
// left untouched.
func (r *RunRepository) FailRun(id string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}

	res, err := r.db.Exec(`
		UPDATE runs
		SET finished_at = COALESCE(finished_at, ?), error = ?
		WHERE id = ?
	`, time.Now().UTC(), msg, id)
	if err != nil {
		return fmt.Errorf("failed to mark run as failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RunRepository) GetRun(id string) (*Run, error) {
	row := r.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// GetLatestRun returns the most recently started run that finished without
// error, or ErrNotFound
func (r *RunRepository) GetLatestRun() (*Run, error) {
	row := r.db.QueryRow(`SELECT ` + runColumns + ` FROM runs
		WHERE finished_at IS NOT NULL AND error = ''
		ORDER BY started_at DESC LIMIT 1`)
	return scanRun(row)
}

// ListRuns returns runs newest first
func (r *RunRepository) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func (r *RunRepository) GetPlanItems(runID string) ([]RunPlanItem, error) {
	rows, err := r.db.Query(`
		SELECT position, action, reason, bookmark_id
		FROM run_plan_items
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan items: %w", err)
	}
	defer rows.Close()

	items := []RunPlanItem{}
	for rows.Next() {
		var item RunPlanItem
		if err := rows.Scan(&item.Position, &item.Action, &item.Reason, &item.BookmarkID); err != nil {
			return nil, fmt.Errorf("failed to scan plan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*Run, error) {
	var run Run
	var finishedAt sql.NullTime

	err := s.Scan(&run.ID, &run.StartedAt, &finishedAt, &run.InputSource, &run.CategorizeMode,
		&run.ApplyMode, &run.TotalInput, &run.Kept, &run.Discarded, &run.PlanFile, &run.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
