package hitboxdb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Run lifecycle statuses as stored in the runs table.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Run is one persisted decomposition run.
type Run struct {
	RunID       string `json:"run_id"`
	MeshName    string `json:"mesh_name"`
	Tier        string `json:"tier"`
	ParamsJSON  string `json:"params_json,omitempty"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	VertexCount int    `json:"vertex_count"`
	BoxCount    int    `json:"box_count"`
	DurationMS  int64  `json:"duration_ms"`
	StartedAt   int64  `json:"started_at"`
	FinishedAt  int64  `json:"finished_at,omitempty"`
}

// RunStore provides persistence for decomposition run history.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore on an already-migrated database.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB}
}

// InsertRun records a newly started run with status "running".
func (s *RunStore) InsertRun(run *Run) error {
	if run.RunID == "" {
		return errors.New("run_id required")
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().UnixNano()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO runs (
				run_id, mesh_name, tier, params_json, status, error,
				vertex_count, box_count, duration_ms, started_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.MeshName, run.Tier, run.ParamsJSON, run.Status, run.Error,
			run.VertexCount, run.BoxCount, run.DurationMS, run.StartedAt,
		)
		return err
	})
}

// CompleteRun marks a run completed with its result stats.
func (s *RunStore) CompleteRun(runID string, boxCount int, duration time.Duration) error {
	return s.finish(runID, StatusCompleted, "", boxCount, duration.Milliseconds())
}

// CancelRun marks a run cancelled.
func (s *RunStore) CancelRun(runID string) error {
	return s.finish(runID, StatusCancelled, "", 0, 0)
}

// FailRun marks a run failed with the given reason.
func (s *RunStore) FailRun(runID, reason string) error {
	return s.finish(runID, StatusFailed, reason, 0, 0)
}

func (s *RunStore) finish(runID, status, reason string, boxCount int, durationMS int64) error {
	return retryOnBusy(func() error {
		res, err := s.db.Exec(`
			UPDATE runs
			SET status = ?, error = ?, box_count = ?, duration_ms = ?, finished_at = ?
			WHERE run_id = ?`,
			status, reason, boxCount, durationMS, time.Now().UnixNano(), runID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("run %s not found", runID)
		}
		return nil
	})
}

// GetRun returns a single run by ID, or nil if it does not exist.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, mesh_name, tier, params_json, status, error,
		       vertex_count, box_count, duration_ms, started_at, finished_at
		FROM runs
		WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// ListRuns returns up to limit runs, most recently started first. A
// non-positive limit returns all runs.
func (s *RunStore) ListRuns(limit int) ([]*Run, error) {
	q := `
		SELECT run_id, mesh_name, tier, params_json, status, error,
		       vertex_count, box_count, duration_ms, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var finished sql.NullInt64
	err := row.Scan(
		&r.RunID, &r.MeshName, &r.Tier, &r.ParamsJSON, &r.Status, &r.Error,
		&r.VertexCount, &r.BoxCount, &r.DurationMS, &r.StartedAt, &finished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.FinishedAt = finished.Int64
	return &r, nil
}

// retryOnBusy retries a write a few times when SQLite reports the
// database is locked by another connection.
func retryOnBusy(fn func() error) error {
	const attempts = 5
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 10 * time.Millisecond)
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
