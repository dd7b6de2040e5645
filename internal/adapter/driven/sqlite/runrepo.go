package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunStore = (*RunRepo)(nil)

// RunRepo is the SQLite implementation of the RunStore port interface.
// Successful responses are stored verbatim as JSON text.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new RunRepo backed by the given DB.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

const runColumns = `id, source_id, status, error, response, requested_at, finished_at`

// Create inserts a run in the requested status.
func (r *RunRepo) Create(ctx context.Context, run model.ReplicationRun) error {
	if run.ID == "" {
		return errors.New("create replication run: id is required")
	}

	requestedAt := run.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now()
	}

	const query = `INSERT INTO replication_runs (id, source_id, status, requested_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query, run.ID, run.SourceID, string(model.RunStatusRequested), formatTime(requestedAt))
	if err != nil {
		return fmt.Errorf("create replication run %s: %w", run.ID, err)
	}
	return nil
}

// Finish records the terminal status of a requested run.
func (r *RunRepo) Finish(ctx context.Context, id string, status model.RunStatus, response model.ReplicationResponse, errMsg string, finishedAt time.Time) error {
	if !status.IsTerminal() {
		return fmt.Errorf("finish replication run %s: status %q is not terminal", id, status)
	}

	var responseJSON sql.NullString
	if response != nil {
		data, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response for run %s: %w", id, err)
		}
		responseJSON = sql.NullString{String: string(data), Valid: true}
	}

	const query = `UPDATE replication_runs SET status = ?, error = ?, response = ?, finished_at = ?
		WHERE id = ? AND status = ?`
	result, err := r.db.Writer.ExecContext(ctx, query,
		string(status), errMsg, responseJSON, formatTime(finishedAt),
		id, string(model.RunStatusRequested),
	)
	if err != nil {
		return fmt.Errorf("finish replication run %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	existing, err := r.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("finish replication run %s: %w", id, err)
	}
	if existing.Status.IsTerminal() {
		return fmt.Errorf("finish replication run %s: %w", id, driven.ErrRunAlreadyFinished)
	}
	return fmt.Errorf("finish replication run %s: no rows updated", id)
}

// Get returns the run with the given ID, or driven.ErrRunNotFound.
func (r *RunRepo) Get(ctx context.Context, id string) (*model.ReplicationRun, error) {
	query := `SELECT ` + runColumns + ` FROM replication_runs WHERE id = ?`

	run, err := scanRun(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get replication run %s: %w", id, err)
	}
	return &run, nil
}

// ListRecent returns up to limit runs, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]model.ReplicationRun, error) {
	query := `SELECT ` + runColumns + ` FROM replication_runs ORDER BY requested_at DESC, id LIMIT ?`
	return r.list(ctx, query, limit)
}

// ListBySource returns up to limit runs for one source, newest first.
func (r *RunRepo) ListBySource(ctx context.Context, sourceID int64, limit int) ([]model.ReplicationRun, error) {
	query := `SELECT ` + runColumns + ` FROM replication_runs WHERE source_id = ? ORDER BY requested_at DESC, id LIMIT ?`
	return r.list(ctx, query, sourceID, limit)
}

func (r *RunRepo) list(ctx context.Context, query string, args ...any) ([]model.ReplicationRun, error) {
	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list replication runs: %w", err)
	}
	defer rows.Close()

	runs := []model.ReplicationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate replication runs: %w", err)
	}
	return runs, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (model.ReplicationRun, error) {
	var (
		run         model.ReplicationRun
		status      string
		response    sql.NullString
		requestedAt string
		finishedAt  sql.NullString
	)

	if err := s.Scan(&run.ID, &run.SourceID, &status, &run.Error, &response, &requestedAt, &finishedAt); err != nil {
		return model.ReplicationRun{}, err
	}
	run.Status = model.RunStatus(status)

	var err error
	run.RequestedAt, err = parseTime(requestedAt)
	if err != nil {
		return model.ReplicationRun{}, fmt.Errorf("parse requested_at for run %s: %w", run.ID, err)
	}

	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return model.ReplicationRun{}, fmt.Errorf("parse finished_at for run %s: %w", run.ID, err)
		}
		run.FinishedAt = &t
	}

	if response.Valid && strings.TrimSpace(response.String) != "" {
		dec := json.NewDecoder(strings.NewReader(response.String))
		dec.UseNumber()
		if err := dec.Decode(&run.Response); err != nil {
			return model.ReplicationRun{}, fmt.Errorf("decode response for run %s: %w", run.ID, err)
		}
	}

	return run, nil
}
