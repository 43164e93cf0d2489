package jobs

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"inkcast/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on any schema change. Mismatched databases
// must be deleted and recreated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// release.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists jobs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the jobs database under dir, creating it on first
// use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure jobs directory: %w", err)
	}
	dbPath := filepath.Join(dir, "jobs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Create inserts a new pending job for a document.
func (s *Store) Create(ctx context.Context, documentID, title string, panelCount int) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Title:      title,
		Status:     StatusPending,
		PanelCount: panelCount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, document_id, title, status, panel_count, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.DocumentID, job.Title, job.Status, job.PanelCount,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// SetStatus advances a job's lifecycle status.
func (s *Store) SetStatus(ctx context.Context, jobID string, status Status, errorDetail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, nullable(errorDetail), time.Now().UTC().Format(time.RFC3339Nano), jobID)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "jobs", "set status", jobID, nil)
	}
	return nil
}

// GetByID fetches one job.
func (s *Store) GetByID(ctx context.Context, jobID string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, document_id, title, status, panel_count, COALESCE(error, ''), created_at, updated_at
         FROM jobs WHERE id = ?`, jobID)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "jobs", "get", jobID, nil)
	}
	return job, err
}

// List returns jobs most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, title, status, panel_count, COALESCE(error, ''), created_at, updated_at
         FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// RecordPanel upserts the outcome for one panel.
func (s *Store) RecordPanel(ctx context.Context, record PanelRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_panels (job_id, panel_index, status, detail, duration_ms, audio_key, narrative_json, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(job_id, panel_index) DO UPDATE SET
           status = excluded.status,
           detail = excluded.detail,
           duration_ms = excluded.duration_ms,
           audio_key = excluded.audio_key,
           narrative_json = excluded.narrative_json,
           updated_at = excluded.updated_at`,
		record.JobID, record.PanelIndex, record.Status, nullable(record.Detail),
		record.Duration.Milliseconds(), nullable(record.AudioKey), nullable(record.Narrative),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record panel: %w", err)
	}
	return nil
}

// Panels returns a job's panel records in story order.
func (s *Store) Panels(ctx context.Context, jobID string) ([]PanelRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, panel_index, status, COALESCE(detail, ''), duration_ms,
                COALESCE(audio_key, ''), COALESCE(narrative_json, ''), updated_at
         FROM job_panels WHERE job_id = ? ORDER BY panel_index`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list panels: %w", err)
	}
	defer rows.Close()

	var out []PanelRecord
	for rows.Next() {
		var record PanelRecord
		var durationMS int64
		var updatedAt string
		if err := rows.Scan(&record.JobID, &record.PanelIndex, &record.Status, &record.Detail,
			&durationMS, &record.AudioKey, &record.Narrative, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan panel: %w", err)
		}
		record.Duration = time.Duration(durationMS) * time.Millisecond
		record.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var createdAt, updatedAt string
	if err := row.Scan(&job.ID, &job.DocumentID, &job.Title, &job.Status, &job.PanelCount,
		&job.Error, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	job.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	job.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &job, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
