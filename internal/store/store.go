// Package store persists audit jobs and their scored records in Postgres.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mlaudit/mlaudit/pkg/metrics"
)

// Job status values.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// ErrNotFound is returned when a job or record does not exist.
var ErrNotFound = errors.New("not found")

// Store provides audit persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// Job is one submitted audit request: a batch of URLs and its lifecycle
// status.
type Job struct {
	ID        string
	Status    string
	URLs      []string
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordRow is one scored model belonging to a job. Breakdown holds the
// per-metric results as JSON.
type RecordRow struct {
	ID             string
	JobID          string
	Name           string
	Category       string
	NetScore       float64
	Breakdown      json.RawMessage
	TotalLatencyMs int64
	CreatedAt      time.Time
}

// New creates a Store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateJob inserts a pending job for the given URL batch.
func (s *Store) CreateJob(ctx context.Context, urls []string) (*Job, error) {
	j := &Job{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO audit_jobs (id, status, urls)
		 VALUES ($1, $2, $3)
		 RETURNING id, status, urls, error, created_at, updated_at`,
		uuid.NewString(), StatusPending, pq.Array(urls),
	).Scan(&j.ID, &j.Status, pq.Array(&j.URLs), &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return j, nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	j := &Job{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, urls, error, created_at, updated_at
		 FROM audit_jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Status, pq.Array(&j.URLs), &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// ListJobs returns the newest jobs first, up to limit.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, urls, error, created_at, updated_at
		 FROM audit_jobs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Status, pq.Array(&j.URLs), &j.Error, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SetJobStatus transitions a job's status. A non-empty errMsg is recorded
// alongside a failed status.
func (s *Store) SetJobStatus(ctx context.Context, id, status, errMsg string) error {
	var errVal any
	if errMsg != "" {
		errVal = errMsg
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE audit_jobs SET status = $2, error = $3, updated_at = now()
		 WHERE id = $1`,
		id, status, errVal,
	)
	if err != nil {
		return fmt.Errorf("set job %s status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertRecord persists one scored record under a job.
func (s *Store) InsertRecord(ctx context.Context, jobID string, rec *metrics.Record) (*RecordRow, error) {
	breakdown, err := json.Marshal(rec.Results)
	if err != nil {
		return nil, fmt.Errorf("marshal breakdown: %w", err)
	}

	r := &RecordRow{}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO audit_records (id, job_id, name, category, net_score, breakdown, total_latency_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, job_id, name, category, net_score, breakdown, total_latency_ms, created_at`,
		uuid.NewString(), jobID, rec.Name, rec.Category, rec.NetScore,
		breakdown, rec.TotalLatency.Milliseconds(),
	).Scan(&r.ID, &r.JobID, &r.Name, &r.Category, &r.NetScore, &r.Breakdown, &r.TotalLatencyMs, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert record %s: %w", rec.Name, err)
	}
	return r, nil
}

// ListRecordsByJob returns all records of a job in insertion order.
func (s *Store) ListRecordsByJob(ctx context.Context, jobID string) ([]RecordRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, name, category, net_score, breakdown, total_latency_ms, created_at
		 FROM audit_records WHERE job_id = $1 ORDER BY created_at`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []RecordRow
	for rows.Next() {
		var r RecordRow
		if err := rows.Scan(&r.ID, &r.JobID, &r.Name, &r.Category, &r.NetScore, &r.Breakdown, &r.TotalLatencyMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
