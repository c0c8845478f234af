package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlaudit/mlaudit/internal/fetch"
	"github.com/mlaudit/mlaudit/internal/pipeline"
	"github.com/mlaudit/mlaudit/internal/storage"
	"github.com/mlaudit/mlaudit/internal/store"
	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// Runner executes audit jobs in the background and persists their results.
type Runner struct {
	opts    pipeline.Options
	store   *store.Store
	blobs   storage.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRunner creates a Runner. opts is the pipeline template each job runs
// with; blobs may be nil to disable snapshot archiving. timeout bounds a
// whole job.
func NewRunner(opts pipeline.Options, st *store.Store, blobs storage.Client, timeout time.Duration, logger zerolog.Logger) *Runner {
	return &Runner{
		opts:    opts,
		store:   st,
		blobs:   blobs,
		timeout: timeout,
		logger:  logger.With().Str("component", "runner").Logger(),
	}
}

// Submit schedules a job for background execution.
func (r *Runner) Submit(job *store.Job) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.run(ctx, job)
	}()
}

func (r *Runner) run(ctx context.Context, job *store.Job) {
	start := time.Now()
	log := r.logger.With().Str("job", job.ID).Logger()

	if err := r.store.SetJobStatus(ctx, job.ID, store.StatusRunning, ""); err != nil {
		log.Error().Err(err).Msg("mark job running")
		return
	}

	status := store.StatusComplete
	if err := r.audit(ctx, job); err != nil {
		log.Error().Err(err).Msg("audit failed")
		status = store.StatusFailed
		if serr := r.store.SetJobStatus(ctx, job.ID, status, err.Error()); serr != nil {
			log.Error().Err(serr).Msg("mark job failed")
		}
	} else if err := r.store.SetJobStatus(ctx, job.ID, status, ""); err != nil {
		log.Error().Err(err).Msg("mark job complete")
	}

	observeJob(status, time.Since(start))
	log.Info().Str("status", status).Dur("elapsed", time.Since(start)).Msg("job finished")
}

func (r *Runner) audit(ctx context.Context, job *store.Job) error {
	records, err := artifact.BuildRecords(job.URLs)
	if err != nil {
		return err
	}

	opts := r.opts
	if r.blobs != nil {
		opts.Fetcher = &archivingFetcher{
			inner: r.opts.Fetcher,
			blobs: r.blobs,
			jobID: job.ID,
			log:   r.logger,
		}
	}
	driver := pipeline.New(opts)

	for _, rec := range records {
		out, err := driver.AuditOne(ctx, rec)
		if err != nil {
			return err
		}
		if _, err := r.store.InsertRecord(ctx, job.ID, out); err != nil {
			return err
		}
	}
	return nil
}

// archivingFetcher archives every successful fetch to blob storage before
// returning it, so a scored audit can later be traced back to the exact
// metadata it saw.
type archivingFetcher struct {
	inner fetch.Fetcher
	blobs storage.Client
	jobID string
	log   zerolog.Logger
}

func (a *archivingFetcher) Fetch(ctx context.Context, rec artifact.Record) (*artifact.Data, error) {
	data, err := a.inner.Fetch(ctx, rec)
	if err != nil {
		return nil, err
	}

	blob, err := json.Marshal(data)
	if err == nil {
		err = a.blobs.PutSnapshot(ctx, a.jobID, rec.Name(), blob)
	}
	if err != nil {
		// Archiving is best-effort; scoring proceeds on the in-memory data.
		a.log.Warn().Err(err).Str("model", rec.Name()).Msg("snapshot archive failed")
	}
	return data, nil
}
