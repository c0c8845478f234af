// Package pipeline orchestrates an audit run: fetch artifact metadata, score
// it, aggregate, and emit one output record per model.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mlaudit/mlaudit/internal/fetch"
	"github.com/mlaudit/mlaudit/pkg/artifact"
	"github.com/mlaudit/mlaudit/pkg/metrics"
	"github.com/mlaudit/mlaudit/pkg/output"
)

// Driver runs the audit pipeline over a batch of records.
//
// Every input record produces exactly one rendered output record, in input
// order when Ordered is set. A record whose fetch fails is emitted with all
// metrics marked failed rather than dropped.
type Driver struct {
	fetcher    fetch.Fetcher
	scheduler  *metrics.Scheduler
	registry   *metrics.Registry
	aggregator *metrics.Aggregator
	renderer   output.Renderer
	workers    int
	ordered    bool
	logger     zerolog.Logger

	mu sync.Mutex // serializes unordered writes
}

// Options configures a Driver.
type Options struct {
	Fetcher    fetch.Fetcher
	Registry   *metrics.Registry
	Scheduler  *metrics.Scheduler
	Aggregator *metrics.Aggregator
	Renderer   output.Renderer
	// Workers bounds how many records are processed concurrently. Values
	// below 1 mean a single worker.
	Workers int
	// Ordered preserves input order in the output stream.
	Ordered bool
	Logger  zerolog.Logger
}

// New creates a Driver.
func New(opts Options) *Driver {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Driver{
		fetcher:    opts.Fetcher,
		scheduler:  opts.Scheduler,
		registry:   opts.Registry,
		aggregator: opts.Aggregator,
		renderer:   opts.Renderer,
		workers:    workers,
		ordered:    opts.Ordered,
		logger:     opts.Logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run audits every record and renders the results to w. Recoverable
// per-record failures are folded into their output records; only rendering
// failures and configuration errors abort the run.
func (d *Driver) Run(ctx context.Context, records []*artifact.Record, w io.Writer) error {
	results := make([]*metrics.Record, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, rec := range records {
		g.Go(func() error {
			out, err := d.AuditOne(gctx, rec)
			if err != nil {
				return err
			}
			results[i] = out
			if !d.ordered {
				// Unordered mode streams records as they complete.
				return d.renderLocked(w, out)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if d.ordered {
		for _, out := range results {
			if err := d.renderer.Render(w, out); err != nil {
				return fmt.Errorf("render %s: %w", out.Name, err)
			}
		}
	}
	return nil
}

func (d *Driver) renderLocked(w io.Writer, out *metrics.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.renderer.Render(w, out); err != nil {
		return fmt.Errorf("render %s: %w", out.Name, err)
	}
	return nil
}

// AuditOne walks one record through the fetch, evaluate, and aggregate
// stages.
func (d *Driver) AuditOne(ctx context.Context, rec *artifact.Record) (*metrics.Record, error) {
	start := time.Now()
	log := d.logger.With().Str("model", rec.Name()).Logger()

	log.Debug().Msg("fetching artifact metadata")
	data, err := d.fetcher.Fetch(ctx, *rec)

	var results []metrics.Result
	switch {
	case err == nil:
		log.Debug().Msg("evaluating metrics")
		results = d.scheduler.Evaluate(ctx, data)
	case fetch.IsFetchError(err):
		log.Warn().Err(err).Msg("fetch failed, emitting failure record")
		results = d.registry.FailAll(metrics.ReasonFetchFailed, err.Error())
	default:
		return nil, err
	}

	out, err := d.aggregator.Aggregate(rec.Name(), results)
	if err != nil {
		return nil, err
	}
	out.TotalLatency = time.Since(start)

	log.Info().
		Float64("net_score", out.NetScore).
		Dur("total", out.TotalLatency).
		Msg("audit complete")
	return out, nil
}
