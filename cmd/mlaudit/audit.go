package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlaudit/mlaudit/internal/fetch"
	"github.com/mlaudit/mlaudit/internal/forge"
	"github.com/mlaudit/mlaudit/internal/hub"
	"github.com/mlaudit/mlaudit/internal/logging"
	"github.com/mlaudit/mlaudit/internal/pipeline"
	"github.com/mlaudit/mlaudit/pkg/artifact"
	"github.com/mlaudit/mlaudit/pkg/config"
	"github.com/mlaudit/mlaudit/pkg/metrics"
	"github.com/mlaudit/mlaudit/pkg/output"
)

func newAuditCmd() *cobra.Command {
	var (
		configPath string
		outputFmt  string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "audit URL_FILE",
		Short: "Score every model listed in a URL file",
		Long: `Reads a file of newline- or comma-separated artifact URLs, links datasets
and code repositories to the models they precede, and emits one scored
record per model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), auditOpts{
				urlFile:    args[0],
				configPath: configPath,
				outputFmt:  outputFmt,
				workers:    workers,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .mlaudit/config.yaml)")
	cmd.Flags().StringVar(&outputFmt, "output", "ndjson", "Output format: ndjson or table")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent model evaluations (default: from config)")

	return cmd
}

type auditOpts struct {
	urlFile    string
	configPath string
	outputFmt  string
	workers    int
}

func runAudit(ctx context.Context, opts auditOpts) error {
	logger, err := logging.Setup()
	if err != nil {
		return err
	}

	if err := config.ValidateEnvironment(); err != nil {
		return err
	}

	cfgPath := opts.configPath
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			cfgPath = config.FindConfigFile(wd)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	registry, err := metrics.NewRegistry(metrics.RegistryOptions{
		DefaultTimeout: cfg.Scoring.Timeout(),
		Timeouts:       cfg.Scoring.TimeoutOverrides(),
	}, metrics.DefaultFunctions()...)
	if err != nil {
		return err
	}

	weights := metrics.WeightVector(cfg.Scoring.Weights)
	if err := weights.Validate(registry); err != nil {
		return err
	}

	var renderer output.Renderer
	switch opts.outputFmt {
	case "ndjson":
		renderer = &output.NDJSONRenderer{}
	case "table":
		renderer = &output.TerminalRenderer{}
	default:
		return fmt.Errorf("unknown output format %q", opts.outputFmt)
	}

	content, err := os.ReadFile(opts.urlFile)
	if err != nil {
		return fmt.Errorf("reading url file: %w", err)
	}
	records, err := artifact.BuildRecords(artifact.SplitInput(string(content)))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Warn().Str("file", opts.urlFile).Msg("no model URLs found")
		return nil
	}

	workers := opts.workers
	if workers <= 0 {
		workers = cfg.Pipeline.Workers
	}

	fetcher := fetch.New(
		hub.NewClient(os.Getenv("HF_TOKEN"), logger),
		forge.NewClient(os.Getenv("GITHUB_TOKEN"), logger),
		logger,
	)

	driver := pipeline.New(pipeline.Options{
		Fetcher:    fetcher,
		Registry:   registry,
		Scheduler:  metrics.NewScheduler(registry, metrics.CeilingMode(cfg.Scoring.CeilingMode)),
		Aggregator: metrics.NewAggregator(weights, logger),
		Renderer:   renderer,
		Workers:    workers,
		Ordered:    cfg.Pipeline.Ordered(),
		Logger:     logger,
	})

	return driver.Run(ctx, records, os.Stdout)
}
