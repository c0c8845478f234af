package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlaudit/mlaudit/pkg/artifact"
	"github.com/mlaudit/mlaudit/pkg/config"
	"github.com/mlaudit/mlaudit/pkg/metrics"
)

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate URL_FILE",
		Short: "Check a URL file and configuration without scoring",
		Long: `Parses the URL file, resolves the configuration and environment, and
reports what an audit run would score. Exits non-zero on any problem.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: find .mlaudit/config.yaml)")

	return cmd
}

func runValidate(urlFile, configPath string) error {
	if err := config.ValidateEnvironment(); err != nil {
		return err
	}

	if configPath == "" {
		if wd, err := os.Getwd(); err == nil {
			configPath = config.FindConfigFile(wd)
		}
	}
	cfg, err := config.Load(configPath)
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
	if err := metrics.WeightVector(cfg.Scoring.Weights).Validate(registry); err != nil {
		return err
	}

	content, err := os.ReadFile(urlFile)
	if err != nil {
		return fmt.Errorf("reading url file: %w", err)
	}
	records, err := artifact.BuildRecords(artifact.SplitInput(string(content)))
	if err != nil {
		return err
	}

	fmt.Printf("config: %d metrics, %d weights, ceiling %s\n",
		registry.Len(), len(cfg.Scoring.Weights), cfg.Scoring.CeilingMode)
	for _, rec := range records {
		fmt.Printf("%s  datasets=%d code=%d\n",
			rec.Model.Name, len(rec.Datasets), len(rec.CodeRepos))
	}
	fmt.Printf("%d models to audit\n", len(records))
	return nil
}
