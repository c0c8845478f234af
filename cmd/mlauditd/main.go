// Command mlauditd is the hosted audit service. It accepts audit jobs over
// HTTP, runs them in the background, and serves stored results.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sethvargo/go-envconfig"

	"github.com/mlaudit/mlaudit/internal/api"
	"github.com/mlaudit/mlaudit/internal/fetch"
	"github.com/mlaudit/mlaudit/internal/forge"
	"github.com/mlaudit/mlaudit/internal/hub"
	"github.com/mlaudit/mlaudit/internal/logging"
	"github.com/mlaudit/mlaudit/internal/pipeline"
	"github.com/mlaudit/mlaudit/internal/platform"
	"github.com/mlaudit/mlaudit/internal/storage"
	"github.com/mlaudit/mlaudit/internal/store"
	"github.com/mlaudit/mlaudit/pkg/config"
	"github.com/mlaudit/mlaudit/pkg/metrics"
)

type daemonConfig struct {
	Port        string `env:"PORT, default=8080"`
	DatabaseURL string `env:"DATABASE_URL, default=postgres://localhost:5432/mlaudit?sslmode=disable"`
	APIKey      string `env:"API_KEY"`

	StorageBackend   string `env:"STORAGE_BACKEND, default=local"`
	LocalStoragePath string `env:"LOCAL_STORAGE_PATH, default=/tmp/mlaudit-data"`
	S3Bucket         string `env:"S3_BUCKET"`
	S3Region         string `env:"S3_REGION"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3AccessKey      string `env:"S3_ACCESS_KEY"`
	S3SecretKey      string `env:"S3_SECRET_KEY"`
	GCSBucket        string `env:"GCS_BUCKET"`

	HFToken       string        `env:"HF_TOKEN"`
	GitHubToken   string        `env:"GITHUB_TOKEN"`
	ConfigPath    string        `env:"MLAUDIT_CONFIG"`
	JobTimeout    time.Duration `env:"JOB_TIMEOUT, default=30m"`
	WorkersPerJob int           `env:"WORKERS_PER_JOB, default=4"`
}

func main() {
	_ = godotenv.Load()

	logger, err := logging.Setup()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var dcfg daemonConfig
	if err := envconfig.Process(ctx, &dcfg); err != nil {
		logger.Fatal().Err(err).Msg("load environment")
	}
	if err := config.ValidateEnvironment(); err != nil {
		logger.Fatal().Err(err).Msg("validate environment")
	}

	db, err := sql.Open("postgres", dcfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	if err := platform.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	blobs, err := buildStorage(ctx, dcfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialize storage")
	}

	cfg, err := config.Load(dcfg.ConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	registry, err := metrics.NewRegistry(metrics.RegistryOptions{
		DefaultTimeout: cfg.Scoring.Timeout(),
		Timeouts:       cfg.Scoring.TimeoutOverrides(),
	}, metrics.DefaultFunctions()...)
	if err != nil {
		logger.Fatal().Err(err).Msg("build registry")
	}
	weights := metrics.WeightVector(cfg.Scoring.Weights)
	if err := weights.Validate(registry); err != nil {
		logger.Fatal().Err(err).Msg("validate weights")
	}

	fetcher := fetch.New(
		hub.NewClient(dcfg.HFToken, logger),
		forge.NewClient(dcfg.GitHubToken, logger),
		logger,
	)
	pipeOpts := pipeline.Options{
		Fetcher:    fetcher,
		Registry:   registry,
		Scheduler:  metrics.NewScheduler(registry, metrics.CeilingMode(cfg.Scoring.CeilingMode)),
		Aggregator: metrics.NewAggregator(weights, logger),
		Workers:    dcfg.WorkersPerJob,
		Ordered:    true,
		Logger:     logger,
	}

	st := store.New(db)
	runner := api.NewRunner(pipeOpts, st, blobs, dcfg.JobTimeout, logger)
	handler := api.NewHandler(db, st, runner, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, api.APIKeyAuth(dcfg.APIKey))

	srv := &http.Server{
		Addr:    ":" + dcfg.Port,
		Handler: api.CORS(mux),
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting mlauditd")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func buildStorage(ctx context.Context, dcfg daemonConfig) (storage.Client, error) {
	switch dcfg.StorageBackend {
	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    dcfg.S3Bucket,
			Region:    dcfg.S3Region,
			Endpoint:  dcfg.S3Endpoint,
			AccessKey: dcfg.S3AccessKey,
			SecretKey: dcfg.S3SecretKey,
		})
	case "gcs":
		return storage.NewGCSStorage(ctx, dcfg.GCSBucket)
	default:
		return storage.NewLocalStorage(dcfg.LocalStoragePath), nil
	}
}
