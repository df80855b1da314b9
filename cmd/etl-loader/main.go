// cmd/etl-loader/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dreamhomes-etl/internal/common/config"
	"dreamhomes-etl/internal/common/database"
	apperrors "dreamhomes-etl/internal/common/errors"
	"dreamhomes-etl/internal/common/logger"
	"dreamhomes-etl/internal/common/observability"
	"dreamhomes-etl/internal/etl/checkpoint"
	"dreamhomes-etl/internal/etl/load"
	"dreamhomes-etl/internal/etl/notify"
	"dreamhomes-etl/internal/etl/pipeline"
	"dreamhomes-etl/internal/etl/report"
	"dreamhomes-etl/internal/etl/resolve"
	"dreamhomes-etl/internal/etl/search"
	"dreamhomes-etl/internal/etl/source"
	"dreamhomes-etl/internal/etl/validation"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	pingOnly := flag.Bool("ping", false, "check connectivity and exit")
	showReport := flag.Bool("report", false, "print destination table counts after the run")
	sourceFile := flag.String("source", "", "CSV source file, overrides configuration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *sourceFile != "" {
		cfg.Pipeline.SourceFile = *sourceFile
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := logger.NewZapAdapter(zapLogger).WithFields(map[string]interface{}{
		"app": cfg.App.Name,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := connectPostgres(ctx, cfg.Database.Postgres, zapLogger)
	if err != nil {
		log.WithError(apperrors.NewDatabaseConnectionError(err)).Error("postgres connection failed", nil)
		os.Exit(1)
	}
	defer pg.Close()

	if *pingOnly {
		runPing(ctx, cfg, pg, log)
		return
	}

	if cfg.Pipeline.SourceFile == "" {
		log.Error("no source file configured", nil)
		os.Exit(1)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Port, log)
	}

	opts := pipeline.Options{
		SourceFile: cfg.Pipeline.SourceFile,
		Resume:     cfg.Pipeline.Resume,
		RowTimeout: time.Duration(cfg.Pipeline.RowTimeout) * time.Millisecond,
	}

	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = redisClient.Ping(ctx)
		}
		if err != nil {
			log.WithError(err).Warn("redis unavailable, running without checkpoints", nil)
			redisClient = nil
		} else {
			defer redisClient.Close()
			opts.Checkpoints = checkpoint.NewStore(redisClient.GetClient(), cfg.Pipeline.SourceFile)
		}
	}

	if cfg.Pipeline.IndexProperties && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil {
			err = es.Ping()
		}
		if err != nil {
			log.WithError(err).Warn("elasticsearch unavailable, running without indexing", nil)
		} else {
			opts.Indexer = search.NewIndexer(es.Client, cfg.Database.Elasticsearch.Index)
		}
	}

	if cfg.Pipeline.ValidateRecords {
		validator, err := validation.New()
		if err != nil {
			log.WithError(err).Error("record validator setup failed", nil)
			os.Exit(1)
		}
		opts.Validator = validator
	}

	src, err := source.OpenCSV(cfg.Pipeline.SourceFile)
	if err != nil {
		log.WithError(err).Error("source open failed", map[string]interface{}{
			"file": cfg.Pipeline.SourceFile,
		})
		os.Exit(1)
	}
	defer src.Close()

	loader := load.NewLoader(pg.GetDB(), resolve.New(log), log)
	driver := pipeline.NewDriver(loader, obs, log, opts)

	log.Info("starting load", map[string]interface{}{"file": cfg.Pipeline.SourceFile})
	summary, err := driver.Run(ctx, src)
	if err != nil {
		log.WithError(err).Error("run aborted", map[string]interface{}{
			"loaded": summary.Loaded,
			"failed": summary.Failed,
		})
		os.Exit(1)
	}

	log.Info("load finished", map[string]interface{}{
		"runId":    summary.RunID.String(),
		"total":    summary.Total,
		"loaded":   summary.Loaded,
		"failed":   summary.Failed,
		"skipped":  summary.Skipped,
		"duration": summary.FinishedAt.Sub(summary.StartedAt).String(),
	})

	sendNotifications(ctx, cfg, summary, log)

	if *showReport {
		printReport(ctx, pg, log)
	}
}

// connectPostgres retries the initial connection with exponential
// backoff; the database is often still warming up under compose.
func connectPostgres(ctx context.Context, cfg config.PostgresConfig, zl *zap.Logger) (*database.PostgresClient, error) {
	var pg *database.PostgresClient
	var err error

	backoff := time.Second
	for attempt := 1; attempt <= 5; attempt++ {
		pg, err = database.NewPostgres(cfg)
		if err == nil {
			err = pg.Ping(ctx)
			if err == nil {
				return pg, nil
			}
			pg.Close()
		}

		zl.Warn("postgres not ready",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, err
}

func runPing(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, log logger.Logger) {
	log.Info("postgres reachable", nil)

	if cfg.Database.Redis.Address != "" {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err == nil {
			err = redisClient.Ping(ctx)
			redisClient.Close()
		}
		if err != nil {
			log.WithError(err).Warn("redis unreachable", nil)
		} else {
			log.Info("redis reachable", nil)
		}
	}

	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil {
			err = es.Ping()
		}
		if err != nil {
			log.WithError(err).Warn("elasticsearch unreachable", nil)
		} else {
			log.Info("elasticsearch reachable", nil)
		}
	}
}

func serveMetrics(port int, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	log.Info("metrics endpoint listening", map[string]interface{}{"addr": addr})
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Warn("metrics endpoint stopped", nil)
	}
}

func sendNotifications(ctx context.Context, cfg *config.Config, summary *pipeline.Summary, log logger.Logger) {
	if !cfg.Notifications.Email.Enabled && !cfg.Notifications.SNS.Enabled {
		return
	}

	notifier, err := notify.New(ctx, cfg.Notifications, log)
	if err != nil {
		log.WithError(err).Warn("notifier setup failed", nil)
		return
	}
	notifier.NotifyRunComplete(ctx, summary)
}

func printReport(ctx context.Context, pg *database.PostgresClient, log logger.Logger) {
	rep, err := report.Build(ctx, pg.GetDB())
	if err != nil {
		log.WithError(err).Warn("post-load report failed", nil)
		return
	}

	fmt.Println("\nDestination table counts:")
	for _, tc := range rep.Tables {
		fmt.Printf("  %-20s %d\n", tc.Table, tc.Rows)
	}
	fmt.Println("\nProperty status distribution:")
	for _, sc := range rep.Statuses {
		fmt.Printf("  %-20s %d\n", sc.Status, sc.Count)
	}
}
