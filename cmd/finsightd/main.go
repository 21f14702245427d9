package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/core"
	"github.com/finsight-app/finsight/internal/core/async"
	"github.com/finsight-app/finsight/internal/extract"
	"github.com/finsight-app/finsight/internal/ingest"
	repo "github.com/finsight-app/finsight/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	txRepo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	pipeline := buildPipeline(cfg, logger)
	processor := core.NewProcessor(pipeline, txRepo, logger)
	svc := ingest.NewService(processor, logger)

	queue := async.NewIngestQueue(func(ctx context.Context, job async.Job) error {
		res, err := svc.IngestPath(ctx, job.Path)
		if err != nil {
			return err
		}
		logger.Info("file ingested",
			"job_id", job.ID,
			"path", res.SourcePath,
			"deduplicated", res.Deduplicated,
			"inserted", res.Inserted,
			"suggested", res.Suggested,
		)
		return nil
	}, logger,
		async.WithWorkers(cfg.Extract.Workers),
		async.WithQueueSize(cfg.Extract.QueueSize),
		async.WithJobTimeout(cfg.Extract.JobTimeout),
	)

	if cfg.Watch.Root != "" {
		events, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Root:        cfg.Watch.Root,
			InitialScan: cfg.Watch.InitialScan,
			Debounce:    cfg.Watch.Debounce,
		}, logger)
		if err != nil {
			logger.Error("failed to start watcher", "root", cfg.Watch.Root, "error", err)
			os.Exit(1)
		}
		go func() {
			for path := range events {
				_ = queue.Enqueue(ctx, async.Job{ID: uuid.New(), Path: path})
			}
		}()
		go func() {
			for err := range watchErrs {
				logger.Error("watcher error", "error", err)
			}
		}()
		logger.Info("watching for documents", "root", cfg.Watch.Root)
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	logger.Info("finsightd listening", "addr", cfg.Server.GRPCAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
}

// openRepository prefers Postgres when DB_URL is set and falls back to the
// embedded SQLite store.
func openRepository(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repo.TransactionRepository, func(), error) {
	if cfg.Database.DSN != "" {
		pool, err := repo.Open(ctx, repo.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
			repo.Close(pool, logger)
			return nil, nil, err
		}
		if err := repo.Migrate(ctx, pool); err != nil {
			repo.Close(pool, logger)
			return nil, nil, err
		}
		return repo.NewPostgresTransactionRepository(pool, logger), func() { repo.Close(pool, logger) }, nil
	}

	db, err := repo.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
	if err != nil {
		return nil, nil, err
	}
	return repo.NewSQLiteTransactionRepository(db, logger), func() { _ = db.Close() }, nil
}

// buildPipeline wires the strategy chain. OCR is only attached when the
// tesseract binary is actually on PATH.
func buildPipeline(cfg *common.Config, logger *slog.Logger) *extract.Pipeline {
	opts := []extract.Option{
		extract.WithAltPDF(extract.NewLayerExtractor()),
		extract.WithMaxPDFPages(cfg.Extract.MaxPDFPages),
		extract.WithLogger(logger),
	}
	if _, err := exec.LookPath(cfg.Extract.TesseractBinary); err == nil {
		opts = append(opts, extract.WithOCR(extract.NewTesseractEngine(extract.TesseractConfig{
			Binary:   cfg.Extract.TesseractBinary,
			Language: cfg.Extract.Language,
		}, logger)))
	} else {
		logger.Warn("tesseract not found, OCR disabled", "binary", cfg.Extract.TesseractBinary)
	}
	return extract.NewPipeline(extract.NewFitzExtractor(), opts...)
}
