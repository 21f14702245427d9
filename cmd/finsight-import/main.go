// finsight-import parses a bank statement PDF and stores its rows.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/core"
	"github.com/finsight-app/finsight/internal/entity"
	"github.com/finsight-app/finsight/internal/extract"
	repo "github.com/finsight-app/finsight/internal/repository"
)

func main() {
	file := flag.String("file", "", "path to a statement PDF")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	v := common.NewValidator()
	v.Field("file", *file, common.Required, common.MaxLength(4096))
	if err := v.Error(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	txRepo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read file", "file", *file, "error", err)
		os.Exit(1)
	}

	pipeline := extract.NewPipeline(extract.NewFitzExtractor(),
		extract.WithAltPDF(extract.NewLayerExtractor()),
		extract.WithMaxPDFPages(cfg.Extract.MaxPDFPages),
		extract.WithLogger(logger),
	)
	processor := core.NewProcessor(pipeline, txRepo, logger)

	res, err := processor.ImportStatement(ctx, entity.RawDocument{
		Content:   data,
		Filename:  filepath.Base(*file),
		MediaType: mime.TypeByExtension(filepath.Ext(*file)),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("imported %d transactions\n", res.Inserted)
}

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
