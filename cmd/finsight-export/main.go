// finsight-export writes stored transactions to an XLSX workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/export"
	repo "github.com/finsight-app/finsight/internal/repository"
)

func main() {
	out := flag.String("out", "transactions.xlsx", "output workbook path")
	fromFlag := flag.String("from", "", "start date (YYYY-MM-DD, inclusive)")
	toFlag := flag.String("to", "", "end date (YYYY-MM-DD, inclusive)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	v := common.NewValidator()
	v.Field("out", *out, common.Required, common.MaxLength(4096))
	v.Field("from", *fromFlag, common.ISODate)
	v.Field("to", *toFlag, common.ISODate)
	if err := v.Error(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	var from, to *time.Time
	if *fromFlag != "" {
		t, _ := time.ParseInLocation("2006-01-02", *fromFlag, time.UTC)
		from = &t
	}
	if *toFlag != "" {
		t, _ := time.ParseInLocation("2006-01-02", *toFlag, time.UTC)
		to = &t
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

	svc := export.NewService(txRepo, logger)
	data, err := svc.ExportXLSX(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("failed to write workbook", "out", *out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(data))
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
		return repo.NewPostgresTransactionRepository(pool, logger), func() { repo.Close(pool, logger) }, nil
	}

	db, err := repo.OpenSQLite(ctx, cfg.Database.SQLitePath, logger)
	if err != nil {
		return nil, nil, err
	}
	return repo.NewSQLiteTransactionRepository(db, logger), func() { _ = db.Close() }, nil
}
