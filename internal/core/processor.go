// Package core coordinates extraction and parsing for the two document
// flows: receipt uploads that yield field suggestions, and bank statement
// imports that yield persisted transactions.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-app/finsight/constants"
	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/entity"
	"github.com/finsight-app/finsight/internal/extract"
	"github.com/finsight-app/finsight/internal/receipt"
	"github.com/finsight-app/finsight/internal/repository"
	"github.com/finsight-app/finsight/internal/statement"
)

// ErrPDFOnly rejects statement imports for any non-PDF upload.
var ErrPDFOnly = errors.New("only PDF is supported")

type Processor struct {
	extractor extract.TextExtractor
	txRepo    repository.TransactionRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewProcessor(extractor extract.TextExtractor, txRepo repository.TransactionRepository, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		extractor: extractor,
		txRepo:    txRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessUpload extracts text from a receipt and derives field suggestions.
// Extraction failures never fail the upload; they surface as a warning with
// nil suggestions so the client can fall back to manual entry.
func (p *Processor) ProcessUpload(ctx context.Context, doc entity.RawDocument) (UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return UploadResult{}, err
	}

	res := p.extractor.Extract(ctx, doc)
	out := UploadResult{
		Message: "Uploaded",
		RawText: res.Text,
		Warning: res.Warning,
	}
	if strings.TrimSpace(res.Text) != "" {
		s := receipt.Suggest(res.Text, p.now().UTC())
		out.Suggestions = &s
	}

	p.logger.Info("upload processed",
		"filename", doc.Filename,
		"method", res.Method,
		"text_bytes", len(res.Text),
		"suggested", out.Suggestions != nil,
	)
	return out, nil
}

// ImportStatement parses a tabular bank statement PDF and persists every
// valid row. Unlike uploads, extraction failures here are hard errors since
// there is nothing to import without text.
func (p *Processor) ImportStatement(ctx context.Context, doc entity.RawDocument) (ImportResult, error) {
	if constants.DetectFormat(doc.Filename, doc.MediaType) != constants.PDF {
		return ImportResult{}, ErrPDFOnly
	}

	res := p.extractor.Extract(ctx, doc)
	if strings.TrimSpace(res.Text) == "" {
		if res.Warning != "" {
			return ImportResult{}, errors.New(res.Warning)
		}
		return ImportResult{}, statement.ErrHeaderNotFound
	}

	txs, err := statement.Parse(res.Text)
	if err != nil {
		return ImportResult{}, err
	}

	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID.String())
	if err := p.txRepo.InsertBatch(ctx, txs); err != nil {
		p.logger.Error("statement import failed", "run_id", runID, "err", err)
		return ImportResult{}, fmt.Errorf("insert transactions: %w", err)
	}

	p.logger.Info("statement imported",
		"run_id", runID,
		"filename", doc.Filename,
		"rows", len(txs),
	)
	return ImportResult{Inserted: len(txs)}, nil
}
