package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/finsight-app/finsight/constants"
	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/core"
	"github.com/finsight-app/finsight/internal/entity"
	"github.com/finsight-app/finsight/internal/statement"
)

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	HashHex      string
	Deduplicated bool
	Inserted     int
	Suggested    bool
	UploadedAt   time.Time
}

// Service turns watched files into processor calls. Content hashes of
// everything already ingested are kept in memory so re-emitted paths and
// duplicate drops are skipped.
type Service struct {
	proc   *core.Processor
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewService(proc *core.Processor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		proc:   proc,
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// IngestPath reads one file and routes it. PDFs are tried as statements
// first; a PDF that has no tabular header falls back to the receipt
// suggestion flow. Images always take the receipt flow.
func (s *Service) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	out := IngestionResult{SourcePath: path, UploadedAt: time.Now().UTC()}

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, common.WrapError(err, "resolve path")
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return out, common.WrapError(err, "read file")
	}

	sum := sha256.Sum256(data)
	out.HashHex = hex.EncodeToString(sum[:])
	if s.markSeen(out.HashHex) {
		out.Deduplicated = true
		s.logger.Debug("skipping duplicate content", "path", abs, "hash", out.HashHex)
		return out, nil
	}

	doc := entity.RawDocument{
		Content:   data,
		Filename:  filepath.Base(abs),
		MediaType: mime.TypeByExtension(filepath.Ext(abs)),
	}

	if constants.DetectFormat(doc.Filename, doc.MediaType) == constants.PDF {
		res, err := s.proc.ImportStatement(ctx, doc)
		if err == nil {
			out.Inserted = res.Inserted
			return out, nil
		}
		var missing *statement.MissingColumnsError
		if !errors.Is(err, statement.ErrHeaderNotFound) &&
			!errors.Is(err, statement.ErrNoValidRows) &&
			!errors.As(err, &missing) {
			return out, err
		}
		s.logger.Debug("not a statement, treating as receipt", "path", abs, "reason", err)
	}

	up, err := s.proc.ProcessUpload(ctx, doc)
	if err != nil {
		return out, err
	}
	out.Suggested = up.Suggestions != nil
	return out, nil
}

func (s *Service) markSeen(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[hash]; ok {
		return true
	}
	s.seen[hash] = struct{}{}
	return false
}
