package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TesseractConfig configures the tesseract OCR engine.
type TesseractConfig struct {
	Binary   string // binary name or absolute path; if empty -> "tesseract"
	Language string // default "eng"
}

// TesseractEngine implements OCREngine by shelling out to the tesseract
// binary through a Runner, so tests can stub the external process.
type TesseractEngine struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseractEngine(cfg TesseractConfig, logger *slog.Logger) *TesseractEngine {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractEngine{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Recognize runs `tesseract <file> stdout -l <lang>` and returns the text.
func (e *TesseractEngine) Recognize(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Binary, path, "stdout", "-l", e.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(strings.TrimSpace(string(errb)), 256))
	}
	return string(out), nil
}
