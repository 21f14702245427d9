// finsight-upload extracts text from a single receipt and prints the
// suggestion envelope as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/core"
	"github.com/finsight-app/finsight/internal/entity"
	"github.com/finsight-app/finsight/internal/extract"
)

func main() {
	file := flag.String("file", "", "path to a PDF or image receipt")
	lang := flag.String("lang", "eng", "tesseract language")
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

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("failed to read file", "file", *file, "error", err)
		os.Exit(1)
	}

	opts := []extract.Option{
		extract.WithAltPDF(extract.NewLayerExtractor()),
		extract.WithLogger(logger),
	}
	if _, err := exec.LookPath("tesseract"); err == nil {
		opts = append(opts, extract.WithOCR(extract.NewTesseractEngine(extract.TesseractConfig{
			Language: *lang,
		}, logger)))
	}
	pipeline := extract.NewPipeline(extract.NewFitzExtractor(), opts...)
	processor := core.NewProcessor(pipeline, nil, logger)

	res, err := processor.ProcessUpload(context.Background(), entity.RawDocument{
		Content:   data,
		Filename:  filepath.Base(*file),
		MediaType: mime.TypeByExtension(filepath.Ext(*file)),
	})
	if err != nil {
		logger.Error("upload failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
}
