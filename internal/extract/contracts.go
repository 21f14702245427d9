package extract

import (
	"context"

	"github.com/finsight-app/finsight/internal/entity"
)

// Strategy identifiers recorded on ExtractedText.Method.
const (
	MethodPDFText  = "pdf-text"  // structural extraction straight from the buffer
	MethodPDFLayer = "pdf-layer" // page-by-page text layer via the secondary engine
	MethodImageOCR = "image-ocr"
)

// TextExtractor is the pipeline contract: document in, best-effort text out.
// Implementations never return an error; failures become the warning field.
type TextExtractor interface {
	Extract(ctx context.Context, doc entity.RawDocument) entity.ExtractedText
}

// BufferTextExtractor is the primary PDF strategy, operating directly on the
// document bytes.
type BufferTextExtractor interface {
	ExtractBuffer(ctx context.Context, content []byte) (string, error)
}

// PageTextExtractor is an optional secondary PDF engine that reads the text
// layer page by page from a file on disk, capped at maxPages to bound latency.
// Its absence (a nil field in the pipeline) is configuration, not an error.
type PageTextExtractor interface {
	ExtractPages(ctx context.Context, path string, maxPages int) (string, error)
}

// OCREngine is an optional capability turning an image file into text.
type OCREngine interface {
	Recognize(ctx context.Context, path string) (string, error)
}
