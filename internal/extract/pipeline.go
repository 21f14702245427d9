package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/finsight-app/finsight/constants"
	"github.com/finsight-app/finsight/internal/entity"
)

// DefaultMaxPDFPages caps the secondary text-layer strategy so a pathological
// statement cannot stall an upload.
const DefaultMaxPDFPages = 5

// Pipeline turns a RawDocument into ExtractedText by running an ordered chain
// of strategies until one yields non-empty text. The secondary PDF engine and
// the OCR engine are optional capabilities; nil means not configured. Extract
// never fails outward: every internal failure is demoted to a warning so the
// caller can still answer the upload.
type Pipeline struct {
	primary     BufferTextExtractor
	altPDF      PageTextExtractor
	ocr         OCREngine
	maxPDFPages int
	logger      *slog.Logger
}

type Option func(*Pipeline)

func WithAltPDF(e PageTextExtractor) Option {
	return func(p *Pipeline) { p.altPDF = e }
}

func WithOCR(e OCREngine) Option {
	return func(p *Pipeline) { p.ocr = e }
}

func WithMaxPDFPages(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPDFPages = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPipeline(primary BufferTextExtractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		primary:     primary,
		maxPDFPages: DefaultMaxPDFPages,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Extract classifies the document and runs the strategy chain for its format.
func (p *Pipeline) Extract(ctx context.Context, doc entity.RawDocument) entity.ExtractedText {
	switch constants.DetectFormat(doc.Filename, doc.MediaType) {
	case constants.PDF:
		return p.extractPDF(ctx, doc)
	case constants.IMAGE:
		return p.extractImage(ctx, doc)
	default:
		p.logger.Warn("unsupported upload", "filename", doc.Filename, "media_type", doc.MediaType)
		return entity.ExtractedText{
			Warning: fmt.Sprintf("unsupported file type %q: upload a PDF or an image", doc.MediaType),
		}
	}
}

func (p *Pipeline) extractPDF(ctx context.Context, doc entity.RawDocument) entity.ExtractedText {
	text, err := p.primary.ExtractBuffer(ctx, doc.Content)
	if err == nil && strings.TrimSpace(text) != "" {
		return entity.ExtractedText{Text: text, Method: MethodPDFText}
	}

	// Keep the primary failure: it is what we surface if the fallback cannot
	// produce text either.
	reason := "empty text layer"
	if err != nil {
		reason = err.Error()
	}
	p.logger.Warn("primary PDF extraction failed", "filename", doc.Filename, "reason", reason)

	if p.altPDF != nil {
		if out, ok := p.extractPDFLayer(ctx, doc); ok {
			return out
		}
	}
	return entity.ExtractedText{Warning: fmt.Sprintf("PDF parsing failed (%s)", reason)}
}

// extractPDFLayer runs the secondary engine against a scoped temporary copy
// of the buffer. The temp directory is removed on every exit path.
func (p *Pipeline) extractPDFLayer(ctx context.Context, doc entity.RawDocument) (entity.ExtractedText, bool) {
	path, cleanup, err := writeTemp(doc.Content, ".pdf")
	if err != nil {
		p.logger.Error("temp file for PDF fallback failed", "filename", doc.Filename, "error", err)
		return entity.ExtractedText{}, false
	}
	defer cleanup()

	text, err := p.altPDF.ExtractPages(ctx, path, p.maxPDFPages)
	if err != nil || strings.TrimSpace(text) == "" {
		p.logger.Warn("secondary PDF extraction failed", "filename", doc.Filename, "error", err)
		return entity.ExtractedText{}, false
	}
	return entity.ExtractedText{Text: text, Method: MethodPDFLayer}, true
}

func (p *Pipeline) extractImage(ctx context.Context, doc entity.RawDocument) entity.ExtractedText {
	if p.ocr == nil {
		return entity.ExtractedText{
			Warning: "OCR is not configured: upload a PDF or configure an OCR engine",
		}
	}

	ext := strings.ToLower(filepath.Ext(doc.Filename))
	if ext == "" {
		ext = ".png"
	}
	path, cleanup, err := writeTemp(doc.Content, ext)
	if err != nil {
		return entity.ExtractedText{Warning: fmt.Sprintf("OCR failed (%v)", err)}
	}
	defer cleanup()

	text, err := p.ocr.Recognize(ctx, path)
	if err != nil {
		return entity.ExtractedText{Warning: fmt.Sprintf("OCR failed (%v)", err)}
	}
	return entity.ExtractedText{Text: text, Method: MethodImageOCR}
}
