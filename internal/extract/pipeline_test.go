package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/finsight-app/finsight/internal/entity"
)

type stubBuffer struct {
	text  string
	err   error
	calls int
}

func (s *stubBuffer) ExtractBuffer(_ context.Context, _ []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubPages struct {
	text    string
	err     error
	gotPath string
	gotMax  int
	statErr error
}

func (s *stubPages) ExtractPages(_ context.Context, path string, maxPages int) (string, error) {
	s.gotPath = path
	s.gotMax = maxPages
	_, s.statErr = os.Stat(path)
	return s.text, s.err
}

type stubOCR struct {
	text    string
	err     error
	gotPath string
	content []byte
}

func (s *stubOCR) Recognize(_ context.Context, path string) (string, error) {
	s.gotPath = path
	s.content, _ = os.ReadFile(path)
	return s.text, s.err
}

func pdfDoc() entity.RawDocument {
	return entity.RawDocument{Content: []byte("%PDF-1.4 fake"), Filename: "statement.pdf", MediaType: "application/pdf"}
}

func imageDoc() entity.RawDocument {
	return entity.RawDocument{Content: []byte{0x89, 'P', 'N', 'G'}, Filename: "receipt.png", MediaType: "image/png"}
}

func TestExtractPDFPrimarySuccess(t *testing.T) {
	primary := &stubBuffer{text: "Total: Rs. 100"}
	alt := &stubPages{text: "should not be used"}
	p := NewPipeline(primary, WithAltPDF(alt))

	got := p.Extract(context.Background(), pdfDoc())
	if got.Text != "Total: Rs. 100" || got.Method != MethodPDFText || got.Warning != "" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if alt.gotPath != "" {
		t.Error("secondary engine was invoked despite primary success")
	}
}

func TestExtractPDFFallsBackToSecondary(t *testing.T) {
	primary := &stubBuffer{err: errors.New("bad xref")}
	alt := &stubPages{text: "layer text"}
	p := NewPipeline(primary, WithAltPDF(alt), WithMaxPDFPages(3))

	got := p.Extract(context.Background(), pdfDoc())
	if got.Text != "layer text" || got.Method != MethodPDFLayer || got.Warning != "" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if alt.gotMax != 3 {
		t.Errorf("page cap = %d, want 3", alt.gotMax)
	}
	if alt.statErr != nil {
		t.Errorf("temp file missing while secondary engine ran: %v", alt.statErr)
	}
	if _, err := os.Stat(alt.gotPath); !os.IsNotExist(err) {
		t.Errorf("temp file %q not cleaned up after extraction", alt.gotPath)
	}
	if _, err := os.Stat(filepath.Dir(alt.gotPath)); !os.IsNotExist(err) {
		t.Errorf("temp dir %q not cleaned up after extraction", filepath.Dir(alt.gotPath))
	}
}

func TestExtractPDFBothStrategiesFail(t *testing.T) {
	primary := &stubBuffer{err: errors.New("bad xref")}
	alt := &stubPages{err: errors.New("no text layer")}
	p := NewPipeline(primary, WithAltPDF(alt))

	got := p.Extract(context.Background(), pdfDoc())
	if got.Text != "" || got.Method != "" {
		t.Fatalf("expected empty extraction, got %+v", got)
	}
	if !strings.Contains(got.Warning, "PDF parsing failed") || !strings.Contains(got.Warning, "bad xref") {
		t.Errorf("warning %q should name the primary failure", got.Warning)
	}
	// Cleanup must happen even though the strategy errored.
	if _, err := os.Stat(alt.gotPath); !os.IsNotExist(err) {
		t.Errorf("temp file %q leaked after failed fallback", alt.gotPath)
	}
}

func TestExtractPDFEmptyPrimaryWithoutSecondary(t *testing.T) {
	primary := &stubBuffer{text: "   \n\t  "}
	p := NewPipeline(primary)

	got := p.Extract(context.Background(), pdfDoc())
	if got.Text != "" {
		t.Fatalf("expected empty text, got %q", got.Text)
	}
	if !strings.Contains(got.Warning, "empty text layer") {
		t.Errorf("warning %q should name the empty-text cause", got.Warning)
	}
}

func TestExtractImageWithOCR(t *testing.T) {
	ocr := &stubOCR{text: "Grand Total Rs. 42"}
	p := NewPipeline(&stubBuffer{}, WithOCR(ocr))

	doc := imageDoc()
	got := p.Extract(context.Background(), doc)
	if got.Text != "Grand Total Rs. 42" || got.Method != MethodImageOCR {
		t.Fatalf("unexpected result: %+v", got)
	}
	if string(ocr.content) != string(doc.Content) {
		t.Error("OCR engine did not receive the document bytes")
	}
	if filepath.Ext(ocr.gotPath) != ".png" {
		t.Errorf("temp file %q should carry the image extension", ocr.gotPath)
	}
	if _, err := os.Stat(ocr.gotPath); !os.IsNotExist(err) {
		t.Errorf("temp file %q not cleaned up", ocr.gotPath)
	}
}

func TestExtractImageOCRFailure(t *testing.T) {
	ocr := &stubOCR{err: errors.New("tesseract: exit status 1")}
	p := NewPipeline(&stubBuffer{}, WithOCR(ocr))

	got := p.Extract(context.Background(), imageDoc())
	if got.Text != "" || got.Method != "" {
		t.Fatalf("expected empty extraction, got %+v", got)
	}
	if !strings.Contains(got.Warning, "OCR failed") {
		t.Errorf("warning %q should name the OCR failure", got.Warning)
	}
	if _, err := os.Stat(ocr.gotPath); !os.IsNotExist(err) {
		t.Errorf("temp file %q leaked after failed OCR", ocr.gotPath)
	}
}

func TestExtractImageWithoutOCR(t *testing.T) {
	p := NewPipeline(&stubBuffer{})

	got := p.Extract(context.Background(), imageDoc())
	if got.Text != "" || got.Warning == "" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if !strings.Contains(got.Warning, "OCR is not configured") {
		t.Errorf("warning %q should say OCR is not configured", got.Warning)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	p := NewPipeline(&stubBuffer{text: "never"})

	doc := entity.RawDocument{Content: []byte("hello"), Filename: "notes.txt", MediaType: "text/plain"}
	got := p.Extract(context.Background(), doc)
	if got.Text != "" || !strings.Contains(got.Warning, "unsupported file type") {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	primary := &stubBuffer{text: "same text"}
	p := NewPipeline(primary)

	doc := pdfDoc()
	first := p.Extract(context.Background(), doc)
	second := p.Extract(context.Background(), doc)
	if first != second {
		t.Errorf("extraction not idempotent: %+v vs %+v", first, second)
	}
}
