package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LayerExtractor implements PageTextExtractor on the pure-Go pdf reader. It
// pulls the embedded text layer page by page; scanned PDFs without a text
// layer come back empty, which the pipeline treats as a failed attempt.
type LayerExtractor struct{}

func NewLayerExtractor() LayerExtractor {
	return LayerExtractor{}
}

func (LayerExtractor) ExtractPages(ctx context.Context, path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return strings.TrimSpace(b.String()), nil
}
