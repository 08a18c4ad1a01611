// Package pdf extracts a bounded text preview from PDF documents.
package pdf

import (
	"context"
	"fmt"
	"strings"

	pdfreader "github.com/ledongthuc/pdf"

	"github.com/parseapp/docpreview/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract walks pages in order, accumulating text until charLimit is
// reached, and returns at most charLimit characters trimmed of
// surrounding whitespace. A document with no recoverable text yields the
// scanned-image sentinel rather than an error.
func (e *Extractor) Extract(ctx context.Context, path string, charLimit int) (string, error) {
	f, reader, err := pdfreader.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var parts []string
	var accumulated int
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", pageNum, err)
		}
		if text != "" {
			parts = append(parts, text)
			accumulated += len([]rune(text))
		}
		if accumulated >= charLimit {
			break
		}
	}

	full := strings.TrimSpace(strings.Join(parts, ""))
	if full == "" {
		return domain.PreviewNoPDFText, nil
	}
	return domain.TruncateChars(full, charLimit), nil
}
