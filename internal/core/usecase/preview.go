package usecase

import (
	"context"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
)

// PreviewDispatcher routes a stored document to the format extractor
// matching its mime type. Extraction failures are captured as a tagged
// result, never as an error: a preview is advisory and must not block
// the upload.
type PreviewDispatcher struct {
	pdf     ports.TextExtractor
	tabular ports.TextExtractor
}

func NewPreviewDispatcher(pdf, tabular ports.TextExtractor) *PreviewDispatcher {
	return &PreviewDispatcher{pdf: pdf, tabular: tabular}
}

func (d *PreviewDispatcher) Preview(ctx context.Context, path, mime string, charLimit int) domain.PreviewResult {
	if charLimit <= 0 {
		charLimit = domain.DefaultPreviewSize
	}

	extractor := d.tabular
	if mime == domain.MimePDF {
		extractor = d.pdf
	}

	text, err := extractor.Extract(ctx, path, charLimit)
	if err != nil {
		return domain.PreviewFailed(err.Error())
	}
	return domain.PreviewOK(text)
}

// TaskNameFor applies the same dispatch rule at job submission time.
func TaskNameFor(mime string) string {
	if mime == domain.MimePDF {
		return ports.TaskParsePDF
	}
	return ports.TaskParseTabular
}
