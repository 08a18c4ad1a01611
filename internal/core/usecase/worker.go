package usecase

import (
	"context"
	"fmt"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
)

// ParseTaskUseCase executes submitted parse tasks on the worker side.
// An extraction error here becomes the job's FAILURE reason.
type ParseTaskUseCase struct {
	pdf     ports.TextExtractor
	tabular ports.TextExtractor
}

func NewParseTaskUseCase(pdf, tabular ports.TextExtractor) *ParseTaskUseCase {
	return &ParseTaskUseCase{pdf: pdf, tabular: tabular}
}

func (uc *ParseTaskUseCase) Handle(ctx context.Context, taskName string, payload ports.TaskPayload) (string, error) {
	charLimit := payload.CharLimit
	if charLimit <= 0 {
		charLimit = domain.DefaultPreviewSize
	}

	switch taskName {
	case ports.TaskParsePDF:
		return uc.pdf.Extract(ctx, payload.FilePath, charLimit)
	case ports.TaskParseTabular:
		return uc.tabular.Extract(ctx, payload.FilePath, charLimit)
	default:
		return "", fmt.Errorf("unknown task %q", taskName)
	}
}
