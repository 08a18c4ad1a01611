package ports

import (
	"context"
	"io"

	"github.com/parseapp/docpreview/internal/core/domain"
)

// FileUploader is the inbound contract for the upload pipeline.
type FileUploader interface {
	Upload(ctx context.Context, contentType, filename string, body io.Reader) (*domain.StoredFile, error)
	UploadAsync(ctx context.Context, contentType, filename string, body io.Reader) (*domain.Job, error)
}

// FileReader serves the file read model.
type FileReader interface {
	Get(ctx context.Context, id string) (*domain.StoredFile, error)
	List(ctx context.Context) ([]*domain.StoredFile, error)
	Delete(ctx context.Context, id string) (*domain.StoredFile, error)
}

// JobPoller reconciles a tracked job against the executor on each read.
type JobPoller interface {
	GetJob(ctx context.Context, id string) (domain.JobInfo, error)
}

// PreviewProvider dispatches to a format extractor and never fails hard.
type PreviewProvider interface {
	Preview(ctx context.Context, path, mime string, charLimit int) domain.PreviewResult
}
