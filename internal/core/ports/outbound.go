package ports

import (
	"context"
	"io"

	"github.com/parseapp/docpreview/internal/core/domain"
)

// ObjectStorage streams uploaded bytes to durable storage under a size cap.
// Save aborts with domain.ErrPayloadTooLarge the moment the running byte
// count exceeds maxBytes and guarantees no partial artifact survives a
// failed write.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader, maxBytes int64) (int64, error)
	Remove(ctx context.Context, key string) error
	Path(key string) string
}

// FileStore is the in-memory source of truth for uploaded files.
type FileStore interface {
	Put(ctx context.Context, file *domain.StoredFile) error
	Get(ctx context.Context, id string) (*domain.StoredFile, error)
	List(ctx context.Context) ([]*domain.StoredFile, error)
	Delete(ctx context.Context, id string) (*domain.StoredFile, error)
	SetPreview(ctx context.Context, id, preview string) error
}

// JobStore tracks locally mirrored parse jobs.
type JobStore interface {
	Put(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, id string) (*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) error
}

// Task names understood by the parse worker.
const (
	TaskParsePDF     = "files.parse_pdf_task"
	TaskParseTabular = "files.parse_excel_task"
)

// TaskPayload is the argument set handed to the executor at submission.
type TaskPayload struct {
	FilePath  string `json:"file_path"`
	CharLimit int    `json:"char_limit"`
}

// TaskState is the executor's last reported state for a handle.
type TaskState struct {
	Status domain.JobStatus
	Result string
	Error  string
}

// TaskExecutor is the narrow contract over the externally owned task
// queue: submit now, poll later. Poll reports the state at the time of
// the query; an unknown handle reads as PENDING.
type TaskExecutor interface {
	Submit(ctx context.Context, taskName string, payload TaskPayload) (string, error)
	Poll(ctx context.Context, handle string) (TaskState, error)
}

// TextExtractor pulls a bounded text preview out of a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, path string, charLimit int) (string, error)
}
