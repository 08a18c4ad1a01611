package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
)

type UploadUseCase struct {
	storage      ports.ObjectStorage
	files        ports.FileStore
	jobs         ports.JobStore
	executor     ports.TaskExecutor
	preview      ports.PreviewProvider
	maxBytes     int64
	previewChars int
}

func NewUploadUseCase(
	storage ports.ObjectStorage,
	files ports.FileStore,
	jobs ports.JobStore,
	executor ports.TaskExecutor,
	preview ports.PreviewProvider,
	maxBytes int64,
	previewChars int,
) *UploadUseCase {
	return &UploadUseCase{
		storage:      storage,
		files:        files,
		jobs:         jobs,
		executor:     executor,
		preview:      preview,
		maxBytes:     maxBytes,
		previewChars: previewChars,
	}
}

type ingested struct {
	id   string
	key  string
	size int64
}

// ingest validates and streams the upload. It deliberately stops short
// of registering a file so the sync and async paths can share it.
func (uc *UploadUseCase) ingest(ctx context.Context, contentType, filename string, body io.Reader) (ingested, error) {
	if !domain.IsAllowedMime(contentType) {
		return ingested{}, domain.WrapError(
			domain.ErrUnsupportedMedia,
			"validate upload",
			fmt.Errorf("mime %q", contentType),
		)
	}
	if strings.TrimSpace(filename) == "" {
		return ingested{}, domain.WrapError(
			domain.ErrInvalidInput,
			"validate upload",
			fmt.Errorf("missing original file name"),
		)
	}

	id := uuid.NewString()
	key := fmt.Sprintf("%s__%s", id, sanitizeFilename(filename))

	size, err := uc.storage.Save(ctx, key, body, uc.maxBytes)
	if err != nil {
		return ingested{}, err
	}
	return ingested{id: id, key: key, size: size}, nil
}

// Upload is the synchronous path: the preview is computed inline and the
// file is returned fully populated.
func (uc *UploadUseCase) Upload(ctx context.Context, contentType, filename string, body io.Reader) (*domain.StoredFile, error) {
	in, err := uc.ingest(ctx, contentType, filename, body)
	if err != nil {
		return nil, err
	}

	result := uc.preview.Preview(ctx, uc.storage.Path(in.key), contentType, uc.previewChars)
	display := result.Display()

	now := time.Now().UTC()
	file := &domain.StoredFile{
		ID:          in.id,
		Name:        filename,
		MimeType:    contentType,
		Size:        in.size,
		StoragePath: in.key,
		Preview:     &display,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.files.Put(ctx, file); err != nil {
		_ = uc.storage.Remove(ctx, in.key)
		return nil, err
	}
	return file, nil
}

// UploadAsync ingests the same way but defers extraction to the
// executor, returning a PENDING job tracked under the executor's handle.
func (uc *UploadUseCase) UploadAsync(ctx context.Context, contentType, filename string, body io.Reader) (*domain.Job, error) {
	in, err := uc.ingest(ctx, contentType, filename, body)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	file := &domain.StoredFile{
		ID:          in.id,
		Name:        filename,
		MimeType:    contentType,
		Size:        in.size,
		StoragePath: in.key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.files.Put(ctx, file); err != nil {
		_ = uc.storage.Remove(ctx, in.key)
		return nil, err
	}

	handle, err := uc.executor.Submit(ctx, TaskNameFor(contentType), ports.TaskPayload{
		FilePath:  uc.storage.Path(in.key),
		CharLimit: uc.previewChars,
	})
	if err != nil {
		_, _ = uc.files.Delete(ctx, in.id)
		_ = uc.storage.Remove(ctx, in.key)
		return nil, err
	}

	job := &domain.Job{
		ID:        handle,
		FileID:    in.id,
		FileName:  filename,
		MimeType:  contentType,
		FilePath:  uc.storage.Path(in.key),
		Size:      in.size,
		Status:    domain.JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.jobs.Put(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
