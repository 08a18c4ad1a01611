package usecase

import (
	"context"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
)

type FilesUseCase struct {
	files   ports.FileStore
	storage ports.ObjectStorage
}

func NewFilesUseCase(files ports.FileStore, storage ports.ObjectStorage) *FilesUseCase {
	return &FilesUseCase{files: files, storage: storage}
}

func (uc *FilesUseCase) Get(ctx context.Context, id string) (*domain.StoredFile, error) {
	return uc.files.Get(ctx, id)
}

func (uc *FilesUseCase) List(ctx context.Context) ([]*domain.StoredFile, error) {
	return uc.files.List(ctx)
}

// Delete removes the stored bytes first and only then forgets the
// registry entry. A failed physical delete keeps the entry so the
// client can retry.
func (uc *FilesUseCase) Delete(ctx context.Context, id string) (*domain.StoredFile, error) {
	file, err := uc.files.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.storage.Remove(ctx, file.StoragePath); err != nil {
		return nil, err
	}
	return uc.files.Delete(ctx, id)
}
