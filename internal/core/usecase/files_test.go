package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/parseapp/docpreview/internal/core/domain"
)

type removeFailingStorage struct {
	*storageFake
	removeErr error
}

func (f *removeFailingStorage) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.storageFake.Remove(ctx, key)
}

func uploadedFile(t *testing.T, storage *storageFake, files *fileStoreFake) *domain.StoredFile {
	t.Helper()
	uc := newUploadUC(storage, files, newJobStoreFake(), &executorFake{}, &previewFake{result: domain.PreviewOK("x")})
	file, err := uc.Upload(context.Background(), domain.MimeCSV, "data.csv", strings.NewReader("a,b\n1,2"))
	if err != nil {
		t.Fatalf("seed upload error = %v", err)
	}
	return file
}

func TestDeleteRemovesBytesAndEntry(t *testing.T) {
	storage := newStorageFake()
	files := newFileStoreFake()
	file := uploadedFile(t, storage, files)

	uc := NewFilesUseCase(files, storage)
	deleted, err := uc.Delete(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.ID != file.ID {
		t.Fatalf("expected deleted record %s, got %s", file.ID, deleted.ID)
	}
	if len(storage.saved) != 0 {
		t.Fatal("expected bytes removed from storage")
	}

	if _, err := uc.Get(context.Background(), file.ID); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := uc.Delete(context.Background(), file.ID); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteKeepsEntryWhenStorageFails(t *testing.T) {
	base := newStorageFake()
	files := newFileStoreFake()
	file := uploadedFile(t, base, files)

	storage := &removeFailingStorage{
		storageFake: base,
		removeErr:   domain.WrapError(domain.ErrStorage, "remove file", errors.New("permission denied")),
	}
	uc := NewFilesUseCase(files, storage)

	_, err := uc.Delete(context.Background(), file.ID)
	if !domain.IsKind(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	// Entry must survive so the delete can be retried.
	if _, err := uc.Get(context.Background(), file.ID); err != nil {
		t.Fatalf("expected entry retained for retry, got %v", err)
	}

	storage.removeErr = nil
	if _, err := uc.Delete(context.Background(), file.ID); err != nil {
		t.Fatalf("expected retried delete to succeed, got %v", err)
	}
}

func TestListReturnsUploadsInOrder(t *testing.T) {
	storage := newStorageFake()
	files := newFileStoreFake()
	first := uploadedFile(t, storage, files)
	second := uploadedFile(t, storage, files)

	uc := NewFilesUseCase(files, storage)
	listed, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 || listed[0].ID != first.ID || listed[1].ID != second.ID {
		t.Fatalf("unexpected listing order: %+v", listed)
	}
}
