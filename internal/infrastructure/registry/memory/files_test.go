package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/parseapp/docpreview/internal/core/domain"
)

func storedFile(id string) *domain.StoredFile {
	now := time.Now().UTC()
	return &domain.StoredFile{
		ID:          id,
		Name:        id + ".csv",
		MimeType:    domain.MimeCSV,
		Size:        42,
		StoragePath: id + "__" + id + ".csv",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestFileRegistryListKeepsInsertionOrder(t *testing.T) {
	reg := NewFileRegistry()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := reg.Put(ctx, storedFile(fmt.Sprintf("f%d", i))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	files, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 5 {
		t.Fatalf("expected 5 files, got %d", len(files))
	}
	for i, f := range files {
		if f.ID != fmt.Sprintf("f%d", i) {
			t.Fatalf("expected f%d at position %d, got %s", i, i, f.ID)
		}
	}
}

func TestFileRegistryRejectsDuplicateID(t *testing.T) {
	reg := NewFileRegistry()
	ctx := context.Background()

	if err := reg.Put(ctx, storedFile("dup")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	err := reg.Put(ctx, storedFile("dup"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFileRegistryDeleteThenGetNotFound(t *testing.T) {
	reg := NewFileRegistry()
	ctx := context.Background()

	if err := reg.Put(ctx, storedFile("gone")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	deleted, err := reg.Delete(ctx, "gone")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.ID != "gone" {
		t.Fatalf("expected deleted record, got %+v", deleted)
	}

	if _, err := reg.Get(ctx, "gone"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := reg.Delete(ctx, "gone"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	files, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(files))
	}
}

func TestFileRegistrySetPreview(t *testing.T) {
	reg := NewFileRegistry()
	ctx := context.Background()

	if err := reg.Put(ctx, storedFile("p1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := reg.SetPreview(ctx, "p1", "col_a,col_b"); err != nil {
		t.Fatalf("SetPreview() error = %v", err)
	}
	file, err := reg.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if file.Preview == nil || *file.Preview != "col_a,col_b" {
		t.Fatalf("expected preview mirrored, got %+v", file.Preview)
	}

	if err := reg.SetPreview(ctx, "missing", "x"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileRegistryGetReturnsCopy(t *testing.T) {
	reg := NewFileRegistry()
	ctx := context.Background()

	if err := reg.Put(ctx, storedFile("c1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	first, _ := reg.Get(ctx, "c1")
	first.Name = "mutated"

	second, _ := reg.Get(ctx, "c1")
	if second.Name != "c1.csv" {
		t.Fatalf("registry entry mutated through returned pointer: %q", second.Name)
	}
}
