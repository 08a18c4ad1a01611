// Package memory holds the volatile registries. They are rebuilt empty on
// process restart on purpose: durability for file and job metadata is out
// of scope, the uploaded bytes themselves live on disk.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/parseapp/docpreview/internal/core/domain"
)

type FileRegistry struct {
	mu    sync.RWMutex
	files map[string]*domain.StoredFile
	order []string
}

func NewFileRegistry() *FileRegistry {
	return &FileRegistry{
		files: make(map[string]*domain.StoredFile),
	}
}

func (r *FileRegistry) Put(_ context.Context, file *domain.StoredFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.files[file.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "register file", fmt.Errorf("duplicate id %s", file.ID))
	}
	copied := *file
	r.files[file.ID] = &copied
	r.order = append(r.order, file.ID)
	return nil
}

func (r *FileRegistry) Get(_ context.Context, id string) (*domain.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, ok := r.files[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get file", fmt.Errorf("id %s", id))
	}
	copied := *file
	return &copied, nil
}

// List returns files in insertion order.
func (r *FileRegistry) List(_ context.Context) ([]*domain.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.StoredFile, 0, len(r.order))
	for _, id := range r.order {
		if file, ok := r.files[id]; ok {
			copied := *file
			out = append(out, &copied)
		}
	}
	return out, nil
}

// Delete removes the entry and returns the removed record.
func (r *FileRegistry) Delete(_ context.Context, id string) (*domain.StoredFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "delete file", fmt.Errorf("id %s", id))
	}
	delete(r.files, id)
	for i, fid := range r.order {
		if fid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	copied := *file
	return &copied, nil
}

func (r *FileRegistry) SetPreview(_ context.Context, id, preview string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "set preview", fmt.Errorf("id %s", id))
	}
	file.Preview = &preview
	file.UpdatedAt = time.Now().UTC()
	return nil
}
