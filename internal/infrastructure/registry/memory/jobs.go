package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/parseapp/docpreview/internal/core/domain"
)

type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{
		jobs: make(map[string]*domain.Job),
	}
}

func (r *JobRegistry) Put(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "register job", fmt.Errorf("duplicate id %s", job.ID))
	}
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *JobRegistry) Get(_ context.Context, id string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get job", fmt.Errorf("id %s", id))
	}
	copied := *job
	return &copied, nil
}

func (r *JobRegistry) Update(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; !ok {
		return domain.WrapError(domain.ErrNotFound, "update job", fmt.Errorf("id %s", job.ID))
	}
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}
