package usecase

import (
	"context"
	"time"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
)

type JobsUseCase struct {
	jobs     ports.JobStore
	files    ports.FileStore
	executor ports.TaskExecutor
	now      func() time.Time
}

func NewJobsUseCase(jobs ports.JobStore, files ports.FileStore, executor ports.TaskExecutor) *JobsUseCase {
	return &JobsUseCase{
		jobs:     jobs,
		files:    files,
		executor: executor,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetJob reconciles the local job mirror against the executor's state at
// the time of the query. Once a job is terminal its preview and error
// are frozen and the poll becomes an idempotent local read.
func (uc *JobsUseCase) GetJob(ctx context.Context, id string) (domain.JobInfo, error) {
	job, err := uc.jobs.Get(ctx, id)
	if err != nil {
		return domain.JobInfo{}, err
	}
	if job.Status.Terminal() {
		return job.Info(), nil
	}

	state, err := uc.executor.Poll(ctx, job.ID)
	if err != nil {
		// A failed poll is a transport problem, not a failed task;
		// the caller can retry without the job changing state.
		return domain.JobInfo{}, err
	}

	job.Status = state.Status
	job.UpdatedAt = uc.now()

	switch state.Status {
	case domain.JobSuccess:
		preview := state.Result
		job.Preview = &preview
		job.Error = nil
		// Mirror the resolved preview into the file record so the sync
		// and async paths converge on the same read model. The file may
		// have been deleted while the job ran; that is not a poll error.
		if err := uc.files.SetPreview(ctx, job.FileID, preview); err != nil && !domain.IsKind(err, domain.ErrNotFound) {
			return domain.JobInfo{}, err
		}
	case domain.JobFailure, domain.JobRevoked:
		if state.Error != "" {
			reason := state.Error
			job.Error = &reason
		}
	}

	if err := uc.jobs.Update(ctx, job); err != nil {
		return domain.JobInfo{}, err
	}
	return job.Info(), nil
}
