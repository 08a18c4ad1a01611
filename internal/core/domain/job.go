package domain

import "time"

type JobStatus string

// Job states mirror the executor's task states. SUCCESS, FAILURE and
// REVOKED are terminal; RETRY loops back toward STARTED.
const (
	JobPending JobStatus = "PENDING"
	JobStarted JobStatus = "STARTED"
	JobSuccess JobStatus = "SUCCESS"
	JobFailure JobStatus = "FAILURE"
	JobRetry   JobStatus = "RETRY"
	JobRevoked JobStatus = "REVOKED"
)

func (s JobStatus) Terminal() bool {
	switch s {
	case JobSuccess, JobFailure, JobRevoked:
		return true
	}
	return false
}

// Job is the local mirror of an asynchronously executed parse task.
// ID doubles as the executor's task handle.
type Job struct {
	ID        string    `json:"id"`
	FileID    string    `json:"file_id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime"`
	FilePath  string    `json:"-"`
	Size      int64     `json:"size"`
	Status    JobStatus `json:"status"`
	Preview   *string   `json:"preview"`
	Error     *string   `json:"error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobInfo is the client-facing projection returned from the poll endpoint.
type JobInfo struct {
	ID       string    `json:"id"`
	FileID   string    `json:"file_id,omitempty"`
	FileName string    `json:"file_name"`
	MimeType string    `json:"mime"`
	Status   JobStatus `json:"status"`
	Preview  *string   `json:"preview"`
	Error    *string   `json:"error"`
}

func (j *Job) Info() JobInfo {
	return JobInfo{
		ID:       j.ID,
		FileID:   j.FileID,
		FileName: j.FileName,
		MimeType: j.MimeType,
		Status:   j.Status,
		Preview:  j.Preview,
		Error:    j.Error,
	}
}
