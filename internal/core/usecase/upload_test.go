package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
)

type storageFake struct {
	saved    map[string][]byte
	saveErr  error
	removed  []string
	maxBytes int64
}

func newStorageFake() *storageFake {
	return &storageFake{saved: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader, maxBytes int64) (int64, error) {
	f.maxBytes = maxBytes
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return 0, domain.WrapError(domain.ErrPayloadTooLarge, "stream upload", errors.New("over cap"))
	}
	f.saved[key] = raw
	return int64(len(raw)), nil
}

func (f *storageFake) Remove(_ context.Context, key string) error {
	delete(f.saved, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *storageFake) Path(key string) string {
	return "/uploads/" + key
}

type fileStoreFake struct {
	files    map[string]*domain.StoredFile
	order    []string
	putErr   error
	previews map[string]string
}

func newFileStoreFake() *fileStoreFake {
	return &fileStoreFake{
		files:    map[string]*domain.StoredFile{},
		previews: map[string]string{},
	}
}

func (f *fileStoreFake) Put(_ context.Context, file *domain.StoredFile) error {
	if f.putErr != nil {
		return f.putErr
	}
	copied := *file
	f.files[file.ID] = &copied
	f.order = append(f.order, file.ID)
	return nil
}

func (f *fileStoreFake) Get(_ context.Context, id string) (*domain.StoredFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get file", fmt.Errorf("id %s", id))
	}
	copied := *file
	return &copied, nil
}

func (f *fileStoreFake) List(_ context.Context) ([]*domain.StoredFile, error) {
	out := make([]*domain.StoredFile, 0, len(f.order))
	for _, id := range f.order {
		if file, ok := f.files[id]; ok {
			copied := *file
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fileStoreFake) Delete(_ context.Context, id string) (*domain.StoredFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "delete file", fmt.Errorf("id %s", id))
	}
	delete(f.files, id)
	copied := *file
	return &copied, nil
}

func (f *fileStoreFake) SetPreview(_ context.Context, id, preview string) error {
	file, ok := f.files[id]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "set preview", fmt.Errorf("id %s", id))
	}
	file.Preview = &preview
	f.previews[id] = preview
	return nil
}

type jobStoreFake struct {
	jobs   map[string]*domain.Job
	putErr error
}

func newJobStoreFake() *jobStoreFake {
	return &jobStoreFake{jobs: map[string]*domain.Job{}}
}

func (f *jobStoreFake) Put(_ context.Context, job *domain.Job) error {
	if f.putErr != nil {
		return f.putErr
	}
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *jobStoreFake) Get(_ context.Context, id string) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get job", fmt.Errorf("id %s", id))
	}
	copied := *job
	return &copied, nil
}

func (f *jobStoreFake) Update(_ context.Context, job *domain.Job) error {
	if _, ok := f.jobs[job.ID]; !ok {
		return domain.WrapError(domain.ErrNotFound, "update job", fmt.Errorf("id %s", job.ID))
	}
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

type submission struct {
	taskName string
	payload  ports.TaskPayload
}

type executorFake struct {
	handle      string
	submitErr   error
	submissions []submission
	state       ports.TaskState
	pollErr     error
	polls       int
}

func (f *executorFake) Submit(_ context.Context, taskName string, payload ports.TaskPayload) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submissions = append(f.submissions, submission{taskName: taskName, payload: payload})
	return f.handle, nil
}

func (f *executorFake) Poll(_ context.Context, _ string) (ports.TaskState, error) {
	f.polls++
	if f.pollErr != nil {
		return ports.TaskState{}, f.pollErr
	}
	return f.state, nil
}

type previewFake struct {
	result    domain.PreviewResult
	lastPath  string
	lastMime  string
	lastLimit int
}

func (f *previewFake) Preview(_ context.Context, path, mime string, charLimit int) domain.PreviewResult {
	f.lastPath = path
	f.lastMime = mime
	f.lastLimit = charLimit
	return f.result
}

func newUploadUC(storage *storageFake, files *fileStoreFake, jobs *jobStoreFake, executor *executorFake, preview *previewFake) *UploadUseCase {
	return NewUploadUseCase(storage, files, jobs, executor, preview, 5*1024*1024, 2000)
}

func TestUploadRejectsUnsupportedMime(t *testing.T) {
	storage := newStorageFake()
	uc := newUploadUC(storage, newFileStoreFake(), newJobStoreFake(), &executorFake{}, &previewFake{})

	_, err := uc.Upload(context.Background(), "image/png", "cat.png", strings.NewReader("bytes"))
	if !domain.IsKind(err, domain.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
	if len(storage.saved) != 0 {
		t.Fatal("expected no bytes written before validation")
	}
}

func TestUploadRejectsMissingFilename(t *testing.T) {
	storage := newStorageFake()
	uc := newUploadUC(storage, newFileStoreFake(), newJobStoreFake(), &executorFake{}, &previewFake{})

	_, err := uc.Upload(context.Background(), domain.MimeCSV, "  ", strings.NewReader("a,b"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(storage.saved) != 0 {
		t.Fatal("expected no bytes written before validation")
	}
}

func TestUploadSyncRegistersFileWithPreview(t *testing.T) {
	storage := newStorageFake()
	files := newFileStoreFake()
	preview := &previewFake{result: domain.PreviewOK("a,b\n1,2")}
	uc := newUploadUC(storage, files, newJobStoreFake(), &executorFake{}, preview)

	payload := bytes.Repeat([]byte("x"), 3*1024*1024)
	file, err := uc.Upload(context.Background(), domain.MimeCSV, "sales report.csv", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if file.Size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), file.Size)
	}
	if file.Preview == nil || *file.Preview != "a,b\n1,2" {
		t.Fatalf("unexpected preview: %v", file.Preview)
	}
	if !strings.HasPrefix(file.StoragePath, file.ID+"__") || !strings.HasSuffix(file.StoragePath, "sales_report.csv") {
		t.Fatalf("unexpected storage key %q", file.StoragePath)
	}
	if preview.lastMime != domain.MimeCSV || preview.lastLimit != 2000 {
		t.Fatalf("unexpected preview call: mime=%q limit=%d", preview.lastMime, preview.lastLimit)
	}
	if _, ok := files.files[file.ID]; !ok {
		t.Fatal("expected file registered")
	}
}

func TestUploadSyncFlattensParsingFailure(t *testing.T) {
	preview := &previewFake{result: domain.PreviewFailed("open pdf: corrupt xref")}
	uc := newUploadUC(newStorageFake(), newFileStoreFake(), newJobStoreFake(), &executorFake{}, preview)

	file, err := uc.Upload(context.Background(), domain.MimePDF, "broken.pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if file.Preview == nil || *file.Preview != "Parsing failed: open pdf: corrupt xref" {
		t.Fatalf("expected flattened failure, got %v", file.Preview)
	}
}

func TestUploadPropagatesCapacityError(t *testing.T) {
	storage := newStorageFake()
	files := newFileStoreFake()
	uc := newUploadUC(storage, files, newJobStoreFake(), &executorFake{}, &previewFake{})

	payload := bytes.Repeat([]byte("x"), 6*1024*1024)
	_, err := uc.Upload(context.Background(), domain.MimeCSV, "big.csv", bytes.NewReader(payload))
	if !domain.IsKind(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if len(files.files) != 0 {
		t.Fatal("expected nothing registered after a rejected upload")
	}
}

func TestUploadAsyncReturnsPendingJob(t *testing.T) {
	storage := newStorageFake()
	files := newFileStoreFake()
	jobs := newJobStoreFake()
	executor := &executorFake{handle: "task-123"}
	uc := newUploadUC(storage, files, jobs, executor, &previewFake{})

	job, err := uc.UploadAsync(context.Background(), domain.MimePDF, "doc.pdf", strings.NewReader("%PDF-1.7"))
	if err != nil {
		t.Fatalf("UploadAsync() error = %v", err)
	}

	if job.ID != "task-123" {
		t.Fatalf("expected job id to equal executor handle, got %q", job.ID)
	}
	if job.Status != domain.JobPending {
		t.Fatalf("expected PENDING, got %s", job.Status)
	}
	if job.Preview != nil || job.Error != nil {
		t.Fatalf("expected empty preview/error at submission, got %+v", job)
	}

	if len(executor.submissions) != 1 {
		t.Fatalf("expected one submission, got %d", len(executor.submissions))
	}
	sub := executor.submissions[0]
	if sub.taskName != ports.TaskParsePDF {
		t.Fatalf("expected pdf task, got %q", sub.taskName)
	}
	if sub.payload.CharLimit != 2000 {
		t.Fatalf("expected char limit 2000, got %d", sub.payload.CharLimit)
	}

	stored, ok := files.files[job.FileID]
	if !ok {
		t.Fatal("expected file registered on the async path")
	}
	if stored.Preview != nil {
		t.Fatal("expected no inline preview on the async path")
	}
	if _, ok := jobs.jobs["task-123"]; !ok {
		t.Fatal("expected job tracked under the executor handle")
	}
}

func TestUploadAsyncDispatchesTabularTask(t *testing.T) {
	executor := &executorFake{handle: "task-csv"}
	uc := newUploadUC(newStorageFake(), newFileStoreFake(), newJobStoreFake(), executor, &previewFake{})

	if _, err := uc.UploadAsync(context.Background(), domain.MimeCSV, "t.csv", strings.NewReader("a,b")); err != nil {
		t.Fatalf("UploadAsync() error = %v", err)
	}
	if executor.submissions[0].taskName != ports.TaskParseTabular {
		t.Fatalf("expected tabular task, got %q", executor.submissions[0].taskName)
	}
}

func TestUploadAsyncSubmitFailureCleansUp(t *testing.T) {
	storage := newStorageFake()
	files := newFileStoreFake()
	executor := &executorFake{submitErr: domain.WrapError(domain.ErrTemporary, "submit", errors.New("broker down"))}
	uc := newUploadUC(storage, files, newJobStoreFake(), executor, &previewFake{})

	_, err := uc.UploadAsync(context.Background(), domain.MimeCSV, "t.csv", strings.NewReader("a,b"))
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	if len(files.files) != 0 {
		t.Fatal("expected registry entry rolled back")
	}
	if len(storage.saved) != 0 {
		t.Fatal("expected stored bytes removed")
	}
}
