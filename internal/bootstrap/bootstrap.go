// Package bootstrap wires the concrete infrastructure into the use cases
// shared by the API and worker binaries.
package bootstrap

import (
	"fmt"

	"github.com/parseapp/docpreview/internal/config"
	"github.com/parseapp/docpreview/internal/core/usecase"
	natsexec "github.com/parseapp/docpreview/internal/infrastructure/executor/nats"
	"github.com/parseapp/docpreview/internal/infrastructure/parser/pdf"
	"github.com/parseapp/docpreview/internal/infrastructure/parser/tabular"
	"github.com/parseapp/docpreview/internal/infrastructure/registry/memory"
	"github.com/parseapp/docpreview/internal/infrastructure/resilience"
	"github.com/parseapp/docpreview/internal/infrastructure/storage/localfs"
)

// App holds every long-lived dependency of a docpreview process. The API
// and the worker build the same graph; each binary uses the slice of it
// that it needs.
type App struct {
	Config   config.Config
	Executor *natsexec.Executor

	Uploader *usecase.UploadUseCase
	Files    *usecase.FilesUseCase
	Jobs     *usecase.JobsUseCase
	Tasks    *usecase.ParseTaskUseCase
}

func New(cfg config.Config) (*App, error) {
	storage, err := localfs.New(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	files := memory.NewFileRegistry()
	jobs := memory.NewJobRegistry()

	pdfExtractor := pdf.NewExtractor()
	tabularExtractor := tabular.NewExtractor()
	previews := usecase.NewPreviewDispatcher(pdfExtractor, tabularExtractor)

	executor, err := natsexec.NewWithOptions(
		cfg.NATSURL,
		cfg.NATSTasksSubject,
		cfg.NATSStatusSubject,
		natsexec.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultPolicy()),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("init task executor: %w", err)
	}

	return &App{
		Config:   cfg,
		Executor: executor,
		Uploader: usecase.NewUploadUseCase(
			storage, files, jobs, executor, previews,
			cfg.MaxUploadBytes, cfg.PreviewChars,
		),
		Files: usecase.NewFilesUseCase(files, storage),
		Jobs:  usecase.NewJobsUseCase(jobs, files, executor),
		Tasks: usecase.NewParseTaskUseCase(pdfExtractor, tabularExtractor),
	}, nil
}

func (a *App) Close() {
	if a.Executor != nil {
		a.Executor.Close()
	}
}
