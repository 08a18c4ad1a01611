// Package nats adapts the externally owned task queue to the narrow
// submit/poll contract. Tasks travel as JSON on a tasks subject; workers
// report progress on a status subject, which the API side mirrors into a
// local result backend that Poll reads.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
	"github.com/parseapp/docpreview/internal/infrastructure/resilience"
)

type taskMessage struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	FilePath  string `json:"file_path"`
	CharLimit int    `json:"char_limit"`
}

type statusMessage struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Executor struct {
	conn          *nats.Conn
	tasksSubject  string
	statusSubject string
	executor      *resilience.Executor
	backend       *resultBackend
	statusSub     *nats.Subscription
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, tasksSubject, statusSubject string) (*Executor, error) {
	return NewWithOptions(url, tasksSubject, statusSubject, Options{})
}

func NewWithOptions(url, tasksSubject, statusSubject string, options Options) (*Executor, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("docpreview"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	e := &Executor{
		conn:          conn,
		tasksSubject:  tasksSubject,
		statusSubject: statusSubject,
		executor:      options.ResilienceExecutor,
		backend:       newResultBackend(),
	}
	return e, nil
}

// SubscribeStatus starts mirroring worker status updates into the local
// result backend. The API process calls this once at startup; the worker
// process never does.
func (e *Executor) SubscribeStatus() error {
	sub, err := e.conn.Subscribe(e.statusSubject, func(msg *nats.Msg) {
		var status statusMessage
		if err := json.Unmarshal(msg.Data, &status); err != nil {
			slog.Warn("drop malformed status update", "error", err)
			return
		}
		e.backend.apply(status)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe status: %w", err)
	}
	e.statusSub = sub
	return nil
}

func (e *Executor) Close() {
	if e.statusSub != nil {
		_ = e.statusSub.Drain()
	}
	if e.conn != nil {
		e.conn.Close()
	}
}

// Submit publishes a parse task and returns its handle. The handle is
// generated here so the job record can be created before any worker
// reports back.
func (e *Executor) Submit(ctx context.Context, taskName string, payload ports.TaskPayload) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(taskMessage{
		ID:        id,
		Task:      taskName,
		FilePath:  payload.FilePath,
		CharLimit: payload.CharLimit,
	})
	if err != nil {
		return "", fmt.Errorf("encode task: %w", err)
	}

	call := func(_ context.Context) error {
		if err := e.conn.Publish(e.tasksSubject, raw); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if e.executor != nil {
		err = e.executor.Execute(ctx, "nats.submit", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded("nats submit", err)
	}
	return id, nil
}

// Poll reports the last state the workers published for the handle. A
// handle with no recorded state reads as PENDING, unless the connection
// is down, in which case the caller gets a retryable transport error
// rather than a misleading PENDING.
func (e *Executor) Poll(_ context.Context, handle string) (ports.TaskState, error) {
	state, known := e.backend.get(handle)
	if known {
		return state, nil
	}
	if status := e.conn.Status(); status != nats.CONNECTED {
		return ports.TaskState{}, domain.WrapError(
			domain.ErrTemporary,
			"nats poll",
			fmt.Errorf("connection %s", status),
		)
	}
	return ports.TaskState{Status: domain.JobPending}, nil
}

// TaskHandler executes one task and returns its preview text.
type TaskHandler func(ctx context.Context, taskName string, payload ports.TaskPayload) (string, error)

// Run consumes the tasks subject in the workers queue group, publishing
// STARTED and then a terminal status for each task. It blocks until ctx
// is cancelled and drains the subscription on the way out.
func (e *Executor) Run(ctx context.Context, handler TaskHandler) error {
	sub, err := e.conn.QueueSubscribe(e.tasksSubject, "workers", func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		var task taskMessage
		if err := json.Unmarshal(msg.Data, &task); err != nil {
			slog.Warn("drop malformed task", "error", err)
			return
		}

		e.publishStatus(statusMessage{ID: task.ID, Status: string(domain.JobStarted)})

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		result, err := handler(handlerCtx, task.Task, ports.TaskPayload{
			FilePath:  task.FilePath,
			CharLimit: task.CharLimit,
		})

		switch {
		case err == nil:
			e.publishStatus(statusMessage{ID: task.ID, Status: string(domain.JobSuccess), Result: result})
		case errors.Is(err, context.Canceled):
			e.publishStatus(statusMessage{ID: task.ID, Status: string(domain.JobRevoked), Error: "task cancelled"})
		default:
			e.publishStatus(statusMessage{ID: task.ID, Status: string(domain.JobFailure), Error: err.Error()})
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe tasks: %w", err)
	}

	if err := e.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := e.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func (e *Executor) publishStatus(status statusMessage) {
	raw, err := json.Marshal(status)
	if err != nil {
		slog.Error("encode status update", "task_id", status.ID, "error", err)
		return
	}
	if err := e.conn.Publish(e.statusSubject, raw); err != nil {
		slog.Error("publish status update", "task_id", status.ID, "error", err)
	}
}
