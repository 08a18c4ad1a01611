package nats

import (
	"sync"

	"github.com/parseapp/docpreview/internal/core/domain"
	"github.com/parseapp/docpreview/internal/core/ports"
)

// resultBackend mirrors the workers' status updates so Poll never has to
// make a remote call. Terminal states stick: a late or reordered update
// cannot regress a finished task.
type resultBackend struct {
	mu     sync.RWMutex
	states map[string]ports.TaskState
}

func newResultBackend() *resultBackend {
	return &resultBackend{states: make(map[string]ports.TaskState)}
}

func (b *resultBackend) apply(status statusMessage) {
	next := ports.TaskState{
		Status: domain.JobStatus(status.Status),
		Result: status.Result,
		Error:  status.Error,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if current, ok := b.states[status.ID]; ok && current.Status.Terminal() {
		return
	}
	b.states[status.ID] = next
}

func (b *resultBackend) get(id string) (ports.TaskState, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	state, ok := b.states[id]
	return state, ok
}
