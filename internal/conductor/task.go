package conductor

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/node-inspector/internal/models"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
)

// Task is a lock over one node and its driver, scoped to a single operation.
// Every task must be released, including on error paths.
type Task struct {
	Node   *models.Node
	Driver *Driver
	Shared bool

	ctx     context.Context
	manager *TaskManager
	purpose string

	initialState models.ProvisionState
	initialError string

	releaseOnce sync.Once
	releaseErr  error
}

func newTask(ctx context.Context, m *TaskManager, node *models.Node, driver *Driver, o acquireOptions) *Task {
	return &Task{
		Node:         node,
		Driver:       driver,
		Shared:       o.shared,
		ctx:          ctx,
		manager:      m,
		purpose:      o.purpose,
		initialState: node.ProvisionState,
		initialError: node.LastError,
	}
}

// Context returns the context of the request that acquired the task.
func (t *Task) Context() context.Context {
	return t.ctx
}

// ProcessEvent moves the node through the provision state machine.
// The new state is persisted on Release.
func (t *Task) ProcessEvent(event models.Event) error {
	if t.Shared {
		return srvErrors.NewExclusiveLockRequiredError(t.Node.ID)
	}

	from := t.Node.ProvisionState
	to, ok := models.NextProvisionState(from, event)
	if !ok {
		return srvErrors.NewInvalidStateTransitionError(t.Node.ID, from.Value(), string(event))
	}

	t.Node.ProvisionState = to

	zap.S().Named("conductor").Infow("node state changed",
		"node_id", t.Node.ID, "event", event, "from", from, "to", to, "purpose", t.purpose)

	return nil
}

// SetLastError records a diagnostic on the node. It requires an exclusive task.
func (t *Task) SetLastError(msg string) error {
	if t.Shared {
		return srvErrors.NewExclusiveLockRequiredError(t.Node.ID)
	}
	t.Node.LastError = msg
	return nil
}

// Release persists any change made through the task and frees the lock.
// Calling Release more than once is a no-op.
func (t *Task) Release() error {
	t.releaseOnce.Do(func() {
		defer t.manager.unreserve(t.Node.ID, t.Shared)

		if t.Shared || !t.changed() {
			return
		}

		if err := t.manager.nodes.Update(context.WithoutCancel(t.ctx), t.Node); err != nil {
			t.releaseErr = fmt.Errorf("persisting node %s: %w", t.Node.ID, err)
		}
	})
	return t.releaseErr
}

func (t *Task) changed() bool {
	return t.Node.ProvisionState != t.initialState || t.Node.LastError != t.initialError
}
