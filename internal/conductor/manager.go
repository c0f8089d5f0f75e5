package conductor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/kubev2v/node-inspector/internal/config"
	"github.com/kubev2v/node-inspector/internal/models"
	"github.com/kubev2v/node-inspector/internal/store"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
)

// NodeRepository is the persistence the task manager needs.
type NodeRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Node, error)
	List(ctx context.Context, filter *store.NodeQueryFilter) ([]models.Node, error)
	Update(ctx context.Context, node *models.Node) error
}

// TaskManager hands out per-node locks.
//
// Exclusive locks are reservations held in memory: at most one exclusive task
// exists per node at any time. Shared tasks take no reservation.
type TaskManager struct {
	nodes         NodeRepository
	drivers       DriverResolver
	retryAttempts int
	retryInterval time.Duration

	mu       sync.Mutex
	reserved map[uuid.UUID]string
}

func NewTaskManager(nodes NodeRepository, drivers DriverResolver, cfg config.Conductor) *TaskManager {
	return &TaskManager{
		nodes:         nodes,
		drivers:       drivers,
		retryAttempts: cfg.NodeLockedRetryAttempts,
		retryInterval: cfg.NodeLockedRetryInterval,
		reserved:      make(map[uuid.UUID]string),
	}
}

// Acquire returns a task over the node and its driver.
//
// Errors:
//   - ResourceNotFoundError when the node does not exist
//   - NodeLockedError when an exclusive lock cannot be obtained in time
//   - DriverNotFoundError when the node's driver is not enabled
func (m *TaskManager) Acquire(ctx context.Context, nodeID uuid.UUID, opts ...AcquireOption) (*Task, error) {
	o := acquireOptions{retry: true}
	for _, opt := range opts {
		opt(&o)
	}

	if !o.shared {
		if err := m.reserve(ctx, nodeID, o); err != nil {
			return nil, err
		}
	}

	node, err := m.nodes.Get(ctx, nodeID)
	if err != nil {
		m.unreserve(nodeID, o.shared)
		return nil, err
	}

	driver, err := m.drivers.Driver(node.Driver)
	if err != nil {
		m.unreserve(nodeID, o.shared)
		return nil, err
	}

	zap.S().Named("conductor").Debugw("lock acquired", "node_id", nodeID, "shared", o.shared, "purpose", o.purpose)

	return newTask(ctx, m, node, driver, o), nil
}

// ListNodes returns the nodes matching the filter.
func (m *TaskManager) ListNodes(ctx context.Context, filter *store.NodeQueryFilter) ([]models.Node, error) {
	return m.nodes.List(ctx, filter)
}

// IsLocked reports whether an exclusive task currently holds the node.
func (m *TaskManager) IsLocked(nodeID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.reserved[nodeID]
	return ok
}

func (m *TaskManager) reserve(ctx context.Context, nodeID uuid.UUID, o acquireOptions) error {
	steps := 1
	if o.retry {
		steps += m.retryAttempts
	}

	backoff := wait.Backoff{
		Duration: m.retryInterval,
		Factor:   1.5,
		Jitter:   0.1,
		Steps:    steps,
	}

	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(context.Context) (bool, error) {
		return m.tryReserve(nodeID, o.purpose), nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if wait.Interrupted(err) {
		return srvErrors.NewNodeLockedError(nodeID, m.holder(nodeID))
	}
	return err
}

func (m *TaskManager) tryReserve(nodeID uuid.UUID, purpose string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, held := m.reserved[nodeID]; held {
		return false
	}
	m.reserved[nodeID] = purpose
	return true
}

func (m *TaskManager) unreserve(nodeID uuid.UUID, shared bool) {
	if shared {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reserved, nodeID)
}

func (m *TaskManager) holder(nodeID uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reserved[nodeID]
}
