package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/node-inspector/internal/conductor"
	"github.com/kubev2v/node-inspector/internal/config"
	"github.com/kubev2v/node-inspector/internal/models"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
	"github.com/kubev2v/node-inspector/pkg/keystone"
)

type ClientProvider interface {
	GetClient(ctx context.Context) (InspectionClient, error)
}

type WorkScheduler interface {
	AddWork(w models.Work[any]) *models.Future[models.Result[any]]
}

type TaskAcquirer interface {
	Acquire(ctx context.Context, nodeID uuid.UUID, opts ...conductor.AcquireOption) (*conductor.Task, error)
}

// InspectorDeps are the collaborators an Inspector cannot work without.
type InspectorDeps struct {
	Factory   ClientProvider
	Scheduler WorkScheduler
	Tasks     TaskAcquirer
}

// Inspector is the inspect interface backed by the out-of-band inspection service.
type Inspector struct {
	owner     string
	factory   ClientProvider
	scheduler WorkScheduler
	tasks     TaskAcquirer
}

var _ conductor.InspectInterface = (*Inspector)(nil)

// NewInspector builds an Inspector regardless of configuration.
// A missing dependency is a DriverLoadError.
func NewInspector(deps InspectorDeps) (*Inspector, error) {
	switch {
	case deps.Factory == nil:
		return nil, srvErrors.NewDriverLoadError("inspector", "inspection client factory is not available")
	case deps.Scheduler == nil:
		return nil, srvErrors.NewDriverLoadError("inspector", "worker pool is not available")
	case deps.Tasks == nil:
		return nil, srvErrors.NewDriverLoadError("inspector", "task manager is not available")
	}

	return &Inspector{
		factory:   deps.Factory,
		scheduler: deps.Scheduler,
		tasks:     deps.Tasks,
	}, nil
}

// CreateIfEnabled returns an Inspector for owner, or nil when inspection is disabled.
func CreateIfEnabled(cfg config.Inspector, owner string, deps InspectorDeps) (*Inspector, error) {
	if !cfg.Enabled {
		zap.S().Named("inspector").Infow("inspection is disabled, not enabling it for driver", "owner", owner)
		return nil, nil
	}

	i, err := NewInspector(deps)
	if err != nil {
		return nil, err
	}
	i.owner = owner
	return i, nil
}

func (i *Inspector) Owner() string {
	return i.owner
}

func (i *Inspector) GetProperties() map[string]string {
	return map[string]string{}
}

func (i *Inspector) Validate(*conductor.Task) error {
	return nil
}

// InspectHardware requests inspection of the task's node and returns inspecting.
//
// The call to the inspection service runs on the worker pool. When it fails the
// node is locked again and moved to inspect failed with the error in last_error.
func (i *Inspector) InspectHardware(task *conductor.Task) (models.ProvisionState, error) {
	nodeID := task.Node.ID
	requestID := keystone.RequestID(task.Context())

	i.scheduler.AddWork(func(ctx context.Context) (any, error) {
		ctx = keystone.WithRequestID(ctx, requestID)
		return nil, i.startInspection(ctx, nodeID)
	})

	return models.ProvisionStateInspecting, nil
}

func (i *Inspector) startInspection(ctx context.Context, nodeID uuid.UUID) error {
	logger := zap.S().Named("inspector").With("node_id", nodeID, "request_id", keystone.RequestID(ctx))

	client, err := i.factory.GetClient(ctx)
	if err == nil {
		err = client.Introspect(ctx, nodeID)
	}
	if err == nil {
		logger.Infow("inspection started")
		return nil
	}

	logger.Errorw("failed to start inspection", "error", err)
	i.recordStartFailure(ctx, nodeID, err)
	return err
}

func (i *Inspector) recordStartFailure(ctx context.Context, nodeID uuid.UUID, cause error) {
	logger := zap.S().Named("inspector").With("node_id", nodeID)

	task, err := i.tasks.Acquire(ctx, nodeID, conductor.WithPurpose("recording inspection failure"))
	if err != nil {
		logger.Errorw("failed to lock node to record inspection failure", "error", err, "cause", cause)
		return
	}
	defer func() {
		if err := task.Release(); err != nil {
			logger.Errorw("failed to release node", "error", err)
		}
	}()

	if task.Node.ProvisionState != models.ProvisionStateInspecting {
		logger.Infow("node left inspecting, dropping inspection failure", "state", task.Node.ProvisionState, "cause", cause)
		return
	}

	if err := task.SetLastError(fmt.Sprintf("Failed to start inspection: %s", cause)); err != nil {
		logger.Errorw("failed to record inspection failure", "error", err)
		return
	}
	if err := task.ProcessEvent(models.EventFail); err != nil {
		logger.Errorw("failed to move node to inspect failed", "error", err)
	}
}
