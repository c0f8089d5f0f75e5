package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/node-inspector/internal/conductor"
	"github.com/kubev2v/node-inspector/internal/models"
	"github.com/kubev2v/node-inspector/internal/store"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
)

const abortedInspectionMessage = "Inspection was aborted by request."

type NodeService struct {
	nodes   *store.NodeStore
	tasks   *conductor.TaskManager
	drivers conductor.DriverResolver
}

func NewNodeService(st *store.Store, tasks *conductor.TaskManager, drivers conductor.DriverResolver) *NodeService {
	return &NodeService{
		nodes:   st.Nodes(),
		tasks:   tasks,
		drivers: drivers,
	}
}

// Create enrolls a new node bound to an enabled driver.
func (s *NodeService) Create(ctx context.Context, name, driver string) (*models.Node, error) {
	if _, err := s.drivers.Driver(driver); err != nil {
		return nil, err
	}

	node := &models.Node{
		ID:             uuid.New(),
		Name:           name,
		Driver:         driver,
		ProvisionState: models.ProvisionStateEnroll,
	}
	if err := s.nodes.Create(ctx, node); err != nil {
		return nil, err
	}

	zap.S().Named("node_service").Infow("node enrolled", "node_id", node.ID, "driver", driver)
	return node, nil
}

func (s *NodeService) Get(ctx context.Context, id uuid.UUID) (*models.Node, error) {
	return s.nodes.Get(ctx, id)
}

func (s *NodeService) List(ctx context.Context, filter *store.NodeQueryFilter) ([]models.Node, error) {
	return s.nodes.List(ctx, filter)
}

// Delete removes a node. The node must not be locked by another operation.
func (s *NodeService) Delete(ctx context.Context, id uuid.UUID) error {
	task, err := s.tasks.Acquire(ctx, id, conductor.WithPurpose("node deletion"))
	if err != nil {
		return err
	}
	defer func() {
		_ = task.Release()
	}()

	return s.nodes.Delete(ctx, id)
}

// SetProvisionState applies a provisioning action to the node and returns the updated node.
// Supported targets are manage, inspect, provide and abort.
func (s *NodeService) SetProvisionState(ctx context.Context, id uuid.UUID, target models.Event) (node *models.Node, err error) {
	switch target {
	case models.EventManage, models.EventInspect, models.EventProvide, models.EventAbort:
	default:
		return nil, fmt.Errorf("unsupported provision state target %q", target)
	}

	task, err := s.tasks.Acquire(ctx, id, conductor.WithPurpose("provision action "+string(target)))
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := task.Release(); rerr != nil && err == nil {
			err = rerr
		}
		if err == nil {
			n := *task.Node
			node = &n
		}
	}()

	switch target {
	case models.EventInspect:
		return nil, s.inspect(task)
	case models.EventAbort:
		return nil, s.abort(task)
	default:
		return nil, task.ProcessEvent(target)
	}
}

func (s *NodeService) inspect(task *conductor.Task) error {
	logger := zap.S().Named("node_service").With("node_id", task.Node.ID)

	iface := task.Driver.Inspect
	if iface == nil {
		return srvErrors.NewUnsupportedDriverExtensionError(task.Driver.Name, "inspect")
	}

	if err := iface.Validate(task); err != nil {
		if srvErrors.IsValidationError(err) {
			return err
		}
		return srvErrors.NewValidationError(task.Node.ID, err.Error())
	}

	if err := task.ProcessEvent(models.EventInspect); err != nil {
		return err
	}
	if err := task.SetLastError(""); err != nil {
		return err
	}

	state, err := iface.InspectHardware(task)
	if err != nil {
		logger.Errorw("inspection failed to start", "error", err)
		if err := task.SetLastError(fmt.Sprintf("Failed to inspect hardware. Reason: %s", err)); err != nil {
			return err
		}
		return task.ProcessEvent(models.EventFail)
	}

	switch state {
	case models.ProvisionStateManageable:
		return task.ProcessEvent(models.EventDone)
	case models.ProvisionStateInspecting:
		return nil
	default:
		msg := fmt.Sprintf("During inspection, driver returned unexpected state %s", state)
		logger.Errorw(msg)
		if err := task.SetLastError(msg); err != nil {
			return err
		}
		return task.ProcessEvent(models.EventFail)
	}
}

func (s *NodeService) abort(task *conductor.Task) error {
	if task.Node.ProvisionState != models.ProvisionStateInspecting {
		return srvErrors.NewInvalidStateTransitionError(task.Node.ID, task.Node.ProvisionState.Value(), string(models.EventAbort))
	}
	if err := task.SetLastError(abortedInspectionMessage); err != nil {
		return err
	}
	return task.ProcessEvent(models.EventAbort)
}
