package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/kubev2v/node-inspector/internal/conductor"
	"github.com/kubev2v/node-inspector/internal/models"
	"github.com/kubev2v/node-inspector/internal/store"
	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
	"github.com/kubev2v/node-inspector/pkg/inspector"
	"github.com/kubev2v/node-inspector/pkg/keystone"
)

type PollerTasks interface {
	TaskAcquirer
	ListNodes(ctx context.Context, filter *store.NodeQueryFilter) ([]models.Node, error)
}

// StatusPoller periodically checks nodes in inspecting against the inspection
// service and moves them to manageable or inspect failed.
type StatusPoller struct {
	factory  ClientProvider
	tasks    PollerTasks
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewStatusPoller(interval time.Duration, factory ClientProvider, tasks PollerTasks) *StatusPoller {
	return &StatusPoller{
		factory:  factory,
		tasks:    tasks,
		interval: interval,
	}
}

// Start runs a sweep now and then every interval until ctx is done or Stop is called.
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		wait.UntilWithContext(ctx, p.sweep, p.interval)
		zap.S().Named("status_poller").Info("status poller stopped")
	}()

	zap.S().Named("status_poller").Infow("status poller started", "interval", p.interval)
}

// Stop cancels the sweep loop and waits for the running sweep to return.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// CheckStatus polls the inspection service for the task's node.
//
// Only nodes in inspecting whose driver inspects through this service are checked.
// Errors talking to the service are logged and the node is left untouched until
// the next sweep. The caller holds an exclusive lock on the node.
func (p *StatusPoller) CheckStatus(task *conductor.Task) {
	if task.Node.ProvisionState != models.ProvisionStateInspecting {
		return
	}
	if task.Driver == nil {
		return
	}
	if _, ok := task.Driver.Inspect.(*Inspector); !ok {
		return
	}

	ctx := task.Context()
	logger := zap.S().Named("status_poller").With("node_id", task.Node.ID, "request_id", keystone.RequestID(ctx))

	client, err := p.factory.GetClient(ctx)
	if err != nil {
		logger.Errorw("failed to get inspection client", "error", err)
		return
	}

	status, err := client.GetStatus(ctx, task.Node.ID)
	if err != nil {
		logger.Errorw("failed to get inspection status", "error", err)
		return
	}

	outcome := outcomeOf(status)
	switch outcome.Kind {
	case models.OutcomePending:
		logger.Debugw("inspection still running")
	case models.OutcomeError:
		logger.Errorw("inspection failed", "reason", outcome.Reason)
		if err := task.SetLastError("Inspection failed: " + outcome.Reason); err != nil {
			logger.Errorw("failed to record inspection error", "error", err)
			return
		}
		if err := task.ProcessEvent(models.EventFail); err != nil {
			logger.Errorw("failed to move node to inspect failed", "error", err)
		}
	case models.OutcomeFinished:
		logger.Infow("inspection finished")
		if err := task.ProcessEvent(models.EventDone); err != nil {
			logger.Errorw("failed to move node to manageable", "error", err)
		}
	}
}

func (p *StatusPoller) sweep(ctx context.Context) {
	ctx = keystone.WithRequestID(ctx, "req-"+uuid.NewString())
	logger := zap.S().Named("status_poller").With("request_id", keystone.RequestID(ctx))

	filter := store.NewNodeQueryFilter().
		ByProvisionState(models.ProvisionStateInspecting).
		OrderByCreated()

	nodes, err := p.tasks.ListNodes(ctx, filter)
	if err != nil {
		logger.Errorw("failed to list inspecting nodes", "error", err)
		return
	}

	for _, node := range nodes {
		if ctx.Err() != nil {
			return
		}
		p.checkNode(ctx, node.ID)
	}
}

func (p *StatusPoller) checkNode(ctx context.Context, nodeID uuid.UUID) {
	logger := zap.S().Named("status_poller").With("node_id", nodeID)

	task, err := p.tasks.Acquire(ctx, nodeID, conductor.WithPurpose("checking inspection status"), conductor.WithoutRetry())
	if err != nil {
		switch {
		case srvErrors.IsNodeLockedError(err), srvErrors.IsResourceNotFoundError(err):
			logger.Debugw("skipping node", "reason", err)
		default:
			logger.Errorw("failed to lock node", "error", err)
		}
		return
	}
	defer func() {
		if err := task.Release(); err != nil {
			logger.Errorw("failed to release node", "error", err)
		}
	}()

	p.CheckStatus(task)
}

// outcomeOf reads a status response. A reported error wins over finished.
func outcomeOf(status *inspector.Status) models.InspectionOutcome {
	switch {
	case status == nil:
		return models.InspectionOutcome{Kind: models.OutcomePending}
	case status.Error != nil && *status.Error != "":
		return models.InspectionOutcome{Kind: models.OutcomeError, Reason: *status.Error}
	case status.Finished:
		return models.InspectionOutcome{Kind: models.OutcomeFinished}
	default:
		return models.InspectionOutcome{Kind: models.OutcomePending}
	}
}
