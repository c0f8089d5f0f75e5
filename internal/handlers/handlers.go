package handlers

import (
	"context"

	"github.com/google/uuid"

	v1 "github.com/kubev2v/node-inspector/api/v1"
	"github.com/kubev2v/node-inspector/internal/models"
	"github.com/kubev2v/node-inspector/internal/services"
	"github.com/kubev2v/node-inspector/internal/store"
)

// NodeService is the node lifecycle surface used by the HTTP layer.
type NodeService interface {
	Create(ctx context.Context, name, driver string) (*models.Node, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Node, error)
	List(ctx context.Context, filter *store.NodeQueryFilter) ([]models.Node, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetProvisionState(ctx context.Context, id uuid.UUID, target models.Event) (*models.Node, error)
}

type DriverService interface {
	List() []services.DriverInfo
	GetProperties(name string) (map[string]string, error)
}

type Handler struct {
	nodeSrv   NodeService
	driverSrv DriverService
}

var _ v1.ServerInterface = &Handler{}

func New(nodeSrv NodeService, driverSrv DriverService) *Handler {
	return &Handler{
		nodeSrv:   nodeSrv,
		driverSrv: driverSrv,
	}
}
