package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/node-inspector/internal/config"
	"github.com/kubev2v/node-inspector/pkg/inspector"
	"github.com/kubev2v/node-inspector/pkg/keystone"
)

// InspectorServiceType is the catalog entry of the inspection service.
const InspectorServiceType = "baremetal-introspection"

// InspectionClient talks to the out-of-band inspection service.
type InspectionClient interface {
	Introspect(ctx context.Context, nodeID uuid.UUID) error
	GetStatus(ctx context.Context, nodeID uuid.UUID) (*inspector.Status, error)
}

// ClientFactory builds inspection clients on top of one process-wide session.
//
// The session is created on first use and reused by every later call until
// Reset is called. Creation happens under a mutex so concurrent callers never
// build two sessions.
type ClientFactory struct {
	provider   keystone.Provider
	serviceURL string
	authType   string

	mu      sync.Mutex
	session *keystone.Session
}

func NewClientFactory(cfg *config.Configuration, provider keystone.Provider) *ClientFactory {
	authType := cfg.Inspector.AuthType
	if cfg.Auth.Strategy == config.AuthStrategyNoAuth {
		authType = config.AuthTypeNone
	}

	return &ClientFactory{
		provider:   provider,
		serviceURL: cfg.Inspector.ServiceURL,
		authType:   authType,
	}
}

// AuthType is the authentication type every session is built with.
// It is always "none" when the service runs standalone.
func (f *ClientFactory) AuthType() string {
	return f.authType
}

// GetClient returns a client pinned to API version 1.0.
func (f *ClientFactory) GetClient(ctx context.Context) (InspectionClient, error) {
	session, err := f.getSession()
	if err != nil {
		return nil, err
	}

	adapter, err := f.provider.GetAdapter(InspectorServiceType, session, f.serviceURL)
	if err != nil {
		return nil, fmt.Errorf("building %s adapter: %w", InspectorServiceType, err)
	}

	url, err := adapter.GetEndpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving %s endpoint: %w", InspectorServiceType, err)
	}

	return inspector.NewClient(adapter.Session(), inspector.DefaultAPIVersion, url), nil
}

// Reset drops the cached session. The next GetClient builds a new one.
func (f *ClientFactory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = nil
}

func (f *ClientFactory) getSession() (*keystone.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session != nil {
		return f.session, nil
	}

	auth, err := f.provider.GetAuth(f.authType)
	if err != nil {
		return nil, fmt.Errorf("loading %s auth: %w", f.authType, err)
	}

	session, err := f.provider.GetSession(auth)
	if err != nil {
		return nil, fmt.Errorf("creating inspection session: %w", err)
	}

	zap.S().Named("client_factory").Infow("inspection session created", "auth_type", f.authType)

	f.session = session
	return session, nil
}
