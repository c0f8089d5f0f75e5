package keystone

import (
	"fmt"
	"maps"

	"go.uber.org/zap"
)

// Provider resolves auth plugins, sessions and service adapters.
type Provider interface {
	GetAuth(authType string) (AuthPlugin, error)
	GetSession(auth AuthPlugin) (*Session, error)
	GetAdapter(serviceType string, session *Session, endpointOverride string) (*Adapter, error)
}

type Options struct {
	TokenFile string
	Catalog   map[string]string
	Session   SessionOptions
}

type DefaultProvider struct {
	opts Options
}

func NewProvider(opts Options) *DefaultProvider {
	catalog := make(map[string]string, len(opts.Catalog))
	maps.Copy(catalog, opts.Catalog)
	opts.Catalog = catalog
	return &DefaultProvider{opts: opts}
}

func (p *DefaultProvider) GetAuth(authType string) (AuthPlugin, error) {
	switch authType {
	case AuthTypeNone:
		return NewNoAuth(), nil
	case AuthTypeToken:
		return NewTokenAuthFromFile(p.opts.TokenFile)
	default:
		return nil, fmt.Errorf("unknown auth type %q", authType)
	}
}

func (p *DefaultProvider) GetSession(auth AuthPlugin) (*Session, error) {
	session, err := NewSession(auth, p.opts.Session)
	if err != nil {
		return nil, err
	}
	zap.S().Named("keystone").Debugw("session created", "auth_type", auth.Type())
	return session, nil
}

func (p *DefaultProvider) GetAdapter(serviceType string, session *Session, endpointOverride string) (*Adapter, error) {
	if session == nil {
		return nil, fmt.Errorf("adapter for %s requires a session", serviceType)
	}
	return &Adapter{
		ServiceType:      serviceType,
		EndpointOverride: endpointOverride,
		session:          session,
		catalog:          p.opts.Catalog,
	}, nil
}
