package keystone

import (
	"context"

	srvErrors "github.com/kubev2v/node-inspector/pkg/errors"
)

// Adapter binds a session to one service type.
type Adapter struct {
	ServiceType      string
	EndpointOverride string

	session *Session
	catalog map[string]string
}

func (a *Adapter) Session() *Session {
	return a.session
}

// GetEndpoint returns the override when set, otherwise the catalog entry of the service type.
func (a *Adapter) GetEndpoint(_ context.Context) (string, error) {
	if a.EndpointOverride != "" {
		return a.EndpointOverride, nil
	}
	url, ok := a.catalog[a.ServiceType]
	if !ok || url == "" {
		return "", srvErrors.NewEndpointNotFoundError(a.ServiceType)
	}
	return url, nil
}
