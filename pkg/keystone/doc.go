// Package keystone resolves what a service client needs to talk to another
// service of the fleet: an authentication plugin, an HTTP session and the
// endpoint of the target service.
//
// The flow mirrors the usual OpenStack client layering:
//
//	provider := keystone.NewProvider(opts)
//	auth, _ := provider.GetAuth("token")
//	session, _ := provider.GetSession(auth)
//	adapter, _ := provider.GetAdapter("baremetal-introspection", session, "")
//	url, _ := adapter.GetEndpoint(ctx)
//
// Sessions are safe for concurrent use and are meant to be shared.
package keystone
