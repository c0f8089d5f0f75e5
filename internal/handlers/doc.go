// Package handlers implements the HTTP API layer of the node-inspector.
//
// Handlers delegate business logic to the services layer and focus on
// request validation, response formatting and HTTP semantics.
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  NodeService │ DriverService                                    │
//	└─────────────────────────────────────────────────────────────────┘
//
// The Handler implements v1.ServerInterface and is mounted with:
//
//	v1.RegisterHandlers(router, handler)
//
// # API Endpoints
//
//	┌────────┬──────────────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint                     │ Description                          │
//	├────────┼──────────────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /health                      │ Liveness                             │
//	│ GET    │ /nodes                       │ List nodes (provision_state, driver) │
//	│ POST   │ /nodes                       │ Enroll a node                        │
//	│ GET    │ /nodes/{id}                  │ Get a node                           │
//	│ DELETE │ /nodes/{id}                  │ Delete a node                        │
//	│ PUT    │ /nodes/{id}/states/provision │ Request a provision state change     │
//	│ GET    │ /drivers                     │ List enabled drivers                 │
//	│ GET    │ /drivers/{name}/properties   │ Driver inspect properties            │
//	└────────┴──────────────────────────────┴──────────────────────────────────────┘
//
// GET /nodes also accepts a filter expression (filter) and a limit between
// 1 and 1000 (limit). Out of range limits answer 400.
//
// PUT /nodes/{id}/states/provision with {"target": "inspect"} answers 202
// with the node in "inspecting" when an asynchronous driver accepted the
// request. The final state is reached later through the status poller.
//
// # Error Mapping
//
//	┌──────────────────────────────────────────────┬────────┐
//	│ Error                                        │ Status │
//	├──────────────────────────────────────────────┼────────┤
//	│ ResourceNotFoundError                        │ 404    │
//	│ NodeLockedError, InvalidStateTransitionError │ 409    │
//	│ UnsupportedDriverExtensionError              │ 400    │
//	│ DriverNotFoundError                          │ 400    │
//	│ ValidationError                              │ 400    │
//	│ anything else                                │ 500    │
//	└──────────────────────────────────────────────┴────────┘
package handlers
