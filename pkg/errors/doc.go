// Package errors provides custom error types for the node-inspector.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌────────────────────────────────┬────────┬──────────────────────────────────────────┐
//	│ Error Type                     │ HTTP   │ Description                              │
//	├────────────────────────────────┼────────┼──────────────────────────────────────────┤
//	│ ResourceNotFoundError          │ 404    │ Node, endpoint or other resource missing │
//	│ NodeLockedError                │ 409    │ Node held exclusively by another task    │
//	│ InvalidStateTransitionError    │ 409    │ Event not allowed in the current state   │
//	│ UnsupportedDriverExtensionError│ 400    │ Driver does not expose the interface     │
//	│ DriverNotFoundError            │ 400    │ Node references a disabled driver        │
//	│ ValidationError                │ 400    │ Driver rejected the node configuration   │
//	│ ExclusiveLockRequiredError     │ 500    │ Mutation attempted with a shared lock    │
//	│ DriverLoadError                │ n/a    │ Driver interface construction failed     │
//	│ InspectorClientError           │ n/a    │ 4xx returned by the inspection service   │
//	└────────────────────────────────┴────────┴──────────────────────────────────────────┘
//
// # ResourceNotFoundError
//
// Constructors:
//   - NewResourceNotFoundError(kind, id string)
//   - NewNodeNotFoundError(nodeID uuid.UUID)
//   - NewEndpointNotFoundError(serviceType string)
//
// # NodeLockedError
//
// Returned by the task manager when an exclusive lock cannot be obtained
// within the configured retries. Background paths log and drop it; request
// paths surface it to the caller.
//
// # DriverLoadError
//
// Raised when a driver interface is constructed without one of its required
// dependencies (e.g. the inspection client factory). Construction-time failures
// are always fatal:
//
//	inspector, err := services.NewInspector(deps)
//	if errors.IsDriverLoadError(err) {
//	    return err
//	}
//
// # InspectorClientError
//
// Wraps HTTP 4xx errors from the inspection service. Fields:
//   - StatusCode: HTTP status code (e.g., 404, 409)
//   - Message: error message from the service body, or the status text
//
// # Type Checking Pattern
//
// All error types provide Is* helper functions that use errors.As
// for proper error chain unwrapping:
//
//	wrapped := fmt.Errorf("acquiring node: %w", errors.NewNodeNotFoundError(id))
//	errors.IsResourceNotFoundError(wrapped) // returns true
//
// # Handler Error Mapping
//
//	switch {
//	case errors.IsResourceNotFoundError(err):
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	case errors.IsNodeLockedError(err), errors.IsInvalidStateTransitionError(err):
//	    c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
package errors
