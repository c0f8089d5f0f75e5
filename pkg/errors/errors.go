package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewNodeNotFoundError(nodeID uuid.UUID) *ResourceNotFoundError {
	return NewResourceNotFoundError("node", nodeID.String())
}

func NewEndpointNotFoundError(serviceType string) *ResourceNotFoundError {
	return NewResourceNotFoundError("endpoint", serviceType)
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// NodeLockedError indicates the node is exclusively held by another task.
type NodeLockedError struct {
	NodeID uuid.UUID
	Holder string
}

func NewNodeLockedError(nodeID uuid.UUID, holder string) *NodeLockedError {
	return &NodeLockedError{NodeID: nodeID, Holder: holder}
}

func (e *NodeLockedError) Error() string {
	if e.Holder == "" {
		return fmt.Sprintf("node %s is locked", e.NodeID)
	}
	return fmt.Sprintf("node %s is locked by %q", e.NodeID, e.Holder)
}

func IsNodeLockedError(err error) bool {
	var e *NodeLockedError
	return errors.As(err, &e)
}

// DriverLoadError indicates a driver interface could not be constructed.
// It is raised at construction time and never retried.
type DriverLoadError struct {
	Driver string
	Reason string
}

func NewDriverLoadError(driver, reason string) *DriverLoadError {
	return &DriverLoadError{Driver: driver, Reason: reason}
}

func (e *DriverLoadError) Error() string {
	return fmt.Sprintf("driver %s could not be loaded: %s", e.Driver, e.Reason)
}

func IsDriverLoadError(err error) bool {
	var e *DriverLoadError
	return errors.As(err, &e)
}

// DriverNotFoundError indicates a node references a driver which is not enabled.
type DriverNotFoundError struct {
	Driver string
}

func NewDriverNotFoundError(driver string) *DriverNotFoundError {
	return &DriverNotFoundError{Driver: driver}
}

func (e *DriverNotFoundError) Error() string {
	return fmt.Sprintf("driver %s is not enabled", e.Driver)
}

func IsDriverNotFoundError(err error) bool {
	var e *DriverNotFoundError
	return errors.As(err, &e)
}

// InvalidStateTransitionError indicates the event is not allowed from the node's current state.
type InvalidStateTransitionError struct {
	NodeID uuid.UUID
	State  string
	Event  string
}

func NewInvalidStateTransitionError(nodeID uuid.UUID, state, event string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{NodeID: nodeID, State: state, Event: event}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("node %s: event %q is not allowed in state %q", e.NodeID, e.Event, e.State)
}

func IsInvalidStateTransitionError(err error) bool {
	var e *InvalidStateTransitionError
	return errors.As(err, &e)
}

// ExclusiveLockRequiredError indicates a mutation was attempted through a shared task.
type ExclusiveLockRequiredError struct {
	NodeID uuid.UUID
}

func NewExclusiveLockRequiredError(nodeID uuid.UUID) *ExclusiveLockRequiredError {
	return &ExclusiveLockRequiredError{NodeID: nodeID}
}

func (e *ExclusiveLockRequiredError) Error() string {
	return fmt.Sprintf("an exclusive lock is required to modify node %s", e.NodeID)
}

func IsExclusiveLockRequiredError(err error) bool {
	var e *ExclusiveLockRequiredError
	return errors.As(err, &e)
}

// UnsupportedDriverExtensionError indicates the node's driver does not expose the requested interface.
type UnsupportedDriverExtensionError struct {
	Driver    string
	Extension string
}

func NewUnsupportedDriverExtensionError(driver, extension string) *UnsupportedDriverExtensionError {
	return &UnsupportedDriverExtensionError{Driver: driver, Extension: extension}
}

func (e *UnsupportedDriverExtensionError) Error() string {
	return fmt.Sprintf("driver %s does not support %s", e.Driver, e.Extension)
}

func IsUnsupportedDriverExtensionError(err error) bool {
	var e *UnsupportedDriverExtensionError
	return errors.As(err, &e)
}

// InspectorClientError wraps 4xx responses from the inspection service.
type InspectorClientError struct {
	StatusCode int
	Message    string
}

func NewInspectorClientError(statusCode int, message string) *InspectorClientError {
	return &InspectorClientError{StatusCode: statusCode, Message: message}
}

func (e *InspectorClientError) Error() string {
	return fmt.Sprintf("inspection service returned %d: %s", e.StatusCode, e.Message)
}

func IsInspectorClientError(err error) bool {
	var e *InspectorClientError
	return errors.As(err, &e)
}

// ValidationError indicates a driver interface rejected the node's configuration.
type ValidationError struct {
	NodeID uuid.UUID
	Reason string
}

func NewValidationError(nodeID uuid.UUID, reason string) *ValidationError {
	return &ValidationError{NodeID: nodeID, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("node %s failed validation: %s", e.NodeID, e.Reason)
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
