package models

import (
	"time"

	"github.com/google/uuid"
)

// ProvisionState is the node's position in the provisioning state machine.
type ProvisionState string

const (
	// ProvisionStateEnroll - node registered, not yet verified
	ProvisionStateEnroll ProvisionState = "enroll"
	// ProvisionStateManageable - node verified and ready for management operations
	ProvisionStateManageable ProvisionState = "manageable"
	// ProvisionStateInspecting - hardware inspection requested and in flight
	ProvisionStateInspecting ProvisionState = "inspecting"
	// ProvisionStateInspectFailed - last inspection ended with an error
	ProvisionStateInspectFailed ProvisionState = "inspect failed"
	// ProvisionStateAvailable - node ready to be deployed
	ProvisionStateAvailable ProvisionState = "available"
)

func (p ProvisionState) Value() string {
	return string(p)
}

// Event drives a provision state transition.
type Event string

const (
	EventManage  Event = "manage"
	EventInspect Event = "inspect"
	EventDone    Event = "done"
	EventFail    Event = "fail"
	EventProvide Event = "provide"
	EventAbort   Event = "abort"
)

var provisionTransitions = map[ProvisionState]map[Event]ProvisionState{
	ProvisionStateEnroll: {
		EventManage: ProvisionStateManageable,
	},
	ProvisionStateManageable: {
		EventInspect: ProvisionStateInspecting,
		EventProvide: ProvisionStateAvailable,
	},
	ProvisionStateInspecting: {
		EventDone:  ProvisionStateManageable,
		EventFail:  ProvisionStateInspectFailed,
		EventAbort: ProvisionStateInspectFailed,
	},
	ProvisionStateInspectFailed: {
		EventInspect: ProvisionStateInspecting,
		EventManage:  ProvisionStateManageable,
	},
	ProvisionStateAvailable: {
		EventManage: ProvisionStateManageable,
	},
}

// NextProvisionState returns the state reached by applying event in state from.
// The boolean is false when the event is not allowed.
func NextProvisionState(from ProvisionState, event Event) (ProvisionState, bool) {
	next, ok := provisionTransitions[from][event]
	return next, ok
}

// Node is a managed physical machine.
type Node struct {
	ID             uuid.UUID
	Name           string
	Driver         string
	ProvisionState ProvisionState
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
