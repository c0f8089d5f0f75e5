package v1

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for ProvisionState.
const (
	ProvisionStateEnroll        ProvisionState = "enroll"
	ProvisionStateManageable    ProvisionState = "manageable"
	ProvisionStateInspecting    ProvisionState = "inspecting"
	ProvisionStateInspectFailed ProvisionState = "inspect failed"
	ProvisionStateAvailable     ProvisionState = "available"
)

// Defines values for ProvisionStateTarget.
const (
	ProvisionStateTargetManage  ProvisionStateTarget = "manage"
	ProvisionStateTargetInspect ProvisionStateTarget = "inspect"
	ProvisionStateTargetProvide ProvisionStateTarget = "provide"
	ProvisionStateTargetAbort   ProvisionStateTarget = "abort"
)

// ProvisionState defines model for ProvisionState.
type ProvisionState string

// ProvisionStateTarget defines model for ProvisionStateTarget.
type ProvisionStateTarget string

// Node defines model for Node.
type Node struct {
	CreatedAt      time.Time          `json:"created_at"`
	Driver         string             `json:"driver"`
	Id             openapi_types.UUID `json:"id"`
	LastError      *string            `json:"last_error,omitempty"`
	Name           string             `json:"name"`
	ProvisionState ProvisionState     `json:"provision_state"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NodeList defines model for NodeList.
type NodeList struct {
	Nodes []Node `json:"nodes"`
}

// CreateNodeRequest defines model for CreateNodeRequest.
type CreateNodeRequest struct {
	Driver string `json:"driver" binding:"required"`
	Name   string `json:"name"`
}

// SetProvisionStateRequest defines model for SetProvisionStateRequest.
type SetProvisionStateRequest struct {
	Target ProvisionStateTarget `json:"target" binding:"required"`
}

// Driver defines model for Driver.
type Driver struct {
	Interfaces []string `json:"interfaces"`
	Name       string   `json:"name"`
}

// DriverList defines model for DriverList.
type DriverList struct {
	Drivers []Driver `json:"drivers"`
}

// DriverProperties defines model for DriverProperties.
type DriverProperties map[string]string

// Health defines model for Health.
type Health struct {
	Status string `json:"status"`
}

// ListNodesParams defines parameters for ListNodes.
type ListNodesParams struct {
	ProvisionState *ProvisionState `form:"provision_state,omitempty" json:"provision_state,omitempty"`
	Driver         *string         `form:"driver,omitempty" json:"driver,omitempty"`
	// Filter is an expression over node fields, e.g. "provision_state = 'inspect failed' and name ~ /^rack1-/".
	Filter *string `form:"filter,omitempty" json:"filter,omitempty"`
	// Limit caps the number of returned nodes, between 1 and MaxNodeListLimit.
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// MaxNodeListLimit is the largest accepted value of the limit query parameter.
const MaxNodeListLimit = 1000
