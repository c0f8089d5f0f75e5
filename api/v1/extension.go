package v1

import (
	"github.com/kubev2v/node-inspector/internal/models"
)

// NewNodeFromModel converts a models.Node to an API Node.
func NewNodeFromModel(n models.Node) Node {
	node := Node{
		Id:             n.ID,
		Name:           n.Name,
		Driver:         n.Driver,
		ProvisionState: ProvisionState(n.ProvisionState),
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
	if n.LastError != "" {
		e := n.LastError
		node.LastError = &e
	}
	return node
}

func NewNodeList(nodes []models.Node) NodeList {
	list := NodeList{Nodes: make([]Node, 0, len(nodes))}
	for _, n := range nodes {
		list.Nodes = append(list.Nodes, NewNodeFromModel(n))
	}
	return list
}

// Event returns the provisioning event for the target. The boolean is false for unknown targets.
func (t ProvisionStateTarget) Event() (models.Event, bool) {
	switch t {
	case ProvisionStateTargetManage:
		return models.EventManage, true
	case ProvisionStateTargetInspect:
		return models.EventInspect, true
	case ProvisionStateTargetProvide:
		return models.EventProvide, true
	case ProvisionStateTargetAbort:
		return models.EventAbort, true
	default:
		return "", false
	}
}

// Model returns the provision state, false when the value is unknown.
func (s ProvisionState) Model() (models.ProvisionState, bool) {
	switch s {
	case ProvisionStateEnroll, ProvisionStateManageable, ProvisionStateInspecting, ProvisionStateInspectFailed, ProvisionStateAvailable:
		return models.ProvisionState(s), true
	default:
		return "", false
	}
}
