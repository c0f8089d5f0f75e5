package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	v1 "github.com/kubev2v/node-inspector/api/v1"
	"github.com/kubev2v/node-inspector/internal/store"
)

// ListNodes returns the enrolled nodes
// (GET /nodes)
func (h *Handler) ListNodes(c *gin.Context, params v1.ListNodesParams) {
	filter := store.NewNodeQueryFilter().OrderByCreated()

	if params.ProvisionState != nil {
		state, ok := params.ProvisionState.Model()
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid provision_state: %q", *params.ProvisionState)})
			return
		}
		filter = filter.ByProvisionState(state)
	}
	if params.Driver != nil && *params.Driver != "" {
		filter = filter.ByDriver(*params.Driver)
	}
	if params.Filter != nil && *params.Filter != "" {
		expr, err := store.ParseNodeExpression(*params.Filter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid filter: %s", err)})
			return
		}
		filter = filter.ByExpression(expr)
	}
	if params.Limit != nil {
		if *params.Limit < 1 || *params.Limit > v1.MaxNodeListLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit: must be between 1 and %d", v1.MaxNodeListLimit)})
			return
		}
		filter = filter.Limit(uint64(*params.Limit))
	}

	nodes, err := h.nodeSrv.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "failed to list nodes")
		return
	}

	c.JSON(http.StatusOK, v1.NewNodeList(nodes))
}

// CreateNode enrolls a node
// (POST /nodes)
func (h *Handler) CreateNode(c *gin.Context) {
	var req v1.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	node, err := h.nodeSrv.Create(c.Request.Context(), req.Name, req.Driver)
	if err != nil {
		writeError(c, err, "failed to create node")
		return
	}

	c.JSON(http.StatusCreated, v1.NewNodeFromModel(*node))
}

// GetNode returns a single node
// (GET /nodes/{id})
func (h *Handler) GetNode(c *gin.Context, id uuid.UUID) {
	node, err := h.nodeSrv.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to get node")
		return
	}

	c.JSON(http.StatusOK, v1.NewNodeFromModel(*node))
}

// DeleteNode removes a node
// (DELETE /nodes/{id})
func (h *Handler) DeleteNode(c *gin.Context, id uuid.UUID) {
	if err := h.nodeSrv.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete node")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetNodeProvisionState requests a provision state change. Inspection runs
// asynchronously so the node is returned as soon as the request is accepted.
// (PUT /nodes/{id}/states/provision)
func (h *Handler) SetNodeProvisionState(c *gin.Context, id uuid.UUID) {
	var req v1.SetProvisionStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, ok := req.Target.Event()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid target: %q", req.Target)})
		return
	}

	node, err := h.nodeSrv.SetProvisionState(c.Request.Context(), id, event)
	if err != nil {
		writeError(c, err, "failed to change provision state")
		return
	}

	c.JSON(http.StatusAccepted, v1.NewNodeFromModel(*node))
}
