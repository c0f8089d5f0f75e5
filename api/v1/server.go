package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(c *gin.Context)
	// (GET /nodes)
	ListNodes(c *gin.Context, params ListNodesParams)
	// (POST /nodes)
	CreateNode(c *gin.Context)
	// (GET /nodes/{id})
	GetNode(c *gin.Context, id openapi_types.UUID)
	// (DELETE /nodes/{id})
	DeleteNode(c *gin.Context, id openapi_types.UUID)
	// (PUT /nodes/{id}/states/provision)
	SetNodeProvisionState(c *gin.Context, id openapi_types.UUID)
	// (GET /drivers)
	ListDrivers(c *gin.Context)
	// (GET /drivers/{name}/properties)
	GetDriverProperties(c *gin.Context, name string)
}

// ServerInterfaceWrapper converts gin contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetHealth(c *gin.Context) {
	w.Handler.GetHealth(c)
}

func (w *ServerInterfaceWrapper) ListNodes(c *gin.Context) {
	var params ListNodesParams

	if err := runtime.BindQueryParameter("form", true, false, "provision_state", c.Request.URL.Query(), &params.ProvisionState); err != nil {
		badParameter(c, "provision_state", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "driver", c.Request.URL.Query(), &params.Driver); err != nil {
		badParameter(c, "driver", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "filter", c.Request.URL.Query(), &params.Filter); err != nil {
		badParameter(c, "filter", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit); err != nil {
		badParameter(c, "limit", err)
		return
	}

	w.Handler.ListNodes(c, params)
}

func (w *ServerInterfaceWrapper) CreateNode(c *gin.Context) {
	w.Handler.CreateNode(c)
}

func (w *ServerInterfaceWrapper) GetNode(c *gin.Context) {
	id, ok := bindNodeID(c)
	if !ok {
		return
	}
	w.Handler.GetNode(c, id)
}

func (w *ServerInterfaceWrapper) DeleteNode(c *gin.Context) {
	id, ok := bindNodeID(c)
	if !ok {
		return
	}
	w.Handler.DeleteNode(c, id)
}

func (w *ServerInterfaceWrapper) SetNodeProvisionState(c *gin.Context) {
	id, ok := bindNodeID(c)
	if !ok {
		return
	}
	w.Handler.SetNodeProvisionState(c, id)
}

func (w *ServerInterfaceWrapper) ListDrivers(c *gin.Context) {
	w.Handler.ListDrivers(c)
}

func (w *ServerInterfaceWrapper) GetDriverProperties(c *gin.Context) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", c.Param("name"), &name, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	})
	if err != nil {
		badParameter(c, "name", err)
		return
	}
	w.Handler.GetDriverProperties(c, name)
}

// RegisterHandlers adds each server route to the router.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/health", wrapper.GetHealth)
	router.GET("/nodes", wrapper.ListNodes)
	router.POST("/nodes", wrapper.CreateNode)
	router.GET("/nodes/:id", wrapper.GetNode)
	router.DELETE("/nodes/:id", wrapper.DeleteNode)
	router.PUT("/nodes/:id/states/provision", wrapper.SetNodeProvisionState)
	router.GET("/drivers", wrapper.ListDrivers)
	router.GET("/drivers/:name/properties", wrapper.GetDriverProperties)
}

func bindNodeID(c *gin.Context) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	})
	if err != nil {
		badParameter(c, "id", err)
		return id, false
	}
	return id, true
}

func badParameter(c *gin.Context, name string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid format for parameter %s: %s", name, err)})
}
