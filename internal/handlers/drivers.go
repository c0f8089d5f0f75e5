package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/node-inspector/api/v1"
)

// ListDrivers returns the enabled drivers
// (GET /drivers)
func (h *Handler) ListDrivers(c *gin.Context) {
	infos := h.driverSrv.List()

	resp := v1.DriverList{Drivers: make([]v1.Driver, 0, len(infos))}
	for _, d := range infos {
		resp.Drivers = append(resp.Drivers, v1.Driver{Name: d.Name, Interfaces: d.Interfaces})
	}

	c.JSON(http.StatusOK, resp)
}

// GetDriverProperties returns the properties accepted by a driver
// (GET /drivers/{name}/properties)
func (h *Handler) GetDriverProperties(c *gin.Context, name string) {
	props, err := h.driverSrv.GetProperties(name)
	if err != nil {
		writeError(c, err, "failed to get driver properties")
		return
	}

	c.JSON(http.StatusOK, v1.DriverProperties(props))
}
