package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubev2v/node-inspector/pkg/errors"
)

// writeError maps service errors to HTTP status codes.
func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.IsResourceNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.IsNodeLockedError(err), errors.IsInvalidStateTransitionError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.IsUnsupportedDriverExtensionError(err), errors.IsDriverNotFoundError(err), errors.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		zap.S().Named("handlers").Errorw(msg, "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
