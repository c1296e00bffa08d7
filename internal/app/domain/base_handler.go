package domain

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

// BaseHandler carries the pieces every domain handler needs and owns the
// JSON envelope: {"success":true,"data":...} on the happy path,
// {"success":false,"error":...} on failure.
type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

func (h *BaseHandler) RespondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// RespondList includes the collection size alongside the payload.
func (h *BaseHandler) RespondList(c *gin.Context, count int, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
}

func (h *BaseHandler) RespondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// RespondDomainError maps the sentinel errors in models to HTTP statuses.
// Unknown errors are logged and masked as a generic server error.
func (h *BaseHandler) RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		h.RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		h.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		h.RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrForbidden):
		h.RespondError(c, http.StatusForbidden, err.Error())
	default:
		h.Logger.Error("Unhandled domain error", zap.Error(err), zap.String("path", c.FullPath()))
		h.RespondError(c, http.StatusInternalServerError, "Server Error")
	}
}
