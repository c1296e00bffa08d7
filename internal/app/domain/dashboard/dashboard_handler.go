package dashboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/domain"
)

type DashboardHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewDashboardHandlers(service Service, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

func (h *DashboardHandlers) GetAllCompanies(c *gin.Context) {
	companies, err := h.service.GetAllCompanies(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(companies), companies)
}

func (h *DashboardHandlers) GetAllDevices(c *gin.Context) {
	devices, err := h.service.GetAllDevices(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(devices), devices)
}
