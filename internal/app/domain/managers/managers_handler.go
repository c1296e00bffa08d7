package managers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/domain"
)

type CreateManagerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Company         string `json:"company"`
}

type UpdateManagerRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Company     *string `json:"company"`
}

type ManagerHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewManagerHandlers(service Service, logger *zap.Logger) *ManagerHandlers {
	return &ManagerHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

func (h *ManagerHandlers) CreateManager(c *gin.Context) {
	var req CreateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	manager, err := h.service.CreateManager(c.Request.Context(), CreateManagerInput{
		Name:            req.Name,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		CompanyID:       req.Company,
	})
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusCreated, manager)
}

func (h *ManagerHandlers) GetAllManagers(c *gin.Context) {
	managers, err := h.service.GetAllManagers(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(managers), managers)
}

func (h *ManagerHandlers) GetManager(c *gin.Context) {
	manager, err := h.service.GetManager(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, manager)
}

func (h *ManagerHandlers) UpdateManager(c *gin.Context) {
	var req UpdateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	manager, err := h.service.UpdateManager(c.Request.Context(), c.Param("id"),
		req.Name, req.Email, req.PhoneNumber, req.Company)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, manager)
}

func (h *ManagerHandlers) DeleteManager(c *gin.Context) {
	if err := h.service.DeleteManager(c.Request.Context(), c.Param("id")); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, gin.H{})
}
