package companies

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/domain"
	"github.com/sarayu-iot/admin-api/internal/app/models"
)

type CreateCompanyRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Address     string `json:"address"`
	Label       string `json:"label"`
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phonenumber"`
	Address     *string `json:"address"`
	Label       *string `json:"label"`
}

type CompanyHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewCompanyHandlers(service Service, logger *zap.Logger) *CompanyHandlers {
	return &CompanyHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

func (h *CompanyHandlers) CreateCompany(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	company, err := h.service.CreateCompany(c.Request.Context(), &models.Company{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Label:       req.Label,
	})
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusCreated, company)
}

func (h *CompanyHandlers) GetAllCompanies(c *gin.Context) {
	companies, err := h.service.GetAllCompanies(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(companies), companies)
}

func (h *CompanyHandlers) GetCompany(c *gin.Context) {
	company, err := h.service.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, company)
}

func (h *CompanyHandlers) UpdateCompany(c *gin.Context) {
	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	company, err := h.service.UpdateCompany(c.Request.Context(), c.Param("id"),
		req.Name, req.Email, req.PhoneNumber, req.Address, req.Label)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, company)
}

func (h *CompanyHandlers) DeleteCompany(c *gin.Context) {
	if err := h.service.DeleteCompany(c.Request.Context(), c.Param("id")); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, gin.H{})
}
