package employees

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/domain"
)

type CreateEmployeeRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Company         string `json:"company"`
	SelectManager   string `json:"selectManager"`
	HeaderOne       string `json:"headerOne"`
	HeaderTwo       string `json:"headerTwo"`
}

type UpdateEmployeeRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	PhoneNumber   *string `json:"phoneNumber"`
	Company       *string `json:"company"`
	SelectManager *string `json:"selectManager"`
	HeaderOne     *string `json:"headerOne"`
	HeaderTwo     *string `json:"headerTwo"`
	Layout        *string `json:"layout"`
}

type EmployeeHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewEmployeeHandlers(service Service, logger *zap.Logger) *EmployeeHandlers {
	return &EmployeeHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

func (h *EmployeeHandlers) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	employee, err := h.service.CreateEmployee(c.Request.Context(), CreateEmployeeInput{
		Name:            req.Name,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		CompanyID:       req.Company,
		ManagerID:       req.SelectManager,
		HeaderOne:       req.HeaderOne,
		HeaderTwo:       req.HeaderTwo,
	})
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusCreated, employee)
}

// GetAllEmployees accepts optional company, manager and search query
// parameters to narrow the listing.
func (h *EmployeeHandlers) GetAllEmployees(c *gin.Context) {
	filter := ListFilter{
		CompanyID: c.Query("company"),
		ManagerID: c.Query("manager"),
		Search:    c.Query("search"),
	}
	employees, err := h.service.GetAllEmployees(c.Request.Context(), filter)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(employees), employees)
}

func (h *EmployeeHandlers) GetEmployee(c *gin.Context) {
	employee, err := h.service.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, employee)
}

func (h *EmployeeHandlers) UpdateEmployee(c *gin.Context) {
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	employee, err := h.service.UpdateEmployee(c.Request.Context(), c.Param("id"), UpdateFields{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		CompanyID:   req.Company,
		ManagerID:   req.SelectManager,
		HeaderOne:   req.HeaderOne,
		HeaderTwo:   req.HeaderTwo,
		Layout:      req.Layout,
	})
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, employee)
}

func (h *EmployeeHandlers) DeleteEmployee(c *gin.Context) {
	if err := h.service.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, gin.H{})
}
