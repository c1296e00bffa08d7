package tags

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/domain"
)

type CreateTagRequest struct {
	Device string `json:"device"`
	Topic  string `json:"topic"`
	Label  string `json:"label"`
}

type UpdateTagRequest struct {
	Topic *string `json:"topic"`
	Label *string `json:"label"`
}

type AssignTopicsRequest struct {
	EmployeeID string   `json:"employeeId"`
	TopicIDs   []string `json:"topicIds"`
}

type TagHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewTagHandlers(service Service, logger *zap.Logger) *TagHandlers {
	return &TagHandlers{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

func (h *TagHandlers) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	device, topic, err := h.service.CreateTag(c.Request.Context(), req.Device, req.Topic, req.Label)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusCreated, gin.H{"device": device, "topic": topic})
}

func (h *TagHandlers) GetAllTags(c *gin.Context) {
	tags, err := h.service.GetAllTags(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(tags), tags)
}

func (h *TagHandlers) GetAllTopics(c *gin.Context) {
	topics, err := h.service.GetAllTopics(c.Request.Context())
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondList(c, len(topics), topics)
}

func (h *TagHandlers) GetTag(c *gin.Context) {
	tag, err := h.service.GetTag(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, tag)
}

func (h *TagHandlers) UpdateTag(c *gin.Context) {
	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	tag, err := h.service.UpdateTag(c.Request.Context(), c.Param("id"), req.Topic, req.Label)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, tag)
}

func (h *TagHandlers) DeleteTag(c *gin.Context) {
	if err := h.service.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	h.RespondData(c, http.StatusOK, gin.H{})
}

func (h *TagHandlers) AssignTopicsEmployee(c *gin.Context) {
	var req AssignTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	assignment, err := h.service.AssignTopicsEmployee(c.Request.Context(), req.EmployeeID, req.TopicIDs)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Topics assigned to employee successfully",
		"data":    assignment,
	})
}
