package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type AssignmentHandler struct {
	service *services.AssignmentService
}

func NewAssignmentHandler(db *gorm.DB) *AssignmentHandler {
	return &AssignmentHandler{service: services.NewAssignmentService(db)}
}

func (h *AssignmentHandler) Create(c *gin.Context) {
	var req services.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.service.Create(&req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, assignment)
}

func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, assignment)
}

func (h *AssignmentHandler) ListOwn(c *gin.Context) {
	assignments, err := h.service.ListForAssignee(middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, assignments)
}

// Transition moves an assignment through its status machine.
func (h *AssignmentHandler) Transition(c *gin.Context) {
	var req struct {
		Status models.AssignmentStatus `json:"status" binding:"required,oneof=active completed overdue paused"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.service.Transition(c.Param("id"), middleware.GetUserID(c), req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, assignment)
}

func (h *AssignmentHandler) UpdateProgress(c *gin.Context) {
	var req services.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.service.UpdateProgress(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, assignment)
}
