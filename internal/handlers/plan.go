package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type PlanHandler struct {
	service *services.PlanService
}

func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{service: services.NewPlanService(db)}
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req services.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	plan, err := h.service.Create(&req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, plan)
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.service.Get(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, plan)
}

func (h *PlanHandler) ListOwn(c *gin.Context) {
	plans, err := h.service.ListByCreator(middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, plans)
}

func (h *PlanHandler) ListByTeam(c *gin.Context) {
	plans, err := h.service.ListByTeam(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, plans)
}

func (h *PlanHandler) Update(c *gin.Context) {
	var req services.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	plan, err := h.service.Update(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, plan)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "plan deleted"})
}
