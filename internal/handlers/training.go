package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type TrainingHandler struct {
	service *services.TrainingService
}

func NewTrainingHandler(db *gorm.DB) *TrainingHandler {
	return &TrainingHandler{service: services.NewTrainingService(db)}
}

func (h *TrainingHandler) CreateType(c *gin.Context) {
	var req services.CreateTrainingTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tt, err := h.service.CreateType(&req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, tt)
}

func (h *TrainingHandler) ListTypes(c *gin.Context) {
	types, err := h.service.ListTypes(middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, types)
}

func (h *TrainingHandler) DeleteType(c *gin.Context) {
	if err := h.service.DeleteType(c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "training type deleted"})
}

func (h *TrainingHandler) Create(c *gin.Context) {
	var req services.CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	training, err := h.service.Create(&req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, training)
}

func (h *TrainingHandler) Get(c *gin.Context) {
	training, err := h.service.Get(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, training)
}

func (h *TrainingHandler) ListOwn(c *gin.Context) {
	trainings, err := h.service.ListOwn(middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, trainings)
}

func (h *TrainingHandler) Update(c *gin.Context) {
	var req services.UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	training, err := h.service.Update(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, training)
}

func (h *TrainingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "training deleted"})
}

func (h *TrainingHandler) Share(c *gin.Context) {
	var req struct {
		TeamID string `json:"team_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	share, err := h.service.Share(c.Param("id"), req.TeamID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, share)
}
