package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type PostHandler struct {
	service *services.PostService
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{service: services.NewPostService(db, services.GetTaskQueue())}
}

func (h *PostHandler) Create(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.Create(c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, post)
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, post)
}

func (h *PostHandler) ListFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.service.ListFeed(c.Param("id"), middleware.GetUserID(c), limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, posts)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "post deleted"})
}

// Vote records the caller's vote on a poll option.
func (h *PostHandler) Vote(c *gin.Context) {
	option, err := h.service.Vote(c.Param("optionId"), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, option)
}
