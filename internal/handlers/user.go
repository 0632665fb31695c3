package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{service: services.NewUserService(db)}
}

// Search looks up users by username or email prefix.
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.service.Search(query, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.GetByID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id != middleware.GetUserID(c) {
		response.Forbidden(c, "cannot modify another user's account")
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.Update(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// Delete removes the account and everything hanging off it.
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id != middleware.GetUserID(c) {
		response.Forbidden(c, "cannot delete another user's account")
		return
	}

	if err := h.service.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "account deleted"})
}
