package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/config"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	service *services.AuthService
	users   *services.UserService
}

func NewAuthHandler(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		service: services.NewAuthService(db, jwtCfg),
		users:   services.NewUserService(db),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(&req)
	if err != nil {
		response.Unauthorized(c, "invalid username or password")
		return
	}
	response.Success(c, result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, user)
}
