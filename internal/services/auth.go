package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamfit/backend/internal/config"
	"github.com/teamfit/backend/internal/models"
	"github.com/teamfit/backend/internal/utils"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	users     *UserService
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, users: NewUserService(db), jwtConfig: jwtCfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expire_at"`
	User     *models.User `json:"user"`
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(req *CreateUserRequest) (*LoginResult, error) {
	user, err := s.users.Create(req)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login authenticates a username/password pair. The same error covers an
// unknown username and a wrong password.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", ErrForbidden)
		}
		return nil, err
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrForbidden)
	}
	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	hours := s.jwtConfig.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	token, err := utils.GenerateToken(user.ID, user.Username, hours)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(hours) * time.Hour),
		User:     user,
	}, nil
}
