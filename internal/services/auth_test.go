package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/teamfit/backend/internal/config"
	"github.com/teamfit/backend/internal/utils"
)

func setupAuth(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	return NewAuthService(setupTestDB(t), &config.JWTConfig{Secret: "test-secret", ExpireHours: 1})
}

func TestAuthRegister_IssuesToken(t *testing.T) {
	svc := setupAuth(t)

	result, err := svc.Register(&CreateUserRequest{
		Email:    "athlete@example.com",
		Username: "athlete",
		Password: "password1234",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := utils.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != result.User.ID || claims.Username != "athlete" {
		t.Errorf("claims = %s/%s, expected %s/athlete", claims.UserID, claims.Username, result.User.ID)
	}
}

func TestAuthLogin(t *testing.T) {
	svc := setupAuth(t)
	if _, err := svc.Register(&CreateUserRequest{
		Email:    "athlete@example.com",
		Username: "athlete",
		Password: "password1234",
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "athlete", Password: "password1234"}); err != nil {
		t.Errorf("Login() error = %v", err)
	}

	// Unknown user and wrong password fail with the same message.
	_, errUser := svc.Login(&LoginRequest{Username: "nobody", Password: "password1234"})
	_, errPass := svc.Login(&LoginRequest{Username: "athlete", Password: "wrong-password"})
	if !errors.Is(errUser, ErrForbidden) || !errors.Is(errPass, ErrForbidden) {
		t.Fatalf("errors = %v / %v, expected ErrForbidden for both", errUser, errPass)
	}
	if errUser.Error() != errPass.Error() {
		t.Errorf("login failures should be indistinguishable: %q vs %q", errUser, errPass)
	}
	if strings.Contains(errUser.Error(), "nobody") {
		t.Error("login failure should not leak the username")
	}
}

func TestAuthRegister_StoresHashedPassword(t *testing.T) {
	svc := setupAuth(t)
	result, err := svc.Register(&CreateUserRequest{
		Email:    "athlete@example.com",
		Username: "athlete",
		Password: "password1234",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.User.Password == "password1234" {
		t.Error("password must not be stored in clear")
	}
	if !utils.CheckPassword("password1234", result.User.Password) {
		t.Error("stored hash should verify against the original password")
	}
}
