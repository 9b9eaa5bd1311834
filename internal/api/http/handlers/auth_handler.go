package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shelter-kit/shelter-service/internal/api/dto"
	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/domain"
	"github.com/shelter-kit/shelter-service/internal/service"
	apperrors "github.com/shelter-kit/shelter-service/pkg/util"
)

// AuthHandler exposes registration, login, logout and role assignment.
type AuthHandler struct {
	auth       *service.AuthService
	middleware *auth.AuthMiddleware
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, middleware *auth.AuthMiddleware) *AuthHandler {
	return &AuthHandler{auth: authService, middleware: middleware}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserDetail(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Roles:     domain.RoleNames(user.Roles),
			Token:     token,
			ExpiresAt: exp,
		},
	})
}

// Logout handles POST /api/auth/logout. The presented bearer token is
// revoked when a denylist is configured.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := h.middleware.BearerClaims(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// AssignRole handles POST /api/auth/assign-role.
func (h *AuthHandler) AssignRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.auth.AssignRole(c.UserContext(), principal, req.Username, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserDetail(user)})
}
