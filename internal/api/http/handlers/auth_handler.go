package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lab-rental-service/internal/api/dto"
	"github.com/spec-kit/lab-rental-service/internal/auth"
	"github.com/spec-kit/lab-rental-service/internal/service"
	apperrors "github.com/spec-kit/lab-rental-service/pkg/util"
)

// AuthHandler exposes login and token endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username and password required")
	}

	pair, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// RotateAccess handles POST /auth/token/access. The route is guarded by the
// auth middleware, so the token is already verified; rotation re-verifies it
// and mints an access token regardless of the presented kind.
func (h *AuthHandler) RotateAccess(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	pair, err := h.auth.Rotate(principal.Token, false)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "access token issued",
		"token": fiber.Map{
			"newAccessToken": pair.AccessToken,
		},
	})
}

// CheckToken handles GET /auth/check_token.
func (h *AuthHandler) CheckToken(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	identity, err := h.auth.CheckToken(c.Context(), principal.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"body": fiber.Map{
			"userId": fiber.Map{
				"id":   identity.UserID,
				"type": identity.Kind,
			},
			"userStatus": identity.User,
			"token":      identity.Token,
		},
	})
}
