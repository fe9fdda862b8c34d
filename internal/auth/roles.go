package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lab-rental-service/internal/domain"
	"github.com/spec-kit/lab-rental-service/internal/repository"
	apperrors "github.com/spec-kit/lab-rental-service/pkg/util"
)

// RequireRole ensures the authenticated principal holds the required role.
// The role is re-read from the user store rather than trusted from the
// token, so this gate must run after AuthMiddleware.Handle.
func RequireRole(users repository.UserRepository, required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		user, err := users.GetByID(c.Context(), principal.UserID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("user not found")
			}
			return apperrors.MapError(err)
		}

		if user.Role != required {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
