package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lab-rental-service/internal/api/dto"
	"github.com/spec-kit/lab-rental-service/internal/repository"
	"github.com/spec-kit/lab-rental-service/internal/service"
	apperrors "github.com/spec-kit/lab-rental-service/pkg/util"
)

// RentalsHandler manages the rental request endpoints.
type RentalsHandler struct {
	service *service.RentalService
	users   repository.UserRepository
}

// NewRentalsHandler constructs handler.
func NewRentalsHandler(rentalService *service.RentalService, users repository.UserRepository) *RentalsHandler {
	return &RentalsHandler{service: rentalService, users: users}
}

// Create POST /lap.
func (h *RentalsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	rental, err := h.service.Create(c.Context(), service.RentalCreateInput{
		UserID:          req.UserID,
		RentalDate:      req.RentalDate,
		RentalStartTime: req.RentalStartTime,
		RentalPurpose:   req.RentalPurpose,
		RentalUser:      req.RentalUser,
		RentalUsers:     req.RentalUsers,
		LapName:         req.LapName,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"ID":      rental.ID,
	})
}

// List GET /lap.
func (h *RentalsHandler) List(c *fiber.Ctx) error {
	rentals, err := h.service.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "body": rentals})
}

// ListPendingApproval GET /lap/approved.
func (h *RentalsHandler) ListPendingApproval(c *fiber.Ctx) error {
	rentals, err := h.service.ListPendingApproval(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "body": rentals})
}

// ListPendingDeletion GET /lap/deletion.
func (h *RentalsHandler) ListPendingDeletion(c *fiber.Ctx) error {
	rentals, err := h.service.ListPendingDeletion(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "body": rentals})
}

// Get GET /lap/:id.
func (h *RentalsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	rental, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(fmt.Sprintf("no rental request with ID %d was found", id))
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "body": rental})
}

// ListByUser GET /lap/user/:id. Owner existence is checked here, at the
// caller layer, before the store is consulted.
func (h *RentalsHandler) ListByUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if _, err := h.users.GetByID(c.Context(), id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(fmt.Sprintf("no user with ID %d was found", id))
		}
		return err
	}

	rentals, err := h.service.ListByUser(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "body": rentals})
}

// Update PATCH /lap/:id.
func (h *RentalsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	if _, err := h.service.GetByID(c.Context(), id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(fmt.Sprintf("no rental request with ID %d was found", id))
		}
		return err
	}

	patch := repository.RentalPatch{
		UserID:          req.UserID,
		RentalDate:      req.RentalDate,
		RentalStartTime: req.RentalStartTime,
		RentalPurpose:   req.RentalPurpose,
		RentalUser:      req.RentalUser,
		RentalUsers:     req.RentalUsers,
		LapName:         req.LapName,
		PendingDeletion: req.PendingDeletion,
		PendingApproval: req.PendingApproval,
	}
	if err := h.service.Update(c.Context(), id, patch); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteAll DELETE /lap.
func (h *RentalsHandler) DeleteAll(c *fiber.Ctx) error {
	if err := h.service.DeleteAll(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid id")
	}
	return int64(id), nil
}
