package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/lab-rental-service/internal/domain"
	"github.com/spec-kit/lab-rental-service/internal/events"
	"github.com/spec-kit/lab-rental-service/internal/repository"
	apperrors "github.com/spec-kit/lab-rental-service/pkg/util"
)

// RentalCreateInput carries the caller-supplied fields of a new request.
type RentalCreateInput struct {
	UserID          int64
	RentalDate      string
	RentalStartTime string
	RentalPurpose   string
	RentalUser      string
	RentalUsers     []string
	LapName         string
}

// RentalService implements the rental request workflow.
type RentalService struct {
	rentals    repository.RentalRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRentalService builds the service.
func NewRentalService(rentals repository.RentalRepository, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RentalService {
	return &RentalService{
		rentals:    rentals,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Create persists a new rental request. The owner must resolve in the user
// store; both workflow flags start false regardless of caller input.
func (s *RentalService) Create(ctx context.Context, input RentalCreateInput) (*domain.Rental, error) {
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotAcceptable(fmt.Sprintf("no user with ID %d exists", input.UserID))
		}
		return nil, err
	}

	rental := &domain.Rental{
		UserID:          input.UserID,
		RentalDate:      input.RentalDate,
		RentalStartTime: input.RentalStartTime,
		RentalPurpose:   input.RentalPurpose,
		RentalUser:      input.RentalUser,
		RentalUsers:     input.RentalUsers,
		LapName:         input.LapName,
		PendingDeletion: false,
		PendingApproval: false,
	}
	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRentalCreated, rental.ID, events.RentalCreatedPayload{
		UserID:     rental.UserID,
		LapName:    rental.LapName,
		RentalDate: rental.RentalDate,
	})
	return rental, nil
}

// ListAll returns every rental request in insertion order.
func (s *RentalService) ListAll(ctx context.Context) ([]domain.Rental, error) {
	return s.rentals.ListAll(ctx)
}

// ListByUser returns the requests owned by the given user. Owner existence
// is checked by the caller, not here.
func (s *RentalService) ListByUser(ctx context.Context, userID int64) ([]domain.Rental, error) {
	return s.rentals.ListByUser(ctx, userID)
}

// ListPendingApproval returns requests still awaiting approval.
func (s *RentalService) ListPendingApproval(ctx context.Context) ([]domain.Rental, error) {
	return s.rentals.ListPendingApproval(ctx)
}

// ListPendingDeletion returns requests not marked for deletion.
func (s *RentalService) ListPendingDeletion(ctx context.Context) ([]domain.Rental, error) {
	return s.rentals.ListPendingDeletion(ctx)
}

// GetByID returns a single request, or pgx.ErrNoRows when absent.
func (s *RentalService) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	return s.rentals.GetByID(ctx, id)
}

// Update applies a partial field set. When the patch turns the deletion flag
// on, the record is first persisted with the new fields and then removed
// within the same call; the closing general update then runs against the
// already deleted row as a no-op. The two store calls are deliberately not
// wrapped in a transaction, matching the source system.
func (s *RentalService) Update(ctx context.Context, id int64, patch repository.RentalPatch) error {
	if patch.PendingDeletion != nil && *patch.PendingDeletion {
		if err := s.rentals.UpdatePartial(ctx, id, patch); err != nil {
			return err
		}
		if err := s.deleteApproved(ctx, id); err != nil {
			return err
		}
	}

	if err := s.rentals.UpdatePartial(ctx, id, patch); err != nil {
		return err
	}

	s.publish(ctx, events.EventRentalUpdated, id, events.RentalUpdatedPayload{
		PendingDeletion: patch.PendingDeletion,
		PendingApproval: patch.PendingApproval,
	})
	return nil
}

// deleteApproved removes a request whose stored deletion flag reads true.
// The flag is re-read before deleting; a false read means deletion was never
// approved and the call fails.
func (s *RentalService) deleteApproved(ctx context.Context, id int64) error {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !rental.PendingDeletion {
		return apperrors.NewNotAcceptable("deletion of this request has not been approved")
	}
	if err := s.rentals.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRentalDeleted, id, events.RentalDeletedPayload{
		UserID:  rental.UserID,
		LapName: rental.LapName,
	})
	return nil
}

// DeleteAll wipes every rental request unconditionally.
func (s *RentalService) DeleteAll(ctx context.Context) error {
	if err := s.rentals.DeleteAll(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.EventRentalsPurged, 0, nil)
	return nil
}

func (s *RentalService) publish(ctx context.Context, eventType events.EventType, rentalID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RentalID:  rentalID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
