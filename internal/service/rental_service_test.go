package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lab-rental-service/internal/domain"
	"github.com/spec-kit/lab-rental-service/internal/events"
	"github.com/spec-kit/lab-rental-service/internal/repository"
)

type rentalRepoMock struct {
	mock.Mock
}

func (m *rentalRepoMock) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *rentalRepoMock) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	rental, _ := args.Get(0).(*domain.Rental)
	return rental, args.Error(1)
}

func (m *rentalRepoMock) ListAll(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Error(1)
}

func (m *rentalRepoMock) ListByUser(ctx context.Context, userID int64) ([]domain.Rental, error) {
	args := m.Called(ctx, userID)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Error(1)
}

func (m *rentalRepoMock) ListPendingApproval(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Error(1)
}

func (m *rentalRepoMock) ListPendingDeletion(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Error(1)
}

func (m *rentalRepoMock) UpdatePartial(ctx context.Context, id int64, patch repository.RentalPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *rentalRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *rentalRepoMock) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newRentalService(rentals *rentalRepoMock, users *userRepoMock, dispatcher events.Dispatcher) *RentalService {
	return NewRentalService(rentals, users, dispatcher, zap.NewNop())
}

func boolPtr(v bool) *bool { return &v }

func TestRentalServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown owner is rejected", func(t *testing.T) {
		rentals := new(rentalRepoMock)
		users := new(userRepoMock)
		users.On("GetByID", mock.Anything, int64(99)).Return(nil, pgx.ErrNoRows)

		svc := newRentalService(rentals, users, nil)
		_, err := svc.Create(ctx, RentalCreateInput{UserID: 99})
		assertStatus(t, err, 406)
		rentals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("both flags start false", func(t *testing.T) {
		rentals := new(rentalRepoMock)
		users := new(userRepoMock)
		users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)
		rentals.On("Create", mock.Anything, mock.MatchedBy(func(rental *domain.Rental) bool {
			return !rental.PendingApproval && !rental.PendingDeletion && rental.UserID == 5
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Rental).ID = 1
		}).Return(nil)

		dispatcher := events.NewInMemoryDispatcher()
		var published []events.Event
		dispatcher.Subscribe(events.EventRentalCreated, func(_ context.Context, event events.Event) error {
			published = append(published, event)
			return nil
		})

		svc := newRentalService(rentals, users, dispatcher)
		rental, err := svc.Create(ctx, RentalCreateInput{
			UserID:          5,
			RentalDate:      "2024-01-01",
			RentalStartTime: "10:00",
			LapName:         "Room A",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rental.ID)
		assert.False(t, rental.PendingApproval)
		assert.False(t, rental.PendingDeletion)

		require.Len(t, published, 1)
		assert.Equal(t, int64(1), published[0].RentalID)
		rentals.AssertExpectations(t)
	})
}

func TestRentalServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("plain patch applies once", func(t *testing.T) {
		rentals := new(rentalRepoMock)
		users := new(userRepoMock)
		patch := repository.RentalPatch{PendingApproval: boolPtr(true)}
		rentals.On("UpdatePartial", mock.Anything, int64(1), patch).Return(nil).Once()

		svc := newRentalService(rentals, users, nil)
		require.NoError(t, svc.Update(ctx, 1, patch))
		rentals.AssertExpectations(t)
		rentals.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletion flag false is a plain patch", func(t *testing.T) {
		rentals := new(rentalRepoMock)
		users := new(userRepoMock)
		patch := repository.RentalPatch{PendingDeletion: boolPtr(false)}
		rentals.On("UpdatePartial", mock.Anything, int64(1), patch).Return(nil).Once()

		svc := newRentalService(rentals, users, nil)
		require.NoError(t, svc.Update(ctx, 1, patch))
		rentals.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletion flag true persists then deletes in the same call", func(t *testing.T) {
		rentals := new(rentalRepoMock)
		users := new(userRepoMock)
		patch := repository.RentalPatch{PendingDeletion: boolPtr(true)}

		// the patch is applied, the row re-read with the flag now true,
		// deleted, and the trailing update runs against the gone row
		rentals.On("UpdatePartial", mock.Anything, int64(1), patch).Return(nil).Twice()
		rentals.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Rental{ID: 1, UserID: 5, PendingDeletion: true}, nil).Once()
		rentals.On("Delete", mock.Anything, int64(1)).Return(nil).Once()

		dispatcher := events.NewInMemoryDispatcher()
		var deleted []events.Event
		dispatcher.Subscribe(events.EventRentalDeleted, func(_ context.Context, event events.Event) error {
			deleted = append(deleted, event)
			return nil
		})

		svc := newRentalService(rentals, users, dispatcher)
		require.NoError(t, svc.Update(ctx, 1, patch))

		rentals.AssertExpectations(t)
		require.Len(t, deleted, 1)
		assert.Equal(t, int64(1), deleted[0].RentalID)
	})

	t.Run("deletion blocked when the stored flag reads false", func(t *testing.T) {
		rentals := new(rentalRepoMock)
		users := new(userRepoMock)
		patch := repository.RentalPatch{PendingDeletion: boolPtr(true)}

		rentals.On("UpdatePartial", mock.Anything, int64(1), patch).Return(nil).Once()
		rentals.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Rental{ID: 1, PendingDeletion: false}, nil).Once()

		svc := newRentalService(rentals, users, nil)
		err := svc.Update(ctx, 1, patch)
		assertStatus(t, err, 406)
		rentals.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestRentalServiceDeleteAll(t *testing.T) {
	rentals := new(rentalRepoMock)
	users := new(userRepoMock)
	rentals.On("DeleteAll", mock.Anything).Return(nil).Once()

	dispatcher := events.NewInMemoryDispatcher()
	var purged bool
	dispatcher.Subscribe(events.EventRentalsPurged, func(context.Context, events.Event) error {
		purged = true
		return nil
	})

	svc := newRentalService(rentals, users, dispatcher)
	require.NoError(t, svc.DeleteAll(context.Background()))
	assert.True(t, purged)
	rentals.AssertExpectations(t)
}

func TestRentalServiceLists(t *testing.T) {
	ctx := context.Background()
	rentals := new(rentalRepoMock)
	users := new(userRepoMock)
	svc := newRentalService(rentals, users, nil)

	stored := []domain.Rental{{ID: 1, PendingApproval: false}}
	rentals.On("ListPendingApproval", mock.Anything).Return(stored, nil)
	rentals.On("ListPendingDeletion", mock.Anything).Return(stored, nil)
	rentals.On("ListAll", mock.Anything).Return(stored, nil)
	rentals.On("ListByUser", mock.Anything, int64(5)).Return(stored, nil)

	got, err := svc.ListPendingApproval(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	got, err = svc.ListPendingDeletion(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	got, err = svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	got, err = svc.ListByUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}
