package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lab-rental-service/internal/domain"
)

// RentalPatch carries the optional fields of a partial update. Nil fields
// are left untouched.
type RentalPatch struct {
	UserID          *int64
	RentalDate      *string
	RentalStartTime *string
	RentalPurpose   *string
	RentalUser      *string
	RentalUsers     *[]string
	LapName         *string
	PendingDeletion *bool
	PendingApproval *bool
}

// RentalRepository encapsulates rental persistence.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	ListAll(ctx context.Context) ([]domain.Rental, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Rental, error)
	ListPendingApproval(ctx context.Context) ([]domain.Rental, error)
	ListPendingDeletion(ctx context.Context) ([]domain.Rental, error)
	UpdatePartial(ctx context.Context, id int64, patch RentalPatch) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

type rentalRepository struct {
	pool *pgxpool.Pool
}

// NewRentalRepository instantiates repository.
func NewRentalRepository(pool *pgxpool.Pool) RentalRepository {
	return &rentalRepository{pool: pool}
}

const rentalColumns = `id, user_id, rental_date, rental_start_time, rental_purpose,
               rental_user, rental_users, lap_name, pending_deletion, pending_approval,
               created_at, updated_at`

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	const query = `
        INSERT INTO rentals (user_id, rental_date, rental_start_time, rental_purpose,
                             rental_user, rental_users, lap_name, pending_deletion, pending_approval)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rental.UserID,
		rental.RentalDate,
		rental.RentalStartTime,
		rental.RentalPurpose,
		rental.RentalUser,
		rental.RentalUsers,
		rental.LapName,
		rental.PendingDeletion,
		rental.PendingApproval,
	).Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id=$1`

	var rental domain.Rental
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&rental.ID,
		&rental.UserID,
		&rental.RentalDate,
		&rental.RentalStartTime,
		&rental.RentalPurpose,
		&rental.RentalUser,
		&rental.RentalUsers,
		&rental.LapName,
		&rental.PendingDeletion,
		&rental.PendingApproval,
		&rental.CreatedAt,
		&rental.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]domain.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY id`)
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE user_id=$1 ORDER BY id`, userID)
}

// ListPendingApproval returns rentals whose approval flag is still false,
// i.e. requests awaiting approval. The filter polarity is inverted relative
// to the method name on purpose and matches the observed behavior of the
// source system.
func (r *rentalRepository) ListPendingApproval(ctx context.Context) ([]domain.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE pending_approval=false ORDER BY id`)
}

// ListPendingDeletion mirrors ListPendingApproval's inverted polarity for
// the deletion flag.
func (r *rentalRepository) ListPendingDeletion(ctx context.Context) ([]domain.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE pending_deletion=false ORDER BY id`)
}

// UpdatePartial applies only the provided fields. A zero-row match is not an
// error: the caller checks existence up front, and the trailing update of
// the mark-then-delete sequence runs against an already removed row.
func (r *rentalRepository) UpdatePartial(ctx context.Context, id int64, patch RentalPatch) error {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.UserID != nil {
		add("user_id", *patch.UserID)
	}
	if patch.RentalDate != nil {
		add("rental_date", *patch.RentalDate)
	}
	if patch.RentalStartTime != nil {
		add("rental_start_time", *patch.RentalStartTime)
	}
	if patch.RentalPurpose != nil {
		add("rental_purpose", *patch.RentalPurpose)
	}
	if patch.RentalUser != nil {
		add("rental_user", *patch.RentalUser)
	}
	if patch.RentalUsers != nil {
		add("rental_users", *patch.RentalUsers)
	}
	if patch.LapName != nil {
		add("lap_name", *patch.LapName)
	}
	if patch.PendingDeletion != nil {
		add("pending_deletion", *patch.PendingDeletion)
	}
	if patch.PendingApproval != nil {
		add("pending_approval", *patch.PendingApproval)
	}

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE rentals SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *rentalRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM rentals WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *rentalRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM rentals`)
	return err
}

func (r *rentalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRentals(rows)
}

func scanRentals(rows pgx.Rows) ([]domain.Rental, error) {
	var result []domain.Rental
	for rows.Next() {
		var rental domain.Rental
		if err := rows.Scan(
			&rental.ID,
			&rental.UserID,
			&rental.RentalDate,
			&rental.RentalStartTime,
			&rental.RentalPurpose,
			&rental.RentalUser,
			&rental.RentalUsers,
			&rental.LapName,
			&rental.PendingDeletion,
			&rental.PendingApproval,
			&rental.CreatedAt,
			&rental.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rental)
	}
	return result, rows.Err()
}
