package repository

import (
	"context"

	"opportune/internal/domain/reservation"
	"opportune/internal/infra"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	const q = `
		INSERT INTO reservations (id, offer_id, user_id, headcount, fixed_price, is_active, target_date, booking_created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		res.ID(), res.OfferID(), res.UserID(), res.Headcount(), res.FixedPrice().String(),
		res.IsActive(), res.TargetDate(), res.BookingCreatedAt(), res.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	return id, nil
}

// Update persists headcount/price/active mutations guarded by the
// optimistic lock_version token, so a synchronous update and a concurrent
// sweep pass cannot silently overwrite each other.
func (r *ReservationRepository) Update(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation, expectedVersion int32) error {
	const q = `
		UPDATE reservations
		SET headcount = $2, fixed_price = $3::numeric, is_active = $4,
		    lock_version = lock_version + 1, updated_at = $5
		WHERE id = $1 AND lock_version = $6`

	tag, err := dbtx.Exec(ctx, q,
		res.ID(), res.Headcount(), res.FixedPrice().String(), res.IsActive(),
		res.UpdatedAt(), expectedVersion,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "reservation was modified concurrently")
	}
	return nil
}

// Delete is the unconditional hard delete, distinct from deactivation.
func (r *ReservationRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const q = `DELETE FROM reservations WHERE id = $1`

	tag, err := dbtx.Exec(ctx, q, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return nil
}
