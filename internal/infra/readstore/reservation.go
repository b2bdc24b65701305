package readstore

import (
	"context"
	"time"

	"opportune/internal/infra"
	"opportune/internal/infra/db"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ReservationReadStore struct {
	dbtx db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{dbtx: dbtx}
}

const reservationViewQuery = `
	SELECT r.id, r.offer_id, o.title, r.user_id, u.email,
	       r.headcount, r.fixed_price::text, r.is_active,
	       r.target_date, r.booking_created_at, r.updated_at
	FROM reservations r
	JOIN offers o ON o.id = r.offer_id
	JOIN users u ON u.id = r.user_id`

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	q := reservationViewQuery + ` WHERE r.id = $1`

	view, err := scanReservationView(s.dbtx.QueryRow(ctx, q, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return view, nil
}

func (s *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	q := reservationViewQuery + `
		WHERE r.user_id = $1
		ORDER BY r.booking_created_at DESC
		LIMIT $2`

	rows, err := s.dbtx.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		view, scanErr := scanReservationView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", scanErr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}
	return views, nil
}

func (s *ReservationReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	const q = `
		SELECT id, offer_id, user_id, headcount, fixed_price::text,
		       is_active, target_date, lock_version, booking_created_at, updated_at
		FROM reservations
		WHERE id = $1`

	snap, err := scanReservationSnapshot(s.dbtx.QueryRow(ctx, q, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation snapshot", err)
	}
	return snap, nil
}

func (s *ReservationReadStore) CountActiveByOfferID(ctx context.Context, offerID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE offer_id = $1 AND is_active = TRUE`

	var count int64
	if err := s.dbtx.QueryRow(ctx, q, offerID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active reservations", err)
	}
	return count, nil
}

// FindActiveExpiringBefore is the generic sweep candidate load: active
// reservations whose target date has passed.
func (s *ReservationReadStore) FindActiveExpiringBefore(ctx context.Context, before time.Time) ([]shared.ReservationSnapshot, error) {
	const q = `
		SELECT id, offer_id, user_id, headcount, fixed_price::text,
		       is_active, target_date, lock_version, booking_created_at, updated_at
		FROM reservations
		WHERE is_active = TRUE AND target_date <= $1
		ORDER BY target_date ASC`

	rows, err := s.dbtx.Query(ctx, q, before)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expiring reservations", err)
	}
	defer rows.Close()

	var snaps []shared.ReservationSnapshot
	for rows.Next() {
		snap, scanErr := scanReservationSnapshot(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan expiring reservation", scanErr)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expiring reservations", err)
	}
	return snaps, nil
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		view      queries.ReservationView
		priceText string
	)
	err := row.Scan(
		&view.ID, &view.OfferID, &view.OfferTitle, &view.UserID, &view.UserEmail,
		&view.Headcount, &priceText, &view.IsActive,
		&view.TargetDate, &view.BookingCreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if view.FixedPrice, err = decimal.NewFromString(priceText); err != nil {
		return nil, err
	}
	return &view, nil
}

func scanReservationSnapshot(row pgx.Row) (*shared.ReservationSnapshot, error) {
	var (
		snap      shared.ReservationSnapshot
		priceText string
	)
	err := row.Scan(
		&snap.ID, &snap.OfferID, &snap.UserID, &snap.Headcount, &priceText,
		&snap.IsActive, &snap.TargetDate, &snap.LockVersion,
		&snap.BookingCreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if snap.FixedPrice, err = decimal.NewFromString(priceText); err != nil {
		return nil, err
	}
	return &snap, nil
}
