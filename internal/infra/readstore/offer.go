package readstore

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/infra/db"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const offerViewColumns = `
	o.id, o.owner_id, o.title, o.vacancies, o.unit_price::text,
	o.is_active, o.is_promoted, o.activation_date,
	COALESCE(s.review_count, 0), COALESCE(s.average_rating, 0)::text,
	o.created_at, o.updated_at`

type OfferReadStore struct {
	dbtx db.DBTX
}

func NewOfferReadStore(dbtx db.DBTX) *OfferReadStore {
	return &OfferReadStore{dbtx: dbtx}
}

func (s *OfferReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OfferView, error) {
	q := `
		SELECT` + offerViewColumns + `
		FROM offers o
		LEFT JOIN offer_rating_stats s ON s.offer_id = o.id
		WHERE o.id = $1`

	row := s.dbtx.QueryRow(ctx, q, id)
	view, err := scanOfferView(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find offer", err)
	}
	return view, nil
}

func (s *OfferReadStore) FindActive(ctx context.Context, limit int32) ([]*queries.OfferView, error) {
	q := `
		SELECT` + offerViewColumns + `
		FROM offers o
		LEFT JOIN offer_rating_stats s ON s.offer_id = o.id
		WHERE o.is_active = TRUE
		ORDER BY o.is_promoted DESC, o.activation_date ASC
		LIMIT $1`

	return s.findMany(ctx, q, limit)
}

func (s *OfferReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.OfferView, error) {
	q := `
		SELECT` + offerViewColumns + `
		FROM offers o
		LEFT JOIN offer_rating_stats s ON s.offer_id = o.id
		WHERE o.owner_id = $1
		ORDER BY o.created_at DESC`

	return s.findMany(ctx, q, ownerID)
}

func (s *OfferReadStore) findMany(ctx context.Context, q string, args ...any) ([]*queries.OfferView, error) {
	rows, err := s.dbtx.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list offers", err)
	}
	defer rows.Close()

	var views []*queries.OfferView
	for rows.Next() {
		view, scanErr := scanOfferView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan offer row", scanErr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate offer rows", err)
	}
	return views, nil
}

// FindSnapshotByID backs the write side: it carries the lock_version token
// the repositories check on update.
func (s *OfferReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	const q = `
		SELECT id, owner_id, title, vacancies, unit_price::text,
		       is_active, is_promoted, activation_date, lock_version,
		       created_at, updated_at
		FROM offers
		WHERE id = $1`

	var (
		snap      shared.OfferSnapshot
		priceText string
	)
	err := s.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.OwnerID, &snap.Title, &snap.Vacancies, &priceText,
		&snap.IsActive, &snap.IsPromoted, &snap.ActivationDate, &snap.LockVersion,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find offer snapshot", err)
	}

	snap.UnitPrice, err = decimal.NewFromString(priceText)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to parse offer unit price", err)
	}
	return &snap, nil
}

func scanOfferView(row pgx.Row) (*queries.OfferView, error) {
	var (
		view       queries.OfferView
		priceText  string
		ratingText string
	)
	err := row.Scan(
		&view.ID, &view.OwnerID, &view.Title, &view.Vacancies, &priceText,
		&view.IsActive, &view.IsPromoted, &view.ActivationDate,
		&view.ReviewCount, &ratingText,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if view.UnitPrice, err = decimal.NewFromString(priceText); err != nil {
		return nil, err
	}
	if view.AverageRating, err = decimal.NewFromString(ratingText); err != nil {
		return nil, err
	}
	return &view, nil
}
