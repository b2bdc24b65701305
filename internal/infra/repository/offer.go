package repository

import (
	"context"

	"opportune/internal/domain/offer"
	"opportune/internal/infra"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
)

type OfferRepository struct{}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{}
}

func (r *OfferRepository) Create(ctx context.Context, dbtx db.DBTX, o *offer.Offer) (uuid.UUID, error) {
	const q = `
		INSERT INTO offers (id, owner_id, title, vacancies, unit_price, is_active, is_promoted, activation_date)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		o.ID(), o.OwnerID(), o.Title(), o.Vacancies(), o.UnitPrice().String(),
		o.IsActive(), o.IsPromoted(), o.ActivationDate(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create offer", err)
	}

	return id, nil
}

func (r *OfferRepository) UpdateActive(ctx context.Context, dbtx db.DBTX, id uuid.UUID, isActive bool, expectedVersion int32) error {
	const q = `
		UPDATE offers
		SET is_active = $2, lock_version = lock_version + 1, updated_at = now()
		WHERE id = $1 AND lock_version = $3`

	tag, err := dbtx.Exec(ctx, q, id, isActive, expectedVersion)
	if err != nil {
		return infra.WrapRepoErr("failed to update offer active flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "offer was modified concurrently")
	}
	return nil
}

func (r *OfferRepository) SetPromoted(ctx context.Context, dbtx db.DBTX, id uuid.UUID, promoted bool) error {
	const q = `
		UPDATE offers
		SET is_promoted = $2, updated_at = now()
		WHERE id = $1`

	tag, err := dbtx.Exec(ctx, q, id, promoted)
	if err != nil {
		return infra.WrapRepoErr("failed to update offer promoted flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "offer not found")
	}
	return nil
}
