package repository

import (
	"context"

	"opportune/internal/domain/promotion"
	"opportune/internal/infra"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
)

type PromotionRepository struct{}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{}
}

// Create relies on the (offer_id, promoter_id) unique key: a second
// promotion from the same user on the same offer comes back as a
// DUPLICATE_KEY kind.
func (r *PromotionRepository) Create(ctx context.Context, dbtx db.DBTX, p *promotion.Promotion) (uuid.UUID, error) {
	const q = `
		INSERT INTO promotions (id, offer_id, promoter_id, value, expire_at, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		p.ID(), p.OfferID(), p.PromoterID(), p.Value().String(), p.ExpireAt(), p.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create promotion", err)
	}

	return id, nil
}

func (r *PromotionRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const q = `DELETE FROM promotions WHERE id = $1`

	tag, err := dbtx.Exec(ctx, q, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete promotion", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "promotion not found")
	}
	return nil
}
