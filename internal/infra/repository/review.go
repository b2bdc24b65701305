package repository

import (
	"context"

	"opportune/internal/domain/review"
	"opportune/internal/infra"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
)

type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Create(ctx context.Context, dbtx db.DBTX, rev *review.Review) (uuid.UUID, error) {
	const q = `
		INSERT INTO reviews (id, offer_id, user_id, reservation_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		rev.ID(), rev.OfferID(), rev.UserID(), rev.ReservationID(),
		rev.Rating().Value(), rev.Comment().String(), rev.CreatedAt(), rev.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create review", err)
	}

	return id, nil
}
