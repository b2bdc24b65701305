package repository

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
)

type RatingStatsRepository struct{}

func NewRatingStatsRepository() *RatingStatsRepository {
	return &RatingStatsRepository{}
}

// RecalcOfferRatingStats re-derives the aggregate from the review rows
// rather than adjusting it incrementally, the same recompute-from-collection
// shape the promotion flag derivation uses.
func (r *RatingStatsRepository) RecalcOfferRatingStats(ctx context.Context, dbtx db.DBTX, offerID uuid.UUID) error {
	const q = `
		INSERT INTO offer_rating_stats (offer_id, review_count, average_rating, updated_at)
		SELECT $1, COUNT(*), COALESCE(AVG(rating), 0), now()
		FROM reviews
		WHERE offer_id = $1
		ON CONFLICT (offer_id) DO UPDATE
		SET review_count = EXCLUDED.review_count,
		    average_rating = EXCLUDED.average_rating,
		    updated_at = EXCLUDED.updated_at`

	if _, err := dbtx.Exec(ctx, q, offerID); err != nil {
		return infra.WrapRepoErr("failed to recalculate offer rating stats", err)
	}
	return nil
}
