package readstore

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/infra/db"
	"opportune/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReviewReadStore struct {
	dbtx db.DBTX
}

func NewReviewReadStore(dbtx db.DBTX) *ReviewReadStore {
	return &ReviewReadStore{dbtx: dbtx}
}

func (s *ReviewReadStore) FindByOfferID(ctx context.Context, offerID uuid.UUID, limit int32) ([]*queries.ReviewView, error) {
	const q = `
		SELECT id, offer_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE offer_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.dbtx.Query(ctx, q, offerID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reviews", err)
	}
	defer rows.Close()

	var views []*queries.ReviewView
	for rows.Next() {
		var view queries.ReviewView
		if scanErr := rows.Scan(&view.ID, &view.OfferID, &view.UserID, &view.Rating, &view.Comment, &view.CreatedAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan review row", scanErr)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate review rows", err)
	}
	return views, nil
}
