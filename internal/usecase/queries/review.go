package queries

import (
	"context"

	"github.com/google/uuid"
)

type ReviewQueries interface {
	ListByOffer(ctx context.Context, offerID uuid.UUID, limit int) ([]*ReviewView, error)
}

type ReviewReadStore interface {
	FindByOfferID(ctx context.Context, offerID uuid.UUID, limit int32) ([]*ReviewView, error)
}

type reviewQueriesImpl struct {
	readStore ReviewReadStore
}

func NewReviewQueries(readStore ReviewReadStore) ReviewQueries {
	return &reviewQueriesImpl{readStore: readStore}
}

func (q *reviewQueriesImpl) ListByOffer(ctx context.Context, offerID uuid.UUID, limit int) ([]*ReviewView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.readStore.FindByOfferID(ctx, offerID, int32(limit))
}
