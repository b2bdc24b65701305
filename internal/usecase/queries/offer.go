package queries

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOfferViewNotFound = errs.New("offer not found")

type OfferQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OfferView, error)
	ListActive(ctx context.Context, limit int) ([]*OfferView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*OfferView, error)
}

type OfferReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OfferView, error)
	FindActive(ctx context.Context, limit int32) ([]*OfferView, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*OfferView, error)
}

type offerQueriesImpl struct {
	readStore OfferReadStore
}

func NewOfferQueries(readStore OfferReadStore) OfferQueries {
	return &offerQueriesImpl{readStore: readStore}
}

func (q *offerQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OfferView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferViewNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *offerQueriesImpl) ListActive(ctx context.Context, limit int) ([]*OfferView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.readStore.FindActive(ctx, int32(limit))
}

func (q *offerQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*OfferView, error) {
	return q.readStore.FindByOwner(ctx, ownerID)
}
