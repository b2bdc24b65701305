package queries

import (
	"context"

	"opportune/internal/infra"
	"opportune/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationViewNotFound = errs.New("reservation not found")
	ErrReservationAccessDenied = errs.New("reservation access denied")
)

type ReservationQueries interface {
	// GetByID enforces ownership: only the booking user sees the view.
	GetByID(ctx context.Context, actorID, id uuid.UUID) (*ReservationView, error)
	// GetByIDSystem bypasses the ownership check for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*ReservationView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
}

func NewReservationQueries(readStore ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{readStore: readStore}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actorID, id uuid.UUID) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.UserID != actorID {
		return nil, ErrReservationAccessDenied
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationViewNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*ReservationView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.readStore.FindByUserID(ctx, userID, int32(limit))
}
