package commands

import (
	"context"
	"errors"
	"time"

	domoffer "opportune/internal/domain/offer"
	"opportune/internal/infra"
	"opportune/internal/pkg/clock"
	"opportune/internal/pkg/errs"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOfferNotOwned    = errs.New("offer not owned by user")
	ErrOfferHasBookings = errs.New("offer has active reservations")
)

type CreateOfferParams struct {
	OwnerID        uuid.UUID
	Title          string
	Vacancies      int32
	UnitPrice      decimal.Decimal
	ActivationDate time.Time
}

type OfferCommands interface {
	CreateOffer(ctx context.Context, params CreateOfferParams) (*queries.OfferView, error)
	ActivateOffer(ctx context.Context, offerID, actorID uuid.UUID) error
	DeactivateOffer(ctx context.Context, offerID, actorID uuid.UUID) error
}

type offerUseCaseImpl struct {
	uow          shared.UnitOfWork
	offerQueries queries.OfferQueries
	clock        clock.Clock
}

func NewOfferCommands(uow shared.UnitOfWork, offerQueries queries.OfferQueries, clk clock.Clock) OfferCommands {
	return &offerUseCaseImpl{uow: uow, offerQueries: offerQueries, clock: clk}
}

func (uc *offerUseCaseImpl) CreateOffer(ctx context.Context, params CreateOfferParams) (*queries.OfferView, error) {
	entity, err := domoffer.NewOffer(
		params.OwnerID,
		params.Title,
		params.Vacancies,
		params.UnitPrice,
		params.ActivationDate,
		uc.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, cerr := tx.Offers().Create(ctx, tx.DB(), entity)
		if cerr != nil {
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := uc.offerQueries.GetByID(ctx, createdID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (uc *offerUseCaseImpl) ActivateOffer(ctx context.Context, offerID, actorID uuid.UUID) error {
	return uc.setActive(ctx, offerID, actorID, true)
}

// DeactivateOffer refuses to deactivate while active reservations still
// claim capacity; the bookings must be cancelled or swept first.
func (uc *offerUseCaseImpl) DeactivateOffer(ctx context.Context, offerID, actorID uuid.UUID) error {
	return uc.setActive(ctx, offerID, actorID, false)
}

func (uc *offerUseCaseImpl) setActive(ctx context.Context, offerID, actorID uuid.UUID, active bool) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, oerr := tx.Reads().OfferByID(ctx, offerID)
		if oerr != nil {
			if infra.IsKind(oerr, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(oerr, ErrDatabaseOperationFailed)
		}
		if snap.OwnerID != actorID {
			return ErrOfferNotOwned
		}

		entity := reconstructOffer(snap)
		var derr error
		if active {
			derr = entity.Activate()
		} else {
			activeCount, cerr := tx.Reads().ActiveReservationCount(ctx, offerID)
			if cerr != nil {
				return errs.Mark(cerr, ErrDatabaseOperationFailed)
			}
			derr = entity.Deactivate(activeCount)
		}
		if derr != nil {
			if errors.Is(derr, domoffer.ErrHasActiveBookings) {
				return errs.Mark(derr, ErrOfferHasBookings)
			}
			return errs.Mark(derr, ErrDomainValidation)
		}

		if uerr := tx.Offers().UpdateActive(ctx, tx.DB(), offerID, entity.IsActive(), snap.LockVersion); uerr != nil {
			if infra.IsKind(uerr, infra.KindConflict) {
				return errs.Mark(uerr, ErrConcurrentModification)
			}
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func reconstructOffer(snap *shared.OfferSnapshot) *domoffer.Offer {
	return domoffer.Reconstruct(
		snap.ID, snap.OwnerID, snap.Title,
		snap.Vacancies, snap.UnitPrice,
		snap.IsActive, snap.IsPromoted,
		snap.ActivationDate, snap.CreatedAt, snap.UpdatedAt,
	)
}
