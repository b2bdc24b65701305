package commands

import (
	"context"
	"errors"
	"time"

	dompromo "opportune/internal/domain/promotion"
	"opportune/internal/infra"
	"opportune/internal/pkg/clock"
	"opportune/internal/pkg/errs"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveBoost    = errs.New("promotion value must be positive")
	ErrExpiryNotInFuture   = errs.New("promotion expiry must be in the future")
	ErrDuplicatePromotion  = errs.New("promotion already exists for this offer and promoter")
	ErrPromotionNotFound   = errs.New("promotion not found")
	ErrPromotionNotExpired = errs.New("promotion has not expired yet")
)

type CreatePromotionParams struct {
	OfferID    uuid.UUID
	PromoterID uuid.UUID
	Value      decimal.Decimal
	ExpireAt   time.Time
}

type PromotionCommands interface {
	CreatePromotion(ctx context.Context, params CreatePromotionParams) (*queries.PromotionView, error)
	// ExpirePromotion deletes one promotion and re-derives the offer's
	// promoted flag from whatever promotions survive.
	ExpirePromotion(ctx context.Context, promotionID uuid.UUID) error
}

type promotionUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPromotionCommands(uow shared.UnitOfWork, clk clock.Clock) PromotionCommands {
	return &promotionUseCaseImpl{uow: uow, clock: clk}
}

func (uc *promotionUseCaseImpl) CreatePromotion(ctx context.Context, params CreatePromotionParams) (*queries.PromotionView, error) {
	entity, err := dompromo.NewPromotion(
		params.OfferID, params.PromoterID,
		params.Value, params.ExpireAt,
		uc.clock.Now(),
	)
	if err != nil {
		switch {
		case errors.Is(err, dompromo.ErrNonPositiveValue):
			return nil, errs.Mark(err, ErrNonPositiveBoost)
		case errors.Is(err, dompromo.ErrExpiryNotInFuture):
			return nil, errs.Mark(err, ErrExpiryNotInFuture)
		default:
			return nil, errs.Mark(err, ErrDomainValidation)
		}
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, oerr := tx.Reads().OfferByID(ctx, params.OfferID)
		if oerr != nil {
			if infra.IsKind(oerr, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(oerr, ErrDatabaseOperationFailed)
		}
		// Only the offer's owner may promote it; a non-owner learns
		// nothing beyond not-found.
		if snap.OwnerID != params.PromoterID {
			return ErrOfferNotFound
		}

		if _, cerr := tx.Promotions().Create(ctx, tx.DB(), entity); cerr != nil {
			if infra.IsKind(cerr, infra.KindDuplicateKey) {
				return errs.Mark(cerr, ErrDuplicatePromotion)
			}
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}

		// Creating a live promotion makes the offer promoted by definition.
		if serr := tx.Offers().SetPromoted(ctx, tx.DB(), params.OfferID, true); serr != nil {
			return errs.Mark(serr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &queries.PromotionView{
		ID:         entity.ID(),
		OfferID:    entity.OfferID(),
		PromoterID: entity.PromoterID(),
		Value:      entity.Value(),
		ExpireAt:   entity.ExpireAt(),
		CreatedAt:  entity.CreatedAt(),
	}, nil
}

func (uc *promotionUseCaseImpl) ExpirePromotion(ctx context.Context, promotionID uuid.UUID) error {
	now := uc.clock.Now()
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, perr := tx.Reads().PromotionByID(ctx, promotionID)
		if perr != nil {
			if infra.IsKind(perr, infra.KindNotFound) {
				return ErrPromotionNotFound
			}
			return errs.Mark(perr, ErrDatabaseOperationFailed)
		}
		if snap.ExpireAt.After(now) {
			return ErrPromotionNotExpired
		}
		return expirePromotionInTx(ctx, tx, snap, now)
	})
}

// expirePromotionInTx is the single expiry path shared by the manual
// command and the sweep: delete the row, then recount surviving live
// promotions to re-derive the offer flag.
func expirePromotionInTx(ctx context.Context, tx shared.Tx, snap *shared.PromotionSnapshot, now time.Time) error {
	if derr := tx.Promotions().Delete(ctx, tx.DB(), snap.ID); derr != nil {
		if infra.IsKind(derr, infra.KindNotFound) {
			return ErrPromotionNotFound
		}
		return errs.Mark(derr, ErrDatabaseOperationFailed)
	}

	remaining, rerr := tx.Reads().ActivePromotionCount(ctx, snap.OfferID, now)
	if rerr != nil {
		return errs.Mark(rerr, ErrDatabaseOperationFailed)
	}
	if serr := tx.Offers().SetPromoted(ctx, tx.DB(), snap.OfferID, remaining > 0); serr != nil {
		return errs.Mark(serr, ErrDatabaseOperationFailed)
	}
	return nil
}
