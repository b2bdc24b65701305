package commands

import (
	"context"

	domreview "opportune/internal/domain/review"
	"opportune/internal/infra"
	"opportune/internal/pkg/clock"
	"opportune/internal/pkg/errs"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReviewNotEligible = errs.New("reservation is not eligible for review")
	ErrDuplicateReview   = errs.New("reservation already has a review")
)

type CreateReviewParams struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	OfferID       uuid.UUID
	Rating        int
	Comment       string
}

type CreateReviewResult struct {
	ReviewID uuid.UUID
}

type ReviewCommands interface {
	CreateReview(ctx context.Context, params CreateReviewParams) (*CreateReviewResult, error)
}

type reviewUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReviewCommands(uow shared.UnitOfWork, clk clock.Clock) ReviewCommands {
	return &reviewUseCaseImpl{uow: uow, clock: clk}
}

func (uc *reviewUseCaseImpl) CreateReview(ctx context.Context, params CreateReviewParams) (*CreateReviewResult, error) {
	rating, err := domreview.NewRating(params.Rating)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	comment, err := domreview.NewComment(params.Comment)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var reviewID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, rerr := tx.Reads().ReservationByID(ctx, params.ReservationID)
		if rerr != nil {
			if infra.IsKind(rerr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(rerr, ErrDatabaseOperationFailed)
		}

		services := &domreview.Services{
			Clock:              uc.clock,
			EligibilityChecker: &snapshotEligibility{snap: snap},
		}
		entity, derr := domreview.NewReview(services, params.UserID, params.OfferID, params.ReservationID, rating, comment)
		if derr != nil {
			return errs.Mark(derr, ErrReviewNotEligible)
		}

		id, cerr := tx.Reviews().Create(ctx, tx.DB(), entity)
		if cerr != nil {
			if infra.IsKind(cerr, infra.KindDuplicateKey) {
				return errs.Mark(cerr, ErrDuplicateReview)
			}
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}
		reviewID = id

		// Incremental aggregate maintenance drifts; recompute from the rows.
		if serr := tx.RatingStats().RecalcOfferRatingStats(ctx, tx.DB(), params.OfferID); serr != nil {
			return errs.Mark(serr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &CreateReviewResult{ReviewID: reviewID}, nil
}

// snapshotEligibility validates review eligibility against the reservation
// row loaded in the same transaction: the reviewer must own the reservation,
// it must belong to the reviewed offer, and its target date must have passed.
type snapshotEligibility struct {
	snap *shared.ReservationSnapshot
}

func (c *snapshotEligibility) CanPostReview(input domreview.EligibilityInput) error {
	if c.snap.ID != input.ReservationID ||
		c.snap.UserID != input.UserID ||
		c.snap.OfferID != input.OfferID {
		return domreview.ErrReservationNotEligible
	}
	if c.snap.TargetDate.After(input.Now) {
		return domreview.ErrReservationNotEligible
	}
	return nil
}
