package commands

import (
	"context"
	"errors"
	"time"

	domres "opportune/internal/domain/reservation"
	"opportune/internal/pkg/clock"
	"opportune/internal/pkg/errs"
	"opportune/internal/usecase/shared"
)

// SweepReport summarizes one sweep pass.
type SweepReport struct {
	Scanned int
	Expired int
}

// SweepCommands are the batch expiry passes the background sweeper drives.
// Each pass runs in a single transaction: either the whole batch lands or
// none of it does, so a re-run over the same instant is a no-op.
type SweepCommands interface {
	SweepExpired(ctx context.Context) (*SweepReport, error)
	SweepExpiredPromotions(ctx context.Context) (*SweepReport, error)
}

type sweepUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSweepCommands(uow shared.UnitOfWork, clk clock.Clock) SweepCommands {
	return &sweepUseCaseImpl{uow: uow, clock: clk}
}

// expirable is the one-of candidate a sweep pass walks over. Exactly one
// field is set; expiry handling dispatches on which.
type expirable struct {
	reservation *shared.ReservationSnapshot
	promotion   *shared.PromotionSnapshot
}

func (e expirable) expiresAt() time.Time {
	if e.reservation != nil {
		return e.reservation.TargetDate
	}
	return e.promotion.ExpireAt
}

// SweepExpired loads every time-bounded candidate whose expiry sits at or
// before the current instant and applies the matching transition:
// reservations flip inactive, promotions are deleted and their offer's
// promoted flag re-derived.
func (uc *sweepUseCaseImpl) SweepExpired(ctx context.Context) (*SweepReport, error) {
	now := uc.clock.Now()
	report := &SweepReport{}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		*report = SweepReport{}

		candidates, lerr := loadExpiredCandidates(ctx, tx, now)
		if lerr != nil {
			return lerr
		}
		report.Scanned = len(candidates)

		for _, c := range candidates {
			expired, aerr := applyIfExpired(ctx, tx, c, now)
			if aerr != nil {
				return aerr
			}
			if expired {
				report.Expired++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// SweepExpiredPromotions is the narrower pass that only retires promotions.
// It runs on its own, longer cadence.
func (uc *sweepUseCaseImpl) SweepExpiredPromotions(ctx context.Context) (*SweepReport, error) {
	now := uc.clock.Now()
	report := &SweepReport{}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		*report = SweepReport{}

		promos, perr := tx.Reads().PromotionsExpiringBefore(ctx, now)
		if perr != nil {
			return errs.Mark(perr, ErrDatabaseOperationFailed)
		}
		report.Scanned = len(promos)

		for i := range promos {
			expired, aerr := applyIfExpired(ctx, tx, expirable{promotion: &promos[i]}, now)
			if aerr != nil {
				return aerr
			}
			if expired {
				report.Expired++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func loadExpiredCandidates(ctx context.Context, tx shared.Tx, now time.Time) ([]expirable, error) {
	reservations, err := tx.Reads().ActiveReservationsExpiringBefore(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	promotions, err := tx.Reads().PromotionsExpiringBefore(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	candidates := make([]expirable, 0, len(reservations)+len(promotions))
	for i := range reservations {
		candidates = append(candidates, expirable{reservation: &reservations[i]})
	}
	for i := range promotions {
		candidates = append(candidates, expirable{promotion: &promotions[i]})
	}
	return candidates, nil
}

// applyIfExpired re-checks expiry against the shared pass instant before
// transitioning, so a candidate loaded by an over-broad query is skipped
// rather than expired early.
func applyIfExpired(ctx context.Context, tx shared.Tx, c expirable, now time.Time) (bool, error) {
	if c.expiresAt().After(now) {
		return false, nil
	}

	if c.reservation != nil {
		return true, expireReservationInTx(ctx, tx, c.reservation, now)
	}
	return true, expirePromotionInTx(ctx, tx, c.promotion, now)
}

func expireReservationInTx(ctx context.Context, tx shared.Tx, snap *shared.ReservationSnapshot, now time.Time) error {
	entity := reconstructReservation(snap)
	if err := entity.MarkElapsed(now); err != nil {
		// Already swept by a concurrent pass.
		if errors.Is(err, domres.ErrAlreadyInactive) {
			return nil
		}
		return errs.Mark(err, ErrDomainValidation)
	}
	if err := tx.Reservations().Update(ctx, tx.DB(), entity, snap.LockVersion); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
