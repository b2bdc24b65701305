package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	domres "opportune/internal/domain/reservation"
	"opportune/internal/infra"
	"opportune/internal/pkg/clock"
	"opportune/internal/pkg/errs"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOfferNotFound           = errs.New("offer not found")
	ErrOfferInactive           = errs.New("offer is not active")
	ErrUserNotFound            = errs.New("user not found")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrReservationNotOwned     = errs.New("reservation not owned by user")
	ErrInvalidHeadcount        = errs.New("invalid headcount")
	ErrExceedsCapacity         = errs.New("headcount exceeds offer capacity")
	ErrAlreadyInactive         = errs.New("reservation already inactive")
	ErrReservationElapsed      = errs.New("reservation target date has passed")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrDuplicateRequest        = errs.New("duplicate request with different payload")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
	ErrConcurrentModification  = errs.New("concurrent modification detected")
)

type CreateReservationParams struct {
	OfferID   uuid.UUID
	UserID    uuid.UUID
	Headcount int32
}

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, params CreateReservationParams, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	UpdateHeadcount(ctx context.Context, reservationID, actorID uuid.UUID, newHeadcount int32) (*queries.ReservationView, error)
	DeactivateReservation(ctx context.Context, reservationID, actorID uuid.UUID) error
	DeleteReservation(ctx context.Context, reservationID, actorID uuid.UUID) error
}

type reservationUseCaseImpl struct {
	uow                shared.UnitOfWork
	reservationFactory *domres.Factory
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	reservationFactory *domres.Factory,
	reservationQueries queries.ReservationQueries,
	clk clock.Clock,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:                uow,
		reservationFactory: reservationFactory,
		reservationQueries: reservationQueries,
		clock:              clk,
	}
}

func (uc *reservationUseCaseImpl) CreateReservation(
	ctx context.Context,
	params CreateReservationParams,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	requestHash := calculateRequestHash(params)
	expiresAt := uc.clock.Now().Add(24 * time.Hour)

	replayed, err := uc.handleIdempotency(ctx, idempotencyKey, params.UserID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CreateReservationResult{Reservation: replayed, IsReplayed: true}, nil
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, uerr := tx.Reads().UserByID(ctx, params.UserID); uerr != nil {
			if infra.IsKind(uerr, infra.KindNotFound) {
				return ErrUserNotFound
			}
			return errs.Mark(uerr, ErrDatabaseOperationFailed)
		}

		offerSnap, oerr := tx.Reads().OfferByID(ctx, params.OfferID)
		if oerr != nil {
			if infra.IsKind(oerr, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(oerr, ErrDatabaseOperationFailed)
		}

		entity, derr := uc.reservationFactory.CreateReservation(domres.OfferSpec{
			ID:             offerSnap.ID,
			Vacancies:      offerSnap.Vacancies,
			UnitPrice:      offerSnap.UnitPrice,
			IsActive:       offerSnap.IsActive,
			ActivationDate: offerSnap.ActivationDate,
		}, params.UserID, params.Headcount)
		if derr != nil {
			return markCapacityError(derr)
		}

		id, cerr := tx.Reservations().Create(ctx, tx.DB(), entity)
		if cerr != nil {
			return errs.Mark(cerr, ErrDatabaseOperationFailed)
		}
		createdID = id

		if nerr := createBookingNotification(ctx, tx, id, uc.clock.Now()); nerr != nil {
			return errs.Mark(nerr, ErrDatabaseOperationFailed)
		}

		responseHash := calculateIDHash(id)
		if ierr := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, params.UserID, responseHash, id); ierr != nil {
			return errs.Mark(ierr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write: complete view from the read store
	view, err := uc.reservationQueries.GetByIDSystem(ctx, createdID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &CreateReservationResult{Reservation: view, IsReplayed: false}, nil
}

func (uc *reservationUseCaseImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.ReservationView, error) {
	var existing *shared.IdempotencyRecord
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if ierr := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, userID, "POST /reservations", requestHash, expiresAt); ierr != nil {
			return errs.Mark(ierr, ErrIdempotencyCheckFailed)
		}
		rec, gerr := tx.Reads().IdempotencyByKey(ctx, idempotencyKey, userID)
		if gerr != nil {
			return errs.Mark(gerr, ErrIdempotencyCheckFailed)
		}
		existing = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch existing.Status {
	case "completed":
		if existing.ResultReservationID == nil {
			return nil, errs.New("completed request missing result reservation ID")
		}
		// System-level access for idempotency replay
		return uc.reservationQueries.GetByIDSystem(ctx, *existing.ResultReservationID)

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateRequest
		}
		return nil, nil

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (uc *reservationUseCaseImpl) UpdateHeadcount(
	ctx context.Context,
	reservationID, actorID uuid.UUID,
	newHeadcount int32,
) (*queries.ReservationView, error) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, rerr := tx.Reads().ReservationByID(ctx, reservationID)
		if rerr != nil {
			if infra.IsKind(rerr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(rerr, ErrDatabaseOperationFailed)
		}
		if snap.UserID != actorID {
			return ErrReservationNotOwned
		}

		offerSnap, oerr := tx.Reads().OfferByID(ctx, snap.OfferID)
		if oerr != nil {
			if infra.IsKind(oerr, infra.KindNotFound) {
				return ErrOfferNotFound
			}
			return errs.Mark(oerr, ErrDatabaseOperationFailed)
		}

		entity := reconstructReservation(snap)
		if derr := entity.ChangeHeadcount(newHeadcount, offerSnap.Vacancies, offerSnap.UnitPrice, uc.clock.Now()); derr != nil {
			return markCapacityError(derr)
		}

		return uc.persistUpdate(ctx, tx, entity, snap.LockVersion)
	})
	if err != nil {
		return nil, err
	}

	view, err := uc.reservationQueries.GetByIDSystem(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (uc *reservationUseCaseImpl) DeactivateReservation(ctx context.Context, reservationID, actorID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, rerr := tx.Reads().ReservationByID(ctx, reservationID)
		if rerr != nil {
			if infra.IsKind(rerr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(rerr, ErrDatabaseOperationFailed)
		}
		if snap.UserID != actorID {
			return ErrReservationNotOwned
		}

		entity := reconstructReservation(snap)
		if derr := entity.Deactivate(uc.clock.Now()); derr != nil {
			switch {
			case errors.Is(derr, domres.ErrAlreadyInactive):
				return errs.Mark(derr, ErrAlreadyInactive)
			case errors.Is(derr, domres.ErrElapsed):
				return errs.Mark(derr, ErrReservationElapsed)
			default:
				return errs.Mark(derr, ErrDomainValidation)
			}
		}

		return uc.persistUpdate(ctx, tx, entity, snap.LockVersion)
	})
}

func (uc *reservationUseCaseImpl) DeleteReservation(ctx context.Context, reservationID, actorID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, rerr := tx.Reads().ReservationByID(ctx, reservationID)
		if rerr != nil {
			if infra.IsKind(rerr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(rerr, ErrDatabaseOperationFailed)
		}
		if snap.UserID != actorID {
			return ErrReservationNotOwned
		}

		// Hard delete: no capacity or date check, unlike deactivation.
		if derr := tx.Reservations().Delete(ctx, tx.DB(), reservationID); derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (uc *reservationUseCaseImpl) persistUpdate(ctx context.Context, tx shared.Tx, entity *domres.Reservation, expectedVersion int32) error {
	if uerr := tx.Reservations().Update(ctx, tx.DB(), entity, expectedVersion); uerr != nil {
		if infra.IsKind(uerr, infra.KindConflict) {
			return errs.Mark(uerr, ErrConcurrentModification)
		}
		return errs.Mark(uerr, ErrDatabaseOperationFailed)
	}
	return nil
}

func reconstructReservation(snap *shared.ReservationSnapshot) *domres.Reservation {
	return domres.Reconstruct(
		snap.ID, snap.OfferID, snap.UserID,
		snap.Headcount, snap.FixedPrice, snap.IsActive,
		snap.TargetDate, snap.BookingCreatedAt, snap.UpdatedAt,
	)
}

func markCapacityError(err error) error {
	switch {
	case errors.Is(err, domres.ErrInvalidHeadcount):
		return errs.Mark(err, ErrInvalidHeadcount)
	case errors.Is(err, domres.ErrExceedsCapacity):
		return errs.Mark(err, ErrExceedsCapacity)
	case errors.Is(err, domres.ErrOfferInactive):
		return errs.Mark(err, ErrOfferInactive)
	default:
		return errs.Mark(err, ErrDomainValidation)
	}
}

func createBookingNotification(ctx context.Context, tx shared.Tx, reservationID uuid.UUID, runAt time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": reservationID,
		"type":           "reservation_created",
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "reservation_created", payload, runAt)
}

func calculateRequestHash(params CreateReservationParams) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
