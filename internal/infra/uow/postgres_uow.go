package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"opportune/internal/infra/db"
	"opportune/internal/infra/readstore"
	"opportune/internal/infra/repository"
	"opportune/internal/pkg/errs"
	"opportune/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback read-only transaction", "error", rollbackErr)
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if commitErr := pgxTx.Commit(ctx); commitErr != nil {
				err = errs.Mark(commitErr, errTransactionCommit)
			}
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}

		if err == nil {
			return nil
		}
		if !isRetryableError(err) || attempt == maxRetries {
			if attempt == maxRetries && isRetryableError(err) {
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		backoff := base * time.Duration(1<<attempt)
		jitter := time.Duration(secureRandInt64(int64(backoff / 2)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	return errMaxRetriesExceeded
}

func secureRandInt64(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	offerRepo        shared.OfferRepository
	reservationRepo  shared.ReservationRepository
	promotionRepo    shared.PromotionRepository
	reviewRepo       shared.ReviewRepository
	ratingStatsRepo  shared.RatingStatsRepository
	userRepo         shared.UserRepository
	idempotencyRepo  shared.IdempotencyRepository
	notificationRepo shared.NotificationRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Offers() shared.OfferRepository {
	if t.offerRepo == nil {
		t.offerRepo = repository.NewOfferRepository()
	}
	return t.offerRepo
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository()
	}
	return t.reservationRepo
}

func (t *pgTx) Promotions() shared.PromotionRepository {
	if t.promotionRepo == nil {
		t.promotionRepo = repository.NewPromotionRepository()
	}
	return t.promotionRepo
}

func (t *pgTx) Reviews() shared.ReviewRepository {
	if t.reviewRepo == nil {
		t.reviewRepo = repository.NewReviewRepository()
	}
	return t.reviewRepo
}

func (t *pgTx) RatingStats() shared.RatingStatsRepository {
	if t.ratingStatsRepo == nil {
		t.ratingStatsRepo = repository.NewRatingStatsRepository()
	}
	return t.ratingStatsRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository()
	}
	return t.idempotencyRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository()
	}
	return t.notificationRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	offerStore       *readstore.OfferReadStore
	reservationStore *readstore.ReservationReadStore
	promotionStore   *readstore.PromotionReadStore
	userStore        *readstore.UserReadStore
	idempotencyStore *readstore.IdempotencyReadStore
}

func (r *commandReads) offers() *readstore.OfferReadStore {
	if r.offerStore == nil {
		r.offerStore = readstore.NewOfferReadStore(r.dbtx)
	}
	return r.offerStore
}

func (r *commandReads) reservations() *readstore.ReservationReadStore {
	if r.reservationStore == nil {
		r.reservationStore = readstore.NewReservationReadStore(r.dbtx)
	}
	return r.reservationStore
}

func (r *commandReads) promotions() *readstore.PromotionReadStore {
	if r.promotionStore == nil {
		r.promotionStore = readstore.NewPromotionReadStore(r.dbtx)
	}
	return r.promotionStore
}

func (r *commandReads) users() *readstore.UserReadStore {
	if r.userStore == nil {
		r.userStore = readstore.NewUserReadStore(r.dbtx)
	}
	return r.userStore
}

func (r *commandReads) OfferByID(ctx context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	return r.offers().FindSnapshotByID(ctx, id)
}

func (r *commandReads) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	return r.reservations().FindSnapshotByID(ctx, id)
}

func (r *commandReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	return r.users().FindSnapshotByID(ctx, id)
}

func (r *commandReads) PromotionByID(ctx context.Context, id uuid.UUID) (*shared.PromotionSnapshot, error) {
	return r.promotions().FindByID(ctx, id)
}

func (r *commandReads) ActiveReservationCount(ctx context.Context, offerID uuid.UUID) (int64, error) {
	return r.reservations().CountActiveByOfferID(ctx, offerID)
}

func (r *commandReads) ActivePromotionCount(ctx context.Context, offerID uuid.UUID, now time.Time) (int64, error) {
	return r.promotions().CountActiveByOfferID(ctx, offerID, now)
}

func (r *commandReads) ActiveReservationsExpiringBefore(ctx context.Context, before time.Time) ([]shared.ReservationSnapshot, error) {
	return r.reservations().FindActiveExpiringBefore(ctx, before)
}

func (r *commandReads) PromotionsExpiringBefore(ctx context.Context, before time.Time) ([]shared.PromotionSnapshot, error) {
	return r.promotions().FindExpiringBefore(ctx, before)
}

func (r *commandReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	if r.idempotencyStore == nil {
		r.idempotencyStore = readstore.NewIdempotencyReadStore(r.dbtx)
	}
	return r.idempotencyStore.FindByKey(ctx, key, userID)
}
