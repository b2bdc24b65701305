package shared

import (
	"context"
	"time"

	"opportune/internal/domain/offer"
	"opportune/internal/domain/promotion"
	"opportune/internal/domain/reservation"
	"opportune/internal/domain/review"
	"opportune/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Offers() OfferRepository
	Reservations() ReservationRepository
	Promotions() PromotionRepository
	Reviews() ReviewRepository
	RatingStats() RatingStatsRepository
	Users() UserRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the narrow find/range queries the write side validates
// against. The two *ExpiringBefore queries are the sweep candidate loads.
type CommandReads interface {
	OfferByID(ctx context.Context, id uuid.UUID) (*OfferSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	PromotionByID(ctx context.Context, id uuid.UUID) (*PromotionSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	ActiveReservationCount(ctx context.Context, offerID uuid.UUID) (int64, error)
	ActivePromotionCount(ctx context.Context, offerID uuid.UUID, now time.Time) (int64, error)
	ActiveReservationsExpiringBefore(ctx context.Context, before time.Time) ([]ReservationSnapshot, error)
	PromotionsExpiringBefore(ctx context.Context, before time.Time) ([]PromotionSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

// Minimal snapshots for command read operations
type OfferSnapshot struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Title          string
	Vacancies      int32
	UnitPrice      decimal.Decimal
	IsActive       bool
	IsPromoted     bool
	ActivationDate time.Time
	LockVersion    int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ReservationSnapshot struct {
	ID               uuid.UUID
	OfferID          uuid.UUID
	UserID           uuid.UUID
	Headcount        int32
	FixedPrice       decimal.Decimal
	IsActive         bool
	TargetDate       time.Time
	LockVersion      int32
	BookingCreatedAt time.Time
	UpdatedAt        time.Time
}

type PromotionSnapshot struct {
	ID         uuid.UUID
	OfferID    uuid.UUID
	PromoterID uuid.UUID
	Value      decimal.Decimal
	ExpireAt   time.Time
	CreatedAt  time.Time
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Endpoint            string
	RequestHash         string
	Status              string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

type OfferRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, o *offer.Offer) (uuid.UUID, error)
	// UpdateActive and SetPromoted check the optimistic lock_version token;
	// a stale version surfaces as a CONFLICT kind.
	UpdateActive(ctx context.Context, dbtx db.DBTX, id uuid.UUID, isActive bool, expectedVersion int32) error
	SetPromoted(ctx context.Context, dbtx db.DBTX, id uuid.UUID, promoted bool) error
}

type ReservationRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, r *reservation.Reservation) (uuid.UUID, error)
	Update(ctx context.Context, dbtx db.DBTX, r *reservation.Reservation, expectedVersion int32) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
}

type PromotionRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, p *promotion.Promotion) (uuid.UUID, error)
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, rev *review.Review) (uuid.UUID, error)
}

type RatingStatsRepository interface {
	RecalcOfferRatingStats(ctx context.Context, dbtx db.DBTX, offerID uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, email, passwordHash, role string) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, responseBodyHash string, resultReservationID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}
