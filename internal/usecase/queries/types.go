package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)
type OfferView struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	Title          string          `json:"title"`
	Vacancies      int32           `json:"vacancies"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	IsActive       bool            `json:"is_active"`
	IsPromoted     bool            `json:"is_promoted"`
	ActivationDate time.Time       `json:"activation_date"`
	ReviewCount    int32           `json:"review_count"`
	AverageRating  decimal.Decimal `json:"average_rating"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ReservationView struct {
	ID               uuid.UUID       `json:"id"`
	OfferID          uuid.UUID       `json:"offer_id"`
	OfferTitle       string          `json:"offer_title"`
	UserID           uuid.UUID       `json:"user_id"`
	UserEmail        string          `json:"user_email"`
	Headcount        int32           `json:"headcount"`
	FixedPrice       decimal.Decimal `json:"fixed_price"`
	IsActive         bool            `json:"is_active"`
	TargetDate       time.Time       `json:"target_date"`
	BookingCreatedAt time.Time       `json:"booking_created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type PromotionView struct {
	ID         uuid.UUID       `json:"id"`
	OfferID    uuid.UUID       `json:"offer_id"`
	PromoterID uuid.UUID       `json:"promoter_id"`
	Value      decimal.Decimal `json:"value"`
	ExpireAt   time.Time       `json:"expire_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ReviewView struct {
	ID        uuid.UUID `json:"id"`
	OfferID   uuid.UUID `json:"offer_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
