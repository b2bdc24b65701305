package response

import (
	"time"

	"opportune/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationResponse struct {
	ID               uuid.UUID       `json:"id"`
	OfferID          uuid.UUID       `json:"offerId"`
	OfferTitle       string          `json:"offerTitle"`
	UserID           uuid.UUID       `json:"userId"`
	UserEmail        string          `json:"userEmail"`
	Headcount        int32           `json:"headcount"`
	FixedPrice       decimal.Decimal `json:"fixedPrice"`
	IsActive         bool            `json:"isActive"`
	TargetDate       time.Time       `json:"targetDate"`
	BookingCreatedAt time.Time       `json:"bookingCreatedAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:               v.ID,
		OfferID:          v.OfferID,
		OfferTitle:       v.OfferTitle,
		UserID:           v.UserID,
		UserEmail:        v.UserEmail,
		Headcount:        v.Headcount,
		FixedPrice:       v.FixedPrice,
		IsActive:         v.IsActive,
		TargetDate:       v.TargetDate,
		BookingCreatedAt: v.BookingCreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}
