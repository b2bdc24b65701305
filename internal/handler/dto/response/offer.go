package response

import (
	"time"

	"opportune/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OfferResponse struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"ownerId"`
	Title          string          `json:"title"`
	Vacancies      int32           `json:"vacancies"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	IsActive       bool            `json:"isActive"`
	IsPromoted     bool            `json:"isPromoted"`
	ActivationDate time.Time       `json:"activationDate"`
	ReviewCount    int32           `json:"reviewCount"`
	AverageRating  decimal.Decimal `json:"averageRating"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func FromOfferView(v *queries.OfferView) *OfferResponse {
	return &OfferResponse{
		ID:             v.ID,
		OwnerID:        v.OwnerID,
		Title:          v.Title,
		Vacancies:      v.Vacancies,
		UnitPrice:      v.UnitPrice,
		IsActive:       v.IsActive,
		IsPromoted:     v.IsPromoted,
		ActivationDate: v.ActivationDate,
		ReviewCount:    v.ReviewCount,
		AverageRating:  v.AverageRating,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func FromOfferViews(views []*queries.OfferView) []*OfferResponse {
	out := make([]*OfferResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromOfferView(v))
	}
	return out
}
