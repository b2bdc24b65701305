package response

import (
	"time"

	"opportune/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PromotionResponse struct {
	ID         uuid.UUID       `json:"id"`
	OfferID    uuid.UUID       `json:"offerId"`
	PromoterID uuid.UUID       `json:"promoterId"`
	Value      decimal.Decimal `json:"value"`
	ExpireAt   time.Time       `json:"expireAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func FromPromotionView(v *queries.PromotionView) *PromotionResponse {
	return &PromotionResponse{
		ID:         v.ID,
		OfferID:    v.OfferID,
		PromoterID: v.PromoterID,
		Value:      v.Value,
		ExpireAt:   v.ExpireAt,
		CreatedAt:  v.CreatedAt,
	}
}
