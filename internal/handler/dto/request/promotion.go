package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreatePromotionRequest struct {
	Value    decimal.Decimal `json:"value" binding:"required"`
	ExpireAt time.Time       `json:"expire_at" binding:"required"`
}
