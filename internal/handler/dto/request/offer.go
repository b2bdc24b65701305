package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOfferRequest struct {
	Title          string          `json:"title" binding:"required"`
	Vacancies      int32           `json:"vacancies" binding:"min=0"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	ActivationDate time.Time       `json:"activation_date" binding:"required"`
}
