package request

import (
	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	OfferID   uuid.UUID `json:"offer_id" binding:"required"`
	Headcount int32     `json:"headcount" binding:"required,min=1"`
}

type UpdateReservationRequest struct {
	Headcount int32 `json:"headcount" binding:"required,min=1"`
}
