package reservation

import (
	"errors"
	"time"

	"opportune/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrOfferInactive = errors.New("offer is not active")

// OfferSpec is the slice of offer state the factory needs. The activation
// date becomes the reservation's target date; the unit price is captured
// into the frozen fixed price.
type OfferSpec struct {
	ID             uuid.UUID
	Vacancies      int32
	UnitPrice      decimal.Decimal
	IsActive       bool
	ActivationDate time.Time
}

type Factory struct {
	Clock clock.Clock
}

func NewFactory(clk clock.Clock) *Factory {
	return &Factory{Clock: clk}
}

// CreateReservation builds a new active reservation against an offer. This
// is the one place the price is computed: headcount × the offer's unit
// price at this instant, frozen thereafter.
func (f *Factory) CreateReservation(spec OfferSpec, userID uuid.UUID, headcount int32) (*Reservation, error) {
	if !spec.IsActive {
		return nil, ErrOfferInactive
	}
	if err := ValidateHeadcount(headcount, spec.Vacancies); err != nil {
		return nil, err
	}

	now := f.Clock.Now()
	return &Reservation{
		id:               uuid.New(),
		offerID:          spec.ID,
		userID:           userID,
		headcount:        headcount,
		fixedPrice:       spec.UnitPrice.Mul(decimal.NewFromInt32(headcount)),
		isActive:         true,
		targetDate:       spec.ActivationDate,
		bookingCreatedAt: now,
		updatedAt:        now,
	}, nil
}
