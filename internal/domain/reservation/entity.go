package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyInactive = errors.New("reservation is already inactive")
	ErrElapsed         = errors.New("reservation target date has passed")
	ErrNotYetElapsed   = errors.New("reservation target date has not passed")
)

// Reservation is a claim on some of an offer's capacity. The price is fixed
// at creation time and must not drift when the offer's unit price changes
// later. Once the target date has passed the reservation is frozen: the
// only remaining classification is "elapsed", never "cancelled".
type Reservation struct {
	id               uuid.UUID
	offerID          uuid.UUID
	userID           uuid.UUID
	headcount        int32
	fixedPrice       decimal.Decimal
	isActive         bool
	targetDate       time.Time
	bookingCreatedAt time.Time
	updatedAt        time.Time
}

// Reconstruct rebuilds a reservation from persisted state.
func Reconstruct(id, offerID, userID uuid.UUID, headcount int32, fixedPrice decimal.Decimal, isActive bool, targetDate, bookingCreatedAt, updatedAt time.Time) *Reservation {
	return &Reservation{
		id:               id,
		offerID:          offerID,
		userID:           userID,
		headcount:        headcount,
		fixedPrice:       fixedPrice,
		isActive:         isActive,
		targetDate:       targetDate,
		bookingCreatedAt: bookingCreatedAt,
		updatedAt:        updatedAt,
	}
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) OfferID() uuid.UUID          { return r.offerID }
func (r *Reservation) UserID() uuid.UUID           { return r.userID }
func (r *Reservation) Headcount() int32            { return r.headcount }
func (r *Reservation) FixedPrice() decimal.Decimal { return r.fixedPrice }
func (r *Reservation) IsActive() bool              { return r.isActive }
func (r *Reservation) TargetDate() time.Time       { return r.targetDate }
func (r *Reservation) BookingCreatedAt() time.Time { return r.bookingCreatedAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }

// HasElapsed reports whether the target date has passed. Elapsed is a
// logical classification, not a persisted flag.
func (r *Reservation) HasElapsed(now time.Time) bool {
	return !r.targetDate.After(now)
}

// ExpiresAt exposes the expiry timestamp the sweeper compares against.
func (r *Reservation) ExpiresAt() time.Time {
	return r.targetDate
}

// ChangeHeadcount re-validates the new headcount against the offer's current
// vacancies and recomputes the price from the offer's current unit price.
// Update-time pricing intentionally differs from the create-time freeze.
func (r *Reservation) ChangeHeadcount(newHeadcount, offerVacancies int32, currentUnitPrice decimal.Decimal, now time.Time) error {
	if err := ValidateHeadcount(newHeadcount, offerVacancies); err != nil {
		return err
	}
	r.headcount = newHeadcount
	r.fixedPrice = currentUnitPrice.Mul(decimal.NewFromInt32(newHeadcount))
	r.updatedAt = now
	return nil
}

// Deactivate is the user-triggered cancellation. It is refused once the
// target date has passed; at that point the reservation has occurred and
// can no longer be cancelled.
func (r *Reservation) Deactivate(now time.Time) error {
	if !r.isActive {
		return ErrAlreadyInactive
	}
	if r.HasElapsed(now) {
		return ErrElapsed
	}
	r.becomeInactive(now)
	return nil
}

// MarkElapsed is the sweep-triggered transition for a reservation whose
// target date has passed. It shares the single "became inactive" code path
// with Deactivate.
func (r *Reservation) MarkElapsed(now time.Time) error {
	if !r.isActive {
		return ErrAlreadyInactive
	}
	if !r.HasElapsed(now) {
		return ErrNotYetElapsed
	}
	r.becomeInactive(now)
	return nil
}

func (r *Reservation) becomeInactive(now time.Time) {
	r.isActive = false
	r.updatedAt = now
}
