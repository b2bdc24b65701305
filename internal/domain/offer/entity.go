package offer

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle         = errors.New("offer title cannot be empty")
	ErrNegativeVacancies  = errors.New("vacancies cannot be negative")
	ErrNegativeUnitPrice  = errors.New("unit price cannot be negative")
	ErrPastActivationDate = errors.New("activation date cannot be in the past")
	ErrAlreadyActive      = errors.New("offer is already active")
	ErrAlreadyInactive    = errors.New("offer is already inactive")
	ErrHasActiveBookings  = errors.New("offer has active reservations")
)

// Offer is a capacity-bounded, time-bound bookable listing. The vacancies
// field is a static capacity bound: reservations are validated against it
// individually, not against a running remaining count (see capacity check
// in the reservation package).
type Offer struct {
	id             uuid.UUID
	ownerID        uuid.UUID
	title          string
	vacancies      int32
	unitPrice      decimal.Decimal
	isActive       bool
	isPromoted     bool
	activationDate time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func NewOffer(ownerID uuid.UUID, title string, vacancies int32, unitPrice decimal.Decimal, activationDate, now time.Time) (*Offer, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if vacancies < 0 {
		return nil, ErrNegativeVacancies
	}
	if unitPrice.IsNegative() {
		return nil, ErrNegativeUnitPrice
	}
	if !activationDate.After(now) {
		return nil, ErrPastActivationDate
	}

	return &Offer{
		id:             uuid.New(),
		ownerID:        ownerID,
		title:          title,
		vacancies:      vacancies,
		unitPrice:      unitPrice,
		isActive:       true,
		isPromoted:     false,
		activationDate: activationDate,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds an offer from persisted state.
func Reconstruct(id, ownerID uuid.UUID, title string, vacancies int32, unitPrice decimal.Decimal, isActive, isPromoted bool, activationDate, createdAt, updatedAt time.Time) *Offer {
	return &Offer{
		id:             id,
		ownerID:        ownerID,
		title:          title,
		vacancies:      vacancies,
		unitPrice:      unitPrice,
		isActive:       isActive,
		isPromoted:     isPromoted,
		activationDate: activationDate,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (o *Offer) ID() uuid.UUID              { return o.id }
func (o *Offer) OwnerID() uuid.UUID         { return o.ownerID }
func (o *Offer) Title() string              { return o.title }
func (o *Offer) Vacancies() int32           { return o.vacancies }
func (o *Offer) UnitPrice() decimal.Decimal { return o.unitPrice }
func (o *Offer) IsActive() bool             { return o.isActive }
func (o *Offer) IsPromoted() bool           { return o.isPromoted }
func (o *Offer) ActivationDate() time.Time  { return o.activationDate }
func (o *Offer) CreatedAt() time.Time       { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time       { return o.updatedAt }

func (o *Offer) IsOwnedBy(userID uuid.UUID) bool {
	return o.ownerID == userID
}

func (o *Offer) Activate() error {
	if o.isActive {
		return ErrAlreadyActive
	}
	o.isActive = true
	return nil
}

// Deactivate refuses while active reservations exist against the offer; the
// caller supplies that fact from the store.
func (o *Offer) Deactivate(activeReservations int64) error {
	if !o.isActive {
		return ErrAlreadyInactive
	}
	if activeReservations > 0 {
		return ErrHasActiveBookings
	}
	o.isActive = false
	return nil
}

// SetPromoted overwrites the derived promotion flag. The value must come
// from re-querying the surviving promotions, never from assumption.
func (o *Offer) SetPromoted(promoted bool) {
	o.isPromoted = promoted
}
