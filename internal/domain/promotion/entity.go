package promotion

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveValue  = errors.New("promotion value must be positive")
	ErrExpiryNotInFuture = errors.New("promotion expiry must be in the future")
)

// Promotion is a time-limited visibility boost purchased against an offer.
// At most one promotion exists per (offer, promoter) pair; the store
// enforces the key. Expiry is a silent, time-only event: the sweeper turns
// it into an explicit deletion and re-derives the offer's promoted flag.
type Promotion struct {
	id         uuid.UUID
	offerID    uuid.UUID
	promoterID uuid.UUID
	value      decimal.Decimal
	expireAt   time.Time
	createdAt  time.Time
}

func NewPromotion(offerID, promoterID uuid.UUID, value decimal.Decimal, expireAt, now time.Time) (*Promotion, error) {
	if !value.IsPositive() {
		return nil, ErrNonPositiveValue
	}
	if !expireAt.After(now) {
		return nil, ErrExpiryNotInFuture
	}

	return &Promotion{
		id:         uuid.New(),
		offerID:    offerID,
		promoterID: promoterID,
		value:      value,
		expireAt:   expireAt,
		createdAt:  now,
	}, nil
}

func Reconstruct(id, offerID, promoterID uuid.UUID, value decimal.Decimal, expireAt, createdAt time.Time) *Promotion {
	return &Promotion{
		id:         id,
		offerID:    offerID,
		promoterID: promoterID,
		value:      value,
		expireAt:   expireAt,
		createdAt:  createdAt,
	}
}

func (p *Promotion) ID() uuid.UUID          { return p.id }
func (p *Promotion) OfferID() uuid.UUID     { return p.offerID }
func (p *Promotion) PromoterID() uuid.UUID  { return p.promoterID }
func (p *Promotion) Value() decimal.Decimal { return p.value }
func (p *Promotion) ExpireAt() time.Time    { return p.expireAt }
func (p *Promotion) CreatedAt() time.Time   { return p.createdAt }

func (p *Promotion) Expired(now time.Time) bool {
	return p.expireAt.Before(now)
}

// ExpiresAt exposes the expiry timestamp the sweeper compares against.
func (p *Promotion) ExpiresAt() time.Time {
	return p.expireAt
}
