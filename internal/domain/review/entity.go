package review

import (
	"time"

	"opportune/internal/pkg/clock"
	"opportune/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationNotEligible = errs.New("reservation is not eligible for review")

type Services struct {
	Clock              clock.Clock
	EligibilityChecker EligibilityChecker
}

type EligibilityInput struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	OfferID       uuid.UUID
	Now           time.Time
}

// EligibilityChecker decides whether a reservation can be reviewed. A
// reservation qualifies once it has elapsed: its target date has passed.
type EligibilityChecker interface {
	CanPostReview(input EligibilityInput) error
}

type Review struct {
	id            uuid.UUID
	userID        uuid.UUID
	offerID       uuid.UUID
	reservationID uuid.UUID
	rating        Rating
	comment       Comment
	createdAt     time.Time
	updatedAt     time.Time
}

func NewReview(services *Services, userID, offerID, reservationID uuid.UUID, rating Rating, comment Comment) (*Review, error) {
	now := services.Clock.Now()
	if err := services.EligibilityChecker.CanPostReview(EligibilityInput{
		ReservationID: reservationID,
		UserID:        userID,
		OfferID:       offerID,
		Now:           now,
	}); err != nil {
		return nil, err
	}

	return &Review{
		id:            uuid.New(),
		userID:        userID,
		offerID:       offerID,
		reservationID: reservationID,
		rating:        rating,
		comment:       comment,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func (r *Review) ID() uuid.UUID            { return r.id }
func (r *Review) UserID() uuid.UUID        { return r.userID }
func (r *Review) OfferID() uuid.UUID       { return r.offerID }
func (r *Review) ReservationID() uuid.UUID { return r.reservationID }
func (r *Review) Rating() Rating           { return r.rating }
func (r *Review) Comment() Comment         { return r.comment }
func (r *Review) CreatedAt() time.Time     { return r.createdAt }
func (r *Review) UpdatedAt() time.Time     { return r.updatedAt }
