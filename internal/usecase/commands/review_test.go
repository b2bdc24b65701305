//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"opportune/internal/pkg/clock"
	"opportune/internal/usecase/commands"
	"opportune/internal/usecase/shared"
	"opportune/tests/fake"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	uow           *fake.UoW
	clk           *clock.MockClock
	cmds          commands.ReviewCommands
	userID        uuid.UUID
	offerID       uuid.UUID
	reservationID uuid.UUID
}

// newReviewFixture seeds a reservation whose target date has already
// passed, so the default state is review-eligible.
func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	uow := fake.NewUoW()
	clk := clock.NewMockClock(testNow)

	userID := uuid.New()
	uow.SeedUser(userID, "guest@example.com")

	offerID := uuid.New()
	uow.SeedOffer(shared.OfferSnapshot{
		ID:             offerID,
		OwnerID:        uuid.New(),
		Title:          "City tour",
		Vacancies:      10,
		UnitPrice:      decimal.NewFromInt(25),
		IsActive:       true,
		ActivationDate: testNow.Add(-72 * time.Hour),
	})

	reservationID := uuid.New()
	uow.SeedReservation(shared.ReservationSnapshot{
		ID:         reservationID,
		OfferID:    offerID,
		UserID:     userID,
		Headcount:  2,
		FixedPrice: decimal.NewFromInt(50),
		IsActive:   false,
		TargetDate: testNow.Add(-24 * time.Hour),
	})

	cmds := commands.NewReviewCommands(uow, clk)

	return &reviewFixture{
		uow: uow, clk: clk, cmds: cmds,
		userID: userID, offerID: offerID, reservationID: reservationID,
	}
}

func (f *reviewFixture) params() commands.CreateReviewParams {
	return commands.CreateReviewParams{
		ReservationID: f.reservationID,
		UserID:        f.userID,
		OfferID:       f.offerID,
		Rating:        4,
		Comment:       "great time",
	}
}

func TestCreateReview(t *testing.T) {
	t.Run("stores the review and recomputes offer stats", func(t *testing.T) {
		f := newReviewFixture(t)

		result, err := f.cmds.CreateReview(context.Background(), f.params())
		require.NoError(t, err)

		stored, ok := f.uow.Reviews[result.ReviewID]
		require.True(t, ok)
		assert.Equal(t, f.reservationID, stored.ReservationID)
		assert.Equal(t, 4, stored.Rating)
		assert.Equal(t, "great time", stored.Comment)
		assert.Contains(t, f.uow.RecalcStatsCalls, f.offerID)
	})

	t.Run("refused before the target date has passed", func(t *testing.T) {
		f := newReviewFixture(t)
		f.uow.Reservations[f.reservationID].TargetDate = testNow.Add(24 * time.Hour)

		_, err := f.cmds.CreateReview(context.Background(), f.params())
		assert.ErrorIs(t, err, commands.ErrReviewNotEligible)
		assert.Empty(t, f.uow.Reviews)
	})

	t.Run("target date equal to now is eligible", func(t *testing.T) {
		f := newReviewFixture(t)
		f.uow.Reservations[f.reservationID].TargetDate = testNow

		_, err := f.cmds.CreateReview(context.Background(), f.params())
		require.NoError(t, err)
	})

	t.Run("only the booking user may review", func(t *testing.T) {
		f := newReviewFixture(t)
		params := f.params()
		params.UserID = uuid.New()

		_, err := f.cmds.CreateReview(context.Background(), params)
		assert.ErrorIs(t, err, commands.ErrReviewNotEligible)
	})

	t.Run("reservation must belong to the reviewed offer", func(t *testing.T) {
		f := newReviewFixture(t)
		params := f.params()
		params.OfferID = uuid.New()

		_, err := f.cmds.CreateReview(context.Background(), params)
		assert.ErrorIs(t, err, commands.ErrReviewNotEligible)
	})

	t.Run("one review per reservation", func(t *testing.T) {
		f := newReviewFixture(t)

		_, err := f.cmds.CreateReview(context.Background(), f.params())
		require.NoError(t, err)

		_, err = f.cmds.CreateReview(context.Background(), f.params())
		assert.ErrorIs(t, err, commands.ErrDuplicateReview)
		assert.Len(t, f.uow.Reviews, 1)
		assert.Len(t, f.uow.RecalcStatsCalls, 1)
	})

	t.Run("rating outside 1..5 is rejected before any lookup", func(t *testing.T) {
		f := newReviewFixture(t)

		for _, rating := range []int{0, 6, -1} {
			params := f.params()
			params.Rating = rating
			_, err := f.cmds.CreateReview(context.Background(), params)
			assert.ErrorIs(t, err, commands.ErrDomainValidation, "rating %d", rating)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newReviewFixture(t)
		params := f.params()
		params.ReservationID = uuid.New()

		_, err := f.cmds.CreateReview(context.Background(), params)
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}
