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

type sweepFixture struct {
	uow     *fake.UoW
	clk     *clock.MockClock
	cmds    commands.SweepCommands
	offerID uuid.UUID
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	uow := fake.NewUoW()
	clk := clock.NewMockClock(testNow)

	offerID := uuid.New()
	uow.SeedOffer(shared.OfferSnapshot{
		ID:             offerID,
		OwnerID:        uuid.New(),
		Title:          "City tour",
		Vacancies:      10,
		UnitPrice:      decimal.NewFromInt(25),
		IsActive:       true,
		ActivationDate: testNow.Add(48 * time.Hour),
	})

	return &sweepFixture{
		uow:     uow,
		clk:     clk,
		cmds:    commands.NewSweepCommands(uow, clk),
		offerID: offerID,
	}
}

func (f *sweepFixture) seedReservation(targetDate time.Time, active bool) uuid.UUID {
	id := uuid.New()
	f.uow.SeedReservation(shared.ReservationSnapshot{
		ID:               id,
		OfferID:          f.offerID,
		UserID:           uuid.New(),
		Headcount:        2,
		FixedPrice:       decimal.NewFromInt(50),
		IsActive:         active,
		TargetDate:       targetDate,
		BookingCreatedAt: testNow.Add(-24 * time.Hour),
		UpdatedAt:        testNow.Add(-24 * time.Hour),
	})
	return id
}

func (f *sweepFixture) seedPromotion(expireAt time.Time) uuid.UUID {
	id := uuid.New()
	f.uow.SeedPromotion(shared.PromotionSnapshot{
		ID:         id,
		OfferID:    f.offerID,
		PromoterID: uuid.New(),
		Value:      decimal.NewFromInt(50),
		ExpireAt:   expireAt,
		CreatedAt:  testNow.Add(-24 * time.Hour),
	})
	f.uow.Offers[f.offerID].IsPromoted = true
	return id
}

func TestSweepExpired(t *testing.T) {
	t.Run("flips elapsed reservations inactive", func(t *testing.T) {
		f := newSweepFixture(t)
		elapsed := f.seedReservation(testNow.Add(-time.Hour), true)
		future := f.seedReservation(testNow.Add(24*time.Hour), true)

		report, err := f.cmds.SweepExpired(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.Expired)
		assert.False(t, f.uow.Reservations[elapsed].IsActive)
		assert.True(t, f.uow.Reservations[future].IsActive)
	})

	t.Run("retires expired promotions and re-derives the flag", func(t *testing.T) {
		f := newSweepFixture(t)
		expired := f.seedPromotion(testNow.Add(-time.Minute))
		surviving := f.seedPromotion(testNow.Add(30 * 24 * time.Hour))

		report, err := f.cmds.SweepExpired(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.Expired)
		assert.NotContains(t, f.uow.Promotions, expired)
		assert.Contains(t, f.uow.Promotions, surviving)
		assert.True(t, f.uow.Offers[f.offerID].IsPromoted)
	})

	t.Run("clears the flag when no promotion survives", func(t *testing.T) {
		f := newSweepFixture(t)
		f.seedPromotion(testNow.Add(-time.Minute))

		_, err := f.cmds.SweepExpired(context.Background())
		require.NoError(t, err)

		assert.Empty(t, f.uow.Promotions)
		assert.False(t, f.uow.Offers[f.offerID].IsPromoted)
	})

	t.Run("second pass over the same instant is a no-op", func(t *testing.T) {
		f := newSweepFixture(t)
		f.seedReservation(testNow.Add(-time.Hour), true)
		f.seedPromotion(testNow.Add(-time.Minute))

		first, err := f.cmds.SweepExpired(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, first.Expired)

		second, err := f.cmds.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, second.Expired)
		assert.Equal(t, 0, second.Scanned)
	})

	t.Run("already inactive reservations are not candidates", func(t *testing.T) {
		f := newSweepFixture(t)
		f.seedReservation(testNow.Add(-time.Hour), false)

		report, err := f.cmds.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, report.Scanned)
	})

	t.Run("empty pass succeeds", func(t *testing.T) {
		f := newSweepFixture(t)

		report, err := f.cmds.SweepExpired(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, report.Scanned)
		assert.Equal(t, 0, report.Expired)
	})
}

func TestSweepExpiredPromotions(t *testing.T) {
	t.Run("only touches promotions", func(t *testing.T) {
		f := newSweepFixture(t)
		elapsedReservation := f.seedReservation(testNow.Add(-time.Hour), true)
		expiredPromo := f.seedPromotion(testNow.Add(-time.Minute))

		report, err := f.cmds.SweepExpiredPromotions(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.Expired)
		assert.NotContains(t, f.uow.Promotions, expiredPromo)
		// The elapsed reservation stays active until the general sweep.
		assert.True(t, f.uow.Reservations[elapsedReservation].IsActive)
	})
}
