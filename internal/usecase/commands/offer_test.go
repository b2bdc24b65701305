//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"opportune/internal/pkg/clock"
	"opportune/internal/usecase/commands"
	"opportune/internal/usecase/queries"
	"opportune/internal/usecase/shared"
	"opportune/tests/fake"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offerFixture struct {
	uow     *fake.UoW
	clk     *clock.MockClock
	cmds    commands.OfferCommands
	ownerID uuid.UUID
	offerID uuid.UUID
}

func newOfferFixture(t *testing.T) *offerFixture {
	t.Helper()

	uow := fake.NewUoW()
	clk := clock.NewMockClock(testNow)

	ownerID := uuid.New()
	uow.SeedUser(ownerID, "owner@example.com")

	offerID := uuid.New()
	uow.SeedOffer(shared.OfferSnapshot{
		ID:             offerID,
		OwnerID:        ownerID,
		Title:          "City tour",
		Vacancies:      10,
		UnitPrice:      decimal.NewFromInt(25),
		IsActive:       true,
		ActivationDate: testNow.Add(48 * time.Hour),
	})

	offerQueries := queries.NewOfferQueries(&fake.OfferReadStore{U: uow})
	cmds := commands.NewOfferCommands(uow, offerQueries, clk)

	return &offerFixture{uow: uow, clk: clk, cmds: cmds, ownerID: ownerID, offerID: offerID}
}

func TestCreateOffer(t *testing.T) {
	t.Run("persists and returns the view", func(t *testing.T) {
		f := newOfferFixture(t)

		view, err := f.cmds.CreateOffer(context.Background(), commands.CreateOfferParams{
			OwnerID:        f.ownerID,
			Title:          "Wine tasting",
			Vacancies:      6,
			UnitPrice:      decimal.NewFromInt(80),
			ActivationDate: testNow.Add(72 * time.Hour),
		})
		require.NoError(t, err)

		assert.Equal(t, "Wine tasting", view.Title)
		assert.True(t, view.IsActive)
		assert.False(t, view.IsPromoted)
		assert.Contains(t, f.uow.Offers, view.ID)
	})

	t.Run("rejects a past activation date", func(t *testing.T) {
		f := newOfferFixture(t)

		_, err := f.cmds.CreateOffer(context.Background(), commands.CreateOfferParams{
			OwnerID:        f.ownerID,
			Title:          "Too late",
			Vacancies:      6,
			UnitPrice:      decimal.NewFromInt(80),
			ActivationDate: testNow.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}

func TestDeactivateOffer(t *testing.T) {
	t.Run("without reservations succeeds", func(t *testing.T) {
		f := newOfferFixture(t)

		require.NoError(t, f.cmds.DeactivateOffer(context.Background(), f.offerID, f.ownerID))
		assert.False(t, f.uow.Offers[f.offerID].IsActive)
	})

	t.Run("blocked while reservations are active", func(t *testing.T) {
		f := newOfferFixture(t)
		f.uow.SeedReservation(shared.ReservationSnapshot{
			ID:         uuid.New(),
			OfferID:    f.offerID,
			UserID:     uuid.New(),
			Headcount:  1,
			FixedPrice: decimal.NewFromInt(25),
			IsActive:   true,
			TargetDate: testNow.Add(48 * time.Hour),
		})

		err := f.cmds.DeactivateOffer(context.Background(), f.offerID, f.ownerID)
		assert.ErrorIs(t, err, commands.ErrOfferHasBookings)
		assert.True(t, f.uow.Offers[f.offerID].IsActive)
	})

	t.Run("inactive reservations do not block", func(t *testing.T) {
		f := newOfferFixture(t)
		f.uow.SeedReservation(shared.ReservationSnapshot{
			ID:         uuid.New(),
			OfferID:    f.offerID,
			UserID:     uuid.New(),
			Headcount:  1,
			FixedPrice: decimal.NewFromInt(25),
			IsActive:   false,
			TargetDate: testNow.Add(48 * time.Hour),
		})

		require.NoError(t, f.cmds.DeactivateOffer(context.Background(), f.offerID, f.ownerID))
		assert.False(t, f.uow.Offers[f.offerID].IsActive)
	})

	t.Run("only the owner may deactivate", func(t *testing.T) {
		f := newOfferFixture(t)

		err := f.cmds.DeactivateOffer(context.Background(), f.offerID, uuid.New())
		assert.ErrorIs(t, err, commands.ErrOfferNotOwned)
	})
}

func TestActivateOffer(t *testing.T) {
	t.Run("reactivates a deactivated offer", func(t *testing.T) {
		f := newOfferFixture(t)
		require.NoError(t, f.cmds.DeactivateOffer(context.Background(), f.offerID, f.ownerID))

		require.NoError(t, f.cmds.ActivateOffer(context.Background(), f.offerID, f.ownerID))
		assert.True(t, f.uow.Offers[f.offerID].IsActive)
	})

	t.Run("already active is a validation error", func(t *testing.T) {
		f := newOfferFixture(t)

		err := f.cmds.ActivateOffer(context.Background(), f.offerID, f.ownerID)
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("unknown offer", func(t *testing.T) {
		f := newOfferFixture(t)

		err := f.cmds.ActivateOffer(context.Background(), uuid.New(), f.ownerID)
		assert.ErrorIs(t, err, commands.ErrOfferNotFound)
	})
}
