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

type promotionFixture struct {
	uow     *fake.UoW
	clk     *clock.MockClock
	cmds    commands.PromotionCommands
	offerID uuid.UUID
	ownerID uuid.UUID
}

func newPromotionFixture(t *testing.T) *promotionFixture {
	t.Helper()

	uow := fake.NewUoW()
	clk := clock.NewMockClock(testNow)

	offerID := uuid.New()
	ownerID := uuid.New()
	uow.SeedOffer(shared.OfferSnapshot{
		ID:             offerID,
		OwnerID:        ownerID,
		Title:          "City tour",
		Vacancies:      10,
		UnitPrice:      decimal.NewFromInt(25),
		IsActive:       true,
		ActivationDate: testNow.Add(48 * time.Hour),
	})

	return &promotionFixture{
		uow:     uow,
		clk:     clk,
		cmds:    commands.NewPromotionCommands(uow, clk),
		offerID: offerID,
		ownerID: ownerID,
	}
}

// promote creates a promotion as the offer's owner.
func (f *promotionFixture) promote(t *testing.T, expireAt time.Time) uuid.UUID {
	t.Helper()
	view, err := f.cmds.CreatePromotion(context.Background(), commands.CreatePromotionParams{
		OfferID:    f.offerID,
		PromoterID: f.ownerID,
		Value:      decimal.NewFromInt(50),
		ExpireAt:   expireAt,
	})
	require.NoError(t, err)
	return view.ID
}

func TestCreatePromotion(t *testing.T) {
	t.Run("marks the offer promoted", func(t *testing.T) {
		f := newPromotionFixture(t)
		require.False(t, f.uow.Offers[f.offerID].IsPromoted)

		f.promote(t, testNow.Add(24*time.Hour))
		assert.True(t, f.uow.Offers[f.offerID].IsPromoted)
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		f := newPromotionFixture(t)

		_, err := f.cmds.CreatePromotion(context.Background(), commands.CreatePromotionParams{
			OfferID:    f.offerID,
			PromoterID: f.ownerID,
			Value:      decimal.Zero,
			ExpireAt:   testNow.Add(24 * time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrNonPositiveBoost)
	})

	t.Run("rejects past expiry", func(t *testing.T) {
		f := newPromotionFixture(t)

		_, err := f.cmds.CreatePromotion(context.Background(), commands.CreatePromotionParams{
			OfferID:    f.offerID,
			PromoterID: f.ownerID,
			Value:      decimal.NewFromInt(10),
			ExpireAt:   testNow.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrExpiryNotInFuture)
	})

	t.Run("one promotion per offer and promoter", func(t *testing.T) {
		f := newPromotionFixture(t)
		f.promote(t, testNow.Add(24*time.Hour))

		_, err := f.cmds.CreatePromotion(context.Background(), commands.CreatePromotionParams{
			OfferID:    f.offerID,
			PromoterID: f.ownerID,
			Value:      decimal.NewFromInt(10),
			ExpireAt:   testNow.Add(48 * time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrDuplicatePromotion)
	})

	t.Run("only the owner may promote", func(t *testing.T) {
		f := newPromotionFixture(t)

		_, err := f.cmds.CreatePromotion(context.Background(), commands.CreatePromotionParams{
			OfferID:    f.offerID,
			PromoterID: uuid.New(),
			Value:      decimal.NewFromInt(10),
			ExpireAt:   testNow.Add(24 * time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrOfferNotFound)
	})

	t.Run("unknown offer", func(t *testing.T) {
		f := newPromotionFixture(t)

		_, err := f.cmds.CreatePromotion(context.Background(), commands.CreatePromotionParams{
			OfferID:    uuid.New(),
			PromoterID: f.ownerID,
			Value:      decimal.NewFromInt(10),
			ExpireAt:   testNow.Add(24 * time.Hour),
		})
		assert.ErrorIs(t, err, commands.ErrOfferNotFound)
	})
}

func TestExpirePromotion(t *testing.T) {
	t.Run("offer stays promoted while another promotion survives", func(t *testing.T) {
		f := newPromotionFixture(t)
		shortID := f.promote(t, testNow.Add(time.Hour))
		// A second, longer-lived promotion from a historical promoter.
		f.uow.SeedPromotion(shared.PromotionSnapshot{
			ID:         uuid.New(),
			OfferID:    f.offerID,
			PromoterID: uuid.New(),
			Value:      decimal.NewFromInt(20),
			ExpireAt:   testNow.Add(30 * 24 * time.Hour),
		})

		f.clk.Set(testNow.Add(2 * time.Hour))
		require.NoError(t, f.cmds.ExpirePromotion(context.Background(), shortID))

		assert.NotContains(t, f.uow.Promotions, shortID)
		assert.True(t, f.uow.Offers[f.offerID].IsPromoted)
	})

	t.Run("expiring the last promotion clears the flag", func(t *testing.T) {
		f := newPromotionFixture(t)
		onlyID := f.promote(t, testNow.Add(time.Hour))

		f.clk.Set(testNow.Add(2 * time.Hour))
		require.NoError(t, f.cmds.ExpirePromotion(context.Background(), onlyID))

		assert.Empty(t, f.uow.Promotions)
		assert.False(t, f.uow.Offers[f.offerID].IsPromoted)
	})

	t.Run("refuses a promotion that has not expired", func(t *testing.T) {
		f := newPromotionFixture(t)
		id := f.promote(t, testNow.Add(24*time.Hour))

		err := f.cmds.ExpirePromotion(context.Background(), id)
		assert.ErrorIs(t, err, commands.ErrPromotionNotExpired)
		assert.Contains(t, f.uow.Promotions, id)
	})

	t.Run("unknown promotion", func(t *testing.T) {
		f := newPromotionFixture(t)

		err := f.cmds.ExpirePromotion(context.Background(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrPromotionNotFound)
	})
}
