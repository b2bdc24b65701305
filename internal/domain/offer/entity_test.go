//go:build unit

package offer_test

import (
	"testing"
	"time"

	"opportune/internal/domain/offer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newOffer(t *testing.T) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(uuid.New(), "City tour", 10, decimal.NewFromInt(25), now.Add(48*time.Hour), now)
	require.NoError(t, err)
	return o
}

func TestNewOffer(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		vacancies      int32
		unitPrice      decimal.Decimal
		activationDate time.Time
		errIs          error
	}{
		{name: "valid", title: "City tour", vacancies: 10, unitPrice: decimal.NewFromInt(25), activationDate: now.Add(time.Hour)},
		{name: "zero vacancies allowed", title: "Sold out", vacancies: 0, unitPrice: decimal.NewFromInt(25), activationDate: now.Add(time.Hour)},
		{name: "free offer allowed", title: "Freebie", vacancies: 5, unitPrice: decimal.Zero, activationDate: now.Add(time.Hour)},
		{name: "empty title", title: "   ", vacancies: 10, unitPrice: decimal.NewFromInt(25), activationDate: now.Add(time.Hour), errIs: offer.ErrEmptyTitle},
		{name: "negative vacancies", title: "Bad", vacancies: -1, unitPrice: decimal.NewFromInt(25), activationDate: now.Add(time.Hour), errIs: offer.ErrNegativeVacancies},
		{name: "negative price", title: "Bad", vacancies: 10, unitPrice: decimal.NewFromInt(-1), activationDate: now.Add(time.Hour), errIs: offer.ErrNegativeUnitPrice},
		{name: "past activation date", title: "Bad", vacancies: 10, unitPrice: decimal.NewFromInt(25), activationDate: now.Add(-time.Hour), errIs: offer.ErrPastActivationDate},
		{name: "activation date equal to now", title: "Bad", vacancies: 10, unitPrice: decimal.NewFromInt(25), activationDate: now, errIs: offer.ErrPastActivationDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := offer.NewOffer(uuid.New(), tt.title, tt.vacancies, tt.unitPrice, tt.activationDate, now)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.True(t, o.IsActive())
			assert.False(t, o.IsPromoted())
		})
	}
}

func TestOffer_Deactivate(t *testing.T) {
	t.Run("without active reservations", func(t *testing.T) {
		o := newOffer(t)
		require.NoError(t, o.Deactivate(0))
		assert.False(t, o.IsActive())
	})

	t.Run("blocked while reservations are active", func(t *testing.T) {
		o := newOffer(t)
		err := o.Deactivate(3)
		assert.ErrorIs(t, err, offer.ErrHasActiveBookings)
		assert.True(t, o.IsActive())
	})

	t.Run("already inactive", func(t *testing.T) {
		o := newOffer(t)
		require.NoError(t, o.Deactivate(0))
		assert.ErrorIs(t, o.Deactivate(0), offer.ErrAlreadyInactive)
	})
}

func TestOffer_Activate(t *testing.T) {
	o := newOffer(t)
	assert.ErrorIs(t, o.Activate(), offer.ErrAlreadyActive)

	require.NoError(t, o.Deactivate(0))
	require.NoError(t, o.Activate())
	assert.True(t, o.IsActive())
}

func TestOffer_SetPromoted(t *testing.T) {
	o := newOffer(t)

	o.SetPromoted(true)
	assert.True(t, o.IsPromoted())

	o.SetPromoted(false)
	assert.False(t, o.IsPromoted())
}
