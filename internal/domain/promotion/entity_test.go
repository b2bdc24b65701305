//go:build unit

package promotion_test

import (
	"testing"
	"time"

	"opportune/internal/domain/promotion"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewPromotion(t *testing.T) {
	tests := []struct {
		name     string
		value    decimal.Decimal
		expireAt time.Time
		errIs    error
	}{
		{name: "valid", value: decimal.NewFromInt(50), expireAt: now.Add(24 * time.Hour)},
		{name: "zero value", value: decimal.Zero, expireAt: now.Add(24 * time.Hour), errIs: promotion.ErrNonPositiveValue},
		{name: "negative value", value: decimal.NewFromInt(-10), expireAt: now.Add(24 * time.Hour), errIs: promotion.ErrNonPositiveValue},
		{name: "expiry in the past", value: decimal.NewFromInt(50), expireAt: now.Add(-time.Hour), errIs: promotion.ErrExpiryNotInFuture},
		{name: "expiry equal to now", value: decimal.NewFromInt(50), expireAt: now, errIs: promotion.ErrExpiryNotInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := promotion.NewPromotion(uuid.New(), uuid.New(), tt.value, tt.expireAt, now)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expireAt, p.ExpireAt())
			assert.Equal(t, now, p.CreatedAt())
		})
	}
}

func TestPromotion_Expired(t *testing.T) {
	p, err := promotion.NewPromotion(uuid.New(), uuid.New(), decimal.NewFromInt(10), now.Add(time.Hour), now)
	require.NoError(t, err)

	assert.False(t, p.Expired(now))
	assert.False(t, p.Expired(p.ExpireAt()))
	assert.True(t, p.Expired(p.ExpireAt().Add(time.Second)))
}
