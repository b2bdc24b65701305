//go:build unit

package review_test

import (
	"strings"
	"testing"
	"time"

	"opportune/internal/domain/review"
	"opportune/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubChecker struct {
	err error
}

func (s stubChecker) CanPostReview(review.EligibilityInput) error {
	return s.err
}

func services(err error) *review.Services {
	return &review.Services{
		Clock:              clock.NewMockClock(now),
		EligibilityChecker: stubChecker{err: err},
	}
}

func TestNewRating(t *testing.T) {
	for _, v := range []int{1, 3, 5} {
		r, err := review.NewRating(v)
		require.NoError(t, err)
		assert.Equal(t, v, r.Value())
	}
	for _, v := range []int{0, 6, -1} {
		_, err := review.NewRating(v)
		assert.ErrorIs(t, err, review.ErrInvalidRating)
	}
}

func TestNewComment(t *testing.T) {
	c, err := review.NewComment("")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = review.NewComment(strings.Repeat("a", 1000))
	assert.NoError(t, err)

	_, err = review.NewComment(strings.Repeat("a", 1001))
	assert.ErrorIs(t, err, review.ErrCommentTooLong)
}

func TestNewReview(t *testing.T) {
	rating, err := review.NewRating(5)
	require.NoError(t, err)
	comment, err := review.NewComment("great")
	require.NoError(t, err)

	t.Run("eligible reservation", func(t *testing.T) {
		r, err := review.NewReview(services(nil), uuid.New(), uuid.New(), uuid.New(), rating, comment)
		require.NoError(t, err)
		assert.Equal(t, now, r.CreatedAt())
		assert.Equal(t, 5, r.Rating().Value())
	})

	t.Run("ineligible reservation is refused", func(t *testing.T) {
		_, err := review.NewReview(services(review.ErrReservationNotEligible), uuid.New(), uuid.New(), uuid.New(), rating, comment)
		assert.ErrorIs(t, err, review.ErrReservationNotEligible)
	})
}
