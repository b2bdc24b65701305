//go:build e2e

package booking_test

import (
	"net/http"
	"testing"
	"time"

	"opportune/internal/handler/dto/response"
	"opportune/tests/common/authtest"
	"opportune/tests/common/dbtest"
	"opportune/tests/common/httptest"
	"opportune/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const reservationsURL = "/api/reservations"

// decimals compare by value, not by internal exponent
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) TestCreateReservation() {
	s.Run("Normal case: booking freezes the price and claims capacity", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", "member")
		userID := dbtest.CreateTestUser(t, s.DB, "guest@example.com", "member")
		targetDate := time.Now().Add(48 * time.Hour)
		offerID := dbtest.CreateTestOffer(t, s.DB, ownerID, "City tour", 10, decimal.NewFromInt(25), targetDate)

		token := authtest.LoginUser(t, s.Router, "guest@example.com", "password123")

		reqBody := map[string]any{"offer_id": offerID, "headcount": 2}
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, reqBody, token, headers)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.ReservationResponse
		httptest.DecodeResponseBody(t, w.Body, &created)
		require.NotEqual(t, uuid.Nil, created.ID)

		expected := &response.ReservationResponse{
			OfferID:    offerID,
			OfferTitle: "City tour",
			UserID:     userID,
			UserEmail:  "guest@example.com",
			Headcount:  2,
			FixedPrice: decimal.NewFromInt(50),
			IsActive:   true,
		}
		opts := []cmp.Option{
			decimalComparer,
			cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "TargetDate", "BookingCreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &created, opts...); diff != "" {
			t.Errorf("Reservation response mismatch (-want +got):\n%s", diff)
		}

		// The detail endpoint returns the same view to the owner.
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusOK, dw.Code, dw.Body.String())

		var fetched response.ReservationResponse
		httptest.DecodeResponseBody(t, dw.Body, &fetched)
		if diff := cmp.Diff(&created, &fetched, decimalComparer); diff != "" {
			t.Errorf("Detail response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: replaying the same idempotency key returns the original booking", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", "member")
		dbtest.CreateTestUser(t, s.DB, "guest@example.com", "member")
		offerID := dbtest.CreateTestOffer(t, s.DB, ownerID, "City tour", 10, decimal.NewFromInt(25), time.Now().Add(48*time.Hour))

		token := authtest.LoginUser(t, s.Router, "guest@example.com", "password123")

		reqBody := map[string]any{"offer_id": offerID, "headcount": 2}
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		first := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, reqBody, token, headers)
		require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
		var firstRes response.ReservationResponse
		httptest.DecodeResponseBody(t, first.Body, &firstRes)

		second := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, reqBody, token, headers)
		require.Equal(t, http.StatusOK, second.Code, second.Body.String())
		var secondRes response.ReservationResponse
		httptest.DecodeResponseBody(t, second.Body, &secondRes)

		require.Equal(t, firstRes.ID, secondRes.ID, "replay must not create a second reservation")

		var count int
		err := s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM reservations WHERE offer_id = $1", offerID).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	s.Run("Error case: headcount above the offer capacity is rejected", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", "member")
		dbtest.CreateTestUser(t, s.DB, "guest@example.com", "member")
		offerID := dbtest.CreateTestOffer(t, s.DB, ownerID, "Small workshop", 3, decimal.NewFromInt(100), time.Now().Add(48*time.Hour))

		token := authtest.LoginUser(t, s.Router, "guest@example.com", "password123")

		reqBody := map[string]any{"offer_id": offerID, "headcount": 4}
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, reqBody, token, headers)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Error case: booking requires authentication", func() {
		t := s.T()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL,
			map[string]any{"offer_id": uuid.New(), "headcount": 1}, "",
			map[string]string{"Idempotency-Key": uuid.NewString()})
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}

func (s *BookingSuite) TestDeactivateReservation() {
	s.Run("Normal case: cancelling before the target date frees capacity", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", "member")
		userID := dbtest.CreateTestUser(t, s.DB, "guest@example.com", "member")
		offerID := dbtest.CreateTestOffer(t, s.DB, ownerID, "City tour", 10, decimal.NewFromInt(25), time.Now().Add(48*time.Hour))
		reservationID := dbtest.CreateTestReservation(t, s.DB, offerID, userID, 2, decimal.NewFromInt(50), time.Now().Add(48*time.Hour), true)

		token := authtest.LoginUser(t, s.Router, "guest@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+reservationID.String()+"/deactivate", nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		var isActive bool
		err := s.DB.QueryRow(s.T().Context(), "SELECT is_active FROM reservations WHERE id = $1", reservationID).Scan(&isActive)
		require.NoError(t, err)
		require.False(t, isActive)
	})

	s.Run("Error case: cancelling after the target date conflicts", func() {
		t := s.T()

		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", "member")
		userID := dbtest.CreateTestUser(t, s.DB, "guest@example.com", "member")
		offerID := dbtest.CreateTestOffer(t, s.DB, ownerID, "City tour", 10, decimal.NewFromInt(25), time.Now().Add(-72*time.Hour))
		reservationID := dbtest.CreateTestReservation(t, s.DB, offerID, userID, 2, decimal.NewFromInt(50), time.Now().Add(-24*time.Hour), true)

		token := authtest.LoginUser(t, s.Router, "guest@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+reservationID.String()+"/deactivate", nil, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}
