//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"opportune/internal/handler/api"
	resdto "opportune/internal/handler/dto/response"
	"opportune/internal/usecase/commands"
	"opportune/internal/usecase/queries"
	"opportune/tests/common/httptest"
	commandsmock "opportune/tests/mock/commands"
	queriesmock "opportune/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockReservationCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
	userID       uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Stand-in for the auth middleware: any Authorization header resolves
	// to the fixture user.
	authStub := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.userID)
		}
		c.Next()
	}

	grp := s.router.Group("/reservations", authStub)
	grp.POST("", s.handler.CreateReservation)
	grp.GET("/:id", s.handler.GetReservation)
	grp.PATCH("/:id", s.handler.UpdateReservation)
	grp.POST("/:id/deactivate", s.handler.DeactivateReservation)
	grp.DELETE("/:id", s.handler.DeleteReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) sampleView(offerID uuid.UUID) *queries.ReservationView {
	return &queries.ReservationView{
		ID:               uuid.New(),
		OfferID:          offerID,
		OfferTitle:       "City tour",
		UserID:           s.userID,
		UserEmail:        "guest@example.com",
		Headcount:        2,
		FixedPrice:       decimal.NewFromInt(50),
		IsActive:         true,
		TargetDate:       time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
		BookingCreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"
	offerID := uuid.New()
	idempotencyKey := uuid.New()
	body := map[string]any{"offer_id": offerID, "headcount": 2}
	headers := map[string]string{"Idempotency-Key": idempotencyKey.String()}

	s.Run("success: 201 Created with the stored view", func() {
		view := s.sampleView(offerID)
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), commands.CreateReservationParams{
				OfferID: offerID, UserID: s.userID, Headcount: 2,
			}, idempotencyKey).
			Return(&commands.CreateReservationResult{Reservation: view}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "token", headers)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(int32(2), response.Headcount)
		s.True(response.FixedPrice.Equal(decimal.NewFromInt(50)))
	})

	s.Run("replay: 200 OK when the key was already completed", func() {
		view := s.sampleView(offerID)
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), gomock.Any(), idempotencyKey).
			Return(&commands.CreateReservationResult{Reservation: view, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "token", headers)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
	})

	s.Run("error: 400 without an Idempotency-Key header", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key")
	})

	s.Run("error: 400 when the key is not a UUID", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "token",
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "valid UUID")
	})

	s.Run("error: 400 on a malformed body", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url,
			map[string]any{"offer_id": offerID}, "token", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 for an unknown offer", func() {
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), gomock.Any(), idempotencyKey).
			Return(nil, commands.ErrOfferNotFound).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "token", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Offer not found")
	})

	s.Run("error: 422 when headcount exceeds capacity", func() {
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), gomock.Any(), idempotencyKey).
			Return(nil, commands.ErrExceedsCapacity).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "token", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "capacity")
	})

	s.Run("error: 409 when the key is reused with different parameters", func() {
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), gomock.Any(), idempotencyKey).
			Return(nil, commands.ErrDuplicateRequest).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, body, "token", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Duplicate")
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	view := s.sampleView(uuid.New())
	url := "/reservations/" + view.ID.String()

	s.Run("success: 200 OK for the owner", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.OfferTitle, response.OfferTitle)
	})

	s.Run("error: access denial surfaces as 404", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, view.ID).
			Return(nil, queries.ErrReservationAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error: 400 for a malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/not-a-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid reservation ID")
	})
}

func (s *ReservationHandlerTestSuite) TestUpdateReservation() {
	view := s.sampleView(uuid.New())
	url := "/reservations/" + view.ID.String()
	body := map[string]any{"headcount": 3}

	s.Run("success: 200 OK with the repriced view", func() {
		updated := *view
		updated.Headcount = 3
		updated.FixedPrice = decimal.NewFromInt(75)
		s.mockCommands.EXPECT().
			UpdateHeadcount(gomock.Any(), view.ID, s.userID, int32(3)).
			Return(&updated, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "token")

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int32(3), response.Headcount)
		s.True(response.FixedPrice.Equal(decimal.NewFromInt(75)))
	})

	s.Run("error: 409 on a concurrent modification", func() {
		s.mockCommands.EXPECT().
			UpdateHeadcount(gomock.Any(), view.ID, s.userID, int32(3)).
			Return(nil, commands.ErrConcurrentModification).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "concurrently")
	})
}

func (s *ReservationHandlerTestSuite) TestDeactivateReservation() {
	id := uuid.New()
	url := "/reservations/" + id.String() + "/deactivate"

	s.Run("success: 204 No Content", func() {
		s.mockCommands.EXPECT().
			DeactivateReservation(gomock.Any(), id, s.userID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 409 once the target date has passed", func() {
		s.mockCommands.EXPECT().
			DeactivateReservation(gomock.Any(), id, s.userID).
			Return(commands.ErrReservationElapsed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already passed")
	})
}

func (s *ReservationHandlerTestSuite) TestDeleteReservation() {
	id := uuid.New()
	url := "/reservations/" + id.String()

	s.Run("success: 204 No Content", func() {
		s.mockCommands.EXPECT().
			DeleteReservation(gomock.Any(), id, s.userID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 for another user's reservation", func() {
		s.mockCommands.EXPECT().
			DeleteReservation(gomock.Any(), id, s.userID).
			Return(commands.ErrReservationNotOwned).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})
}
