package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "opportune/internal/handler/dto/request"
	resdto "opportune/internal/handler/dto/response"
	"opportune/internal/handler/middleware"
	"opportune/internal/usecase/commands"
	"opportune/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Reserve capacity against an offer, price frozen at booking time
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.reservationCommands.CreateReservation(c.Request.Context(), commands.CreateReservationParams{
		OfferID:   req.OfferID,
		UserID:    userID,
		Headcount: req.Headcount,
	}, idempotencyKey)
	if err != nil {
		h.respondReservationError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReservationView(result.Reservation))
}

// @Summary Get reservation
// @Description Get reservation by ID, owner only
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationViewNotFound),
			errors.Is(err, queries.ErrReservationAccessDenied):
			// Access denial is reported as not-found to avoid leaking IDs.
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description List the calling user's reservations, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of reservations" default(50)
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be an integer between 1 and 200",
			})
			return
		}
		limit = parsed
	}

	views, err := h.reservationQueries.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	responses := make([]*resdto.ReservationResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, resdto.FromReservationView(view))
	}
	c.JSON(http.StatusOK, responses)
}

// @Summary Update reservation
// @Description Change reservation headcount, repriced at the current unit price
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationRequest true "Update request"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations/{id} [patch]
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.UpdateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.UpdateHeadcount(c.Request.Context(), id, userID, req.Headcount)
	if err != nil {
		h.respondReservationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Deactivate reservation
// @Description Cancel an active reservation before its target date
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/deactivate [post]
func (h *ReservationHandler) DeactivateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	if err := h.reservationCommands.DeactivateReservation(c.Request.Context(), id, userID); err != nil {
		h.respondReservationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete reservation
// @Description Remove a reservation entirely
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	if err := h.reservationCommands.DeleteReservation(c.Request.Context(), id, userID); err != nil {
		h.respondReservationError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader("Idempotency-Key")
	if raw == "" {
		return uuid.Nil, errors.New("Idempotency-Key header is required")
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("Idempotency-Key must be a valid UUID")
	}
	return key, nil
}

func (h *ReservationHandler) respondReservationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrOfferNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Offer not found",
		})
	case errors.Is(err, commands.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
	case errors.Is(err, commands.ErrReservationNotFound),
		errors.Is(err, commands.ErrReservationNotOwned):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, commands.ErrOfferInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Offer is not active",
		})
	case errors.Is(err, commands.ErrInvalidHeadcount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Headcount must be positive",
		})
	case errors.Is(err, commands.ErrExceedsCapacity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Headcount exceeds offer capacity",
		})
	case errors.Is(err, commands.ErrAlreadyInactive):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation is already inactive",
		})
	case errors.Is(err, commands.ErrReservationElapsed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation target date has already passed",
		})
	case errors.Is(err, commands.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Duplicate reservation request with different parameters",
		})
	case errors.Is(err, commands.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation was modified concurrently, retry",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
