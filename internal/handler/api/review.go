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

type ReviewHandler struct {
	reviewCommands commands.ReviewCommands
	reviewQueries  queries.ReviewQueries
}

func NewReviewHandler(reviewCommands commands.ReviewCommands, reviewQueries queries.ReviewQueries) *ReviewHandler {
	return &ReviewHandler{
		reviewCommands: reviewCommands,
		reviewQueries:  reviewQueries,
	}
}

// @Summary Create review
// @Description Review an offer after the reservation's target date has passed
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body reqdto.CreateReviewRequest true "Review request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /offers/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid offer ID format",
		})
		return
	}

	var req reqdto.CreateReviewRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.reviewCommands.CreateReview(c.Request.Context(), commands.CreateReviewParams{
		ReservationID: req.ReservationID,
		UserID:        userID,
		OfferID:       offerID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrReviewNotEligible):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Reservation is not eligible for review",
			})
		case errors.Is(err, commands.ErrDuplicateReview):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation already has a review",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid rating or comment",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": result.ReviewID.String()})
}

// @Summary List reviews
// @Description List reviews for an offer
// @Tags reviews
// @Produce json
// @Param id path string true "Offer ID"
// @Param limit query int false "Max results" default(50)
// @Success 200 {array} resdto.ReviewResponse
// @Failure 400 {object} map[string]string
// @Router /offers/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid offer ID format",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid limit",
		})
		return
	}

	views, err := h.reviewQueries.ListByOffer(c.Request.Context(), offerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromReviewViews(views))
}
