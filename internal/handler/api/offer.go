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

type OfferHandler struct {
	offerCommands commands.OfferCommands
	offerQueries  queries.OfferQueries
}

func NewOfferHandler(offerCommands commands.OfferCommands, offerQueries queries.OfferQueries) *OfferHandler {
	return &OfferHandler{
		offerCommands: offerCommands,
		offerQueries:  offerQueries,
	}
}

// @Summary Create offer
// @Description Create a new bookable offer
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOfferRequest true "Offer request"
// @Success 201 {object} resdto.OfferResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /offers [post]
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.offerCommands.CreateOffer(c.Request.Context(), commands.CreateOfferParams{
		OwnerID:        userID,
		Title:          req.Title,
		Vacancies:      req.Vacancies,
		UnitPrice:      req.UnitPrice,
		ActivationDate: req.ActivationDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid offer parameters",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromOfferView(view))
}

// @Summary Get offer
// @Description Get offer by ID with rating stats
// @Tags offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} resdto.OfferResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /offers/{id} [get]
func (h *OfferHandler) GetOffer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid offer ID format",
		})
		return
	}

	view, err := h.offerQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrOfferViewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Offer not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromOfferView(view))
}

// @Summary List active offers
// @Description List currently active offers
// @Tags offers
// @Produce json
// @Param limit query int false "Max results" default(50)
// @Success 200 {array} resdto.OfferResponse
// @Router /offers [get]
func (h *OfferHandler) ListOffers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid limit",
		})
		return
	}

	views, err := h.offerQueries.ListActive(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromOfferViews(views))
}

// @Summary Activate offer
// @Description Reactivate a deactivated offer
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /offers/{id}/activate [post]
func (h *OfferHandler) ActivateOffer(c *gin.Context) {
	h.setActive(c, true)
}

// @Summary Deactivate offer
// @Description Deactivate an offer without active reservations
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /offers/{id}/deactivate [post]
func (h *OfferHandler) DeactivateOffer(c *gin.Context) {
	h.setActive(c, false)
}

func (h *OfferHandler) setActive(c *gin.Context, active bool) {
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
			"error": "Invalid offer ID format",
		})
		return
	}

	if active {
		err = h.offerCommands.ActivateOffer(c.Request.Context(), id, userID)
	} else {
		err = h.offerCommands.DeactivateOffer(c.Request.Context(), id, userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Offer not found",
			})
		case errors.Is(err, commands.ErrOfferNotOwned):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Offer is not owned by the current user",
			})
		case errors.Is(err, commands.ErrOfferHasBookings):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Offer still has active reservations",
			})
		case errors.Is(err, commands.ErrConcurrentModification):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Offer was modified concurrently, retry",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid state transition",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
