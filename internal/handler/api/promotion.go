package api

import (
	"errors"
	"net/http"

	reqdto "opportune/internal/handler/dto/request"
	resdto "opportune/internal/handler/dto/response"
	"opportune/internal/handler/middleware"
	"opportune/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PromotionHandler struct {
	promotionCommands commands.PromotionCommands
}

func NewPromotionHandler(promotionCommands commands.PromotionCommands) *PromotionHandler {
	return &PromotionHandler{
		promotionCommands: promotionCommands,
	}
}

// @Summary Promote offer
// @Description Buy a time-limited visibility boost for an offer
// @Tags promotions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body reqdto.CreatePromotionRequest true "Promotion request"
// @Success 201 {object} resdto.PromotionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /offers/{id}/promotions [post]
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
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

	var req reqdto.CreatePromotionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.promotionCommands.CreatePromotion(c.Request.Context(), commands.CreatePromotionParams{
		OfferID:    offerID,
		PromoterID: userID,
		Value:      req.Value,
		ExpireAt:   req.ExpireAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOfferNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Offer not found",
			})
		case errors.Is(err, commands.ErrNonPositiveBoost):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Promotion value must be positive",
			})
		case errors.Is(err, commands.ErrExpiryNotInFuture):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Promotion expiry must be in the future",
			})
		case errors.Is(err, commands.ErrDuplicatePromotion):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Promotion already exists for this offer",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPromotionView(view))
}

// @Summary Expire promotion
// @Description Retire an expired promotion and re-derive the offer's promoted flag
// @Tags promotions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Promotion ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /promotions/{id}/expire [post]
func (h *PromotionHandler) ExpirePromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID format",
		})
		return
	}

	if err := h.promotionCommands.ExpirePromotion(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrPromotionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promotion not found",
			})
		case errors.Is(err, commands.ErrPromotionNotExpired):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Promotion has not expired yet",
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
