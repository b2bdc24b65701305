package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"opportune/internal/handler/api"
	"opportune/internal/handler/middleware"
	"opportune/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	offerHandler *api.OfferHandler,
	reservationHandler *api.ReservationHandler,
	promotionHandler *api.PromotionHandler,
	reviewHandler *api.ReviewHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, offerHandler, reservationHandler, promotionHandler, reviewHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	offerHandler *api.OfferHandler,
	reservationHandler *api.ReservationHandler,
	promotionHandler *api.PromotionHandler,
	reviewHandler *api.ReviewHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		offers := apiGroup.Group("/offers")
		{
			addRoutes(offers, []route{
				{Method: http.MethodGet, Path: "", Handler: offerHandler.ListOffers},
				{Method: http.MethodGet, Path: "/:id", Handler: offerHandler.GetOffer},
				{Method: http.MethodGet, Path: "/:id/reviews", Handler: reviewHandler.ListReviews},
			})

			offersAuth := offers.Group("")
			offersAuth.Use(authMiddleware.RequireAuth())
			addRoutes(offersAuth, []route{
				{Method: http.MethodPost, Path: "", Handler: offerHandler.CreateOffer},
				{Method: http.MethodPost, Path: "/:id/activate", Handler: offerHandler.ActivateOffer},
				{Method: http.MethodPost, Path: "/:id/deactivate", Handler: offerHandler.DeactivateOffer},
				{Method: http.MethodPost, Path: "/:id/promotions", Handler: promotionHandler.CreatePromotion},
				{Method: http.MethodPost, Path: "/:id/reviews", Handler: reviewHandler.CreateReview},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodPatch, Path: "/:id", Handler: reservationHandler.UpdateReservation},
				{Method: http.MethodPost, Path: "/:id/deactivate", Handler: reservationHandler.DeactivateReservation},
				{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.DeleteReservation},
			})
		}

		promotions := apiGroup.Group("/promotions")
		promotions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(promotions, []route{
				{Method: http.MethodPost, Path: "/:id/expire", Handler: promotionHandler.ExpirePromotion, Mw: []gin.HandlerFunc{authMiddleware.RequireAdmin()}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
