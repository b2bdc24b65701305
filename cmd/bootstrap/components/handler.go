package components

import (
	"opportune/internal/handler"
	"opportune/internal/handler/api"
	"opportune/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewOfferHandler,
		api.NewReservationHandler,
		api.NewPromotionHandler,
		api.NewReviewHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
