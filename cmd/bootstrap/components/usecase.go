package components

import (
	"opportune/internal/domain/reservation"
	"opportune/internal/pkg/clock"
	"opportune/internal/usecase"
	"opportune/internal/usecase/commands"
	"opportune/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	reservation.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewOfferCommands,
		commands.NewReservationCommands,
		commands.NewPromotionCommands,
		commands.NewReviewCommands,
		commands.NewSweepCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOfferQueries,
		queries.NewUserQueries,
		queries.NewReservationQueries,
		queries.NewReviewQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
