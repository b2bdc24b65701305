package bootstrap

import (
	"context"
	"log/slog"

	"opportune/internal/pkg/config"
	"opportune/internal/sweeper"
	"opportune/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweepers),
)

// StartSweepers wires the two background loops: the general expiry sweep on
// a short cadence and the promotion-only sweep on a long one.
func StartSweepers(lc fx.Lifecycle, cfg config.Config, sweepCommands commands.SweepCommands, logger *slog.Logger) {
	general := sweeper.New("expiry", cfg.Sweep.Interval, sweepCommands.SweepExpired, logger)
	promo := sweeper.New("promotions", cfg.Sweep.PromotionInterval, sweepCommands.SweepExpiredPromotions, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			general.Start(cfg.Sweep.RunOnStart)
			promo.Start(cfg.Sweep.RunOnStart)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := general.Stop(ctx); err != nil {
				return err
			}
			return promo.Stop(ctx)
		},
	})
}
