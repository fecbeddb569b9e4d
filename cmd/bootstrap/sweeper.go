package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"facility-booking/internal/pkg/config"
	"facility-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper runs the hold-expiry and completion sweeps on a fixed tick.
// Both sweeps are idempotent, so a missed or doubled tick is harmless.
func StartSweeper(lc fx.Lifecycle, cfg config.Config, housekeeping commands.Housekeeping, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Sweep.Interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						sweep(ctx, housekeeping, logger)
					}
				}
			}()
			logger.Info("スイーパーを起動します", "interval", cfg.Sweep.Interval.String())
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			logger.Info("スイーパーを停止しました")
			return nil
		},
	})
}

func sweep(ctx context.Context, housekeeping commands.Housekeeping, logger *slog.Logger) {
	expired, err := housekeeping.ExpireHolds(ctx)
	if err != nil {
		logger.Error("期限切れホールドの掃除に失敗しました", "error", err)
	} else if expired > 0 {
		logger.Info("期限切れホールドをキャンセルしました", "count", expired)
	}

	completed, err := housekeeping.CompleteElapsed(ctx)
	if err != nil {
		logger.Error("終了済み予約の完了処理に失敗しました", "error", err)
	} else if completed > 0 {
		logger.Info("終了済み予約を完了にしました", "count", completed)
	}
}
