package workers

import (
	"context"

	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/usecase/business"
)

// Module provides feed workers for fx DI
var Module = fx.Module("feed-workers",
	fx.Provide(
		NewPollerWorker,
		func(uc *business.UseCase) Poller { return uc },
	),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle registers the poller worker with fx.Lifecycle
func registerLifecycle(lc fx.Lifecycle, w *PollerWorker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			return nil
		},
	})
}
