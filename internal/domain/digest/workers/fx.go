package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides digest workers for fx DI
var Module = fx.Module("digest-workers",
	fx.Provide(
		NewEmailWorker,
		NewTelegramWorker,
	),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle registers both delivery workers with fx.Lifecycle
func registerLifecycle(lc fx.Lifecycle, email *EmailWorker, telegram *TelegramWorker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			email.Start()
			telegram.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			email.Stop()
			telegram.Stop()
			return nil
		},
	})
}
