package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	httpdelivery "github.com/Conte777/NewsFlow/services/feed-service/internal/delivery/http"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure"
)

// CreateApp creates the fx application options
func CreateApp(opts config.Options) fx.Option {
	return fx.Options(
		fx.Supply(opts),
		fx.Provide(config.Out),
		infrastructure.Module,
		// Domain modules
		feed.Module,
		digest.Module,
		httpdelivery.Module,
	)
}
