package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/usecase/business"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/database"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/http/server"
)

// Module registers the operational endpoints
var Module = fx.Module("delivery-http",
	fx.Provide(
		newHealthHandler,
	),
	fx.Invoke(registerRoutes),
)

func newHealthHandler(db *gorm.DB, digest *business.UseCase, logger zerolog.Logger) *HealthHandler {
	return NewHealthHandler(
		database.NewPinger(db),
		digest,
		logger.With().Str("component", "health").Logger(),
	)
}

func registerRoutes(srv *server.Server, health *HealthHandler) {
	srv.Router.GET("/health", fasthttpadaptor.NewFastHTTPHandler(health))
}
