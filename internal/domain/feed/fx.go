package feed

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/repository/postgres"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/usecase/business"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/workers"
)

// Module provides feed domain components for fx DI
var Module = fx.Module("feed",
	fx.Provide(
		postgres.NewFeedRepository,
		postgres.NewItemRepository,
		business.NewUseCase,
	),
	workers.Module,
)
