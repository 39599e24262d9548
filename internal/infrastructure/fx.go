package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/crypto"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/database"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/fetcher"
	httpfx "github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/http"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/smtp"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	metrics.Module,
	crypto.Module,
	fetcher.Module,
	kafka.Module,
	smtp.Module,
	telegram.Module,
	httpfx.Module,
)
