package workers

import (
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/usecase/business"
)

// EmailWorker sends due email digests on EMAIL_INTERVAL
type EmailWorker struct {
	*loop
}

// NewEmailWorker creates a new email delivery worker
func NewEmailWorker(uc *business.UseCase, cfg *config.EmailConfig, logger zerolog.Logger) *EmailWorker {
	return &EmailWorker{
		loop: newLoop(uc.DeliverEmail, cfg.Interval, cfg.CycleTimeout, logger.With().Str("worker", "email_sender").Logger()),
	}
}

// TelegramWorker sends due Telegram digests on TELEGRAM_INTERVAL
type TelegramWorker struct {
	*loop
}

// NewTelegramWorker creates a new Telegram delivery worker
func NewTelegramWorker(uc *business.UseCase, cfg *config.TelegramConfig, logger zerolog.Logger) *TelegramWorker {
	return &TelegramWorker{
		loop: newLoop(uc.DeliverTelegram, cfg.Interval, cfg.CycleTimeout, logger.With().Str("worker", "telegram_sender").Logger()),
	}
}
