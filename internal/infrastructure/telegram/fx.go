// Package telegram contains the Bot API client used for digests
package telegram

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/deps"
)

// Module provides the Telegram sender for fx DI
var Module = fx.Module("telegram",
	fx.Provide(
		NewClient,
		func(c *Client) deps.TelegramSender { return c },
	),
)
