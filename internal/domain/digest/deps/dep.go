package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/entities"
	feedentities "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
)

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	// ListActive returns active subscriptions routed to channel
	ListActive(ctx context.Context, channel entities.Channel) ([]entities.Subscription, error)

	// ListForUser returns all subscriptions of a user
	ListForUser(ctx context.Context, userID uint) ([]entities.Subscription, error)

	// Update writes the fields set in partial. With IfLastSentTime set the
	// update only applies while the stored watermark still matches.
	Update(ctx context.Context, id uint, partial *entities.PartialSubscription) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*entities.User, error)

	// ListTelegramRecipients returns active users with a Telegram chat id
	ListTelegramRecipients(ctx context.Context) ([]entities.User, error)
}

// EmailConfigRepository defines the interface for SMTP account access
type EmailConfigRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*entities.EmailConfig, error)
}

// SettingsRepository reads global runtime settings
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
}

// FeedReader is the part of the feed store the digest needs
type FeedReader interface {
	GetByID(ctx context.Context, id uint) (*feedentities.Feed, error)
}

// ItemReader returns items newer than a watermark, newest first
type ItemReader interface {
	ItemsAfter(ctx context.Context, feedID uint, after int64, limit int) ([]feedentities.FeedItem, error)
}

// PasswordDecrypter opens SMTP passwords stored encrypted
type PasswordDecrypter interface {
	Decrypt(encoded string) (string, error)
}

// Mailer delivers one email through the user's SMTP account
type Mailer interface {
	Send(ctx context.Context, account dto.SMTPAccount, msg dto.EmailMessage) error
}

// TelegramSender posts one HTML message to a chat
type TelegramSender interface {
	SendMessage(ctx context.Context, bot dto.BotCredentials, chatID, text string) error
}

// EventProducer publishes delivery events
type EventProducer interface {
	SendDigestDelivered(ctx context.Context, event dto.DigestDeliveredEvent) error
}

// Metrics records delivery observations
type Metrics interface {
	RecordDelivery(channel, outcome string)
	RecordDeliveryCycle(channel string, duration float64)
}
