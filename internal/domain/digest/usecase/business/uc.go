package business

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/composer"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/entities"
	domainerrors "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/errors"
	feedentities "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
	"github.com/Conte777/NewsFlow/services/feed-service/pkg/mapfn"
)

// DefaultTelegramAPIBaseURL is used when neither config nor settings name one
const DefaultTelegramAPIBaseURL = "https://api.telegram.org"

// Params defines the dependencies of the digest use case
type Params struct {
	fx.In

	Subscriptions deps.SubscriptionRepository
	Users         deps.UserRepository
	EmailConfigs  deps.EmailConfigRepository
	Settings      deps.SettingsRepository
	Feeds         deps.FeedReader
	Items         deps.ItemReader
	Decrypter     deps.PasswordDecrypter `optional:"true"`
	Mailer        deps.Mailer
	Telegram      deps.TelegramSender
	Producer      deps.EventProducer
	Metrics       deps.Metrics
	EmailConfig   *config.EmailConfig
	TelegramCfg   *config.TelegramConfig
	Logger        zerolog.Logger
}

// UseCase schedules, composes and sends digests per subscription.
// The watermark of a subscription only moves after a successful send.
type UseCase struct {
	subscriptions deps.SubscriptionRepository
	users         deps.UserRepository
	emailConfigs  deps.EmailConfigRepository
	settings      deps.SettingsRepository
	feeds         deps.FeedReader
	items         deps.ItemReader
	decrypter     deps.PasswordDecrypter
	mailer        deps.Mailer
	telegram      deps.TelegramSender
	producer      deps.EventProducer
	metrics       deps.Metrics

	emailComposer    *composer.EmailComposer
	telegramComposer *composer.TelegramComposer
	botToken         string
	apiBaseURL       string

	now    func() time.Time
	logger zerolog.Logger
}

// NewUseCase creates a new digest use case
func NewUseCase(p Params) *UseCase {
	return &UseCase{
		subscriptions:    p.Subscriptions,
		users:            p.Users,
		emailConfigs:     p.EmailConfigs,
		settings:         p.Settings,
		feeds:            p.Feeds,
		items:            p.Items,
		decrypter:        p.Decrypter,
		mailer:           p.Mailer,
		telegram:         p.Telegram,
		producer:         p.Producer,
		metrics:          p.Metrics,
		emailComposer:    composer.NewEmailComposer(p.EmailConfig.ProductName),
		telegramComposer: composer.NewTelegramComposer(p.TelegramCfg.MessageLimit, p.TelegramCfg.TruncationNotice),
		botToken:         p.TelegramCfg.BotToken,
		apiBaseURL:       p.TelegramCfg.APIBaseURL,
		now:              time.Now,
		logger:           p.Logger.With().Str("component", "digest").Logger(),
	}
}

// EmailEnabled reports whether SMTP passwords can be decrypted
func (u *UseCase) EmailEnabled() bool {
	return u.decrypter != nil
}

// DeliverEmail runs one email delivery pass over every due subscription
func (u *UseCase) DeliverEmail(ctx context.Context) (*dto.DeliveryReport, error) {
	start := time.Now()
	report := &dto.DeliveryReport{Channel: entities.ChannelEmail}
	log := u.logger.With().Str("channel", string(entities.ChannelEmail)).Logger()

	if !u.EmailEnabled() {
		log.Debug().Msg("Email channel disabled, skipping cycle")
		report.Disabled = true
		return report, nil
	}

	subs, err := u.subscriptions.ListActive(ctx, entities.ChannelEmail)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list email subscriptions")
		return nil, err
	}

	due := u.schedule(log, report, subs)

	users, groups := mapfn.GroupBy(due, func(s entities.Subscription) uint { return s.UserID })
	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}
		u.deliverUserEmail(ctx, log, report, userID, groups[userID])
	}

	u.metrics.RecordDeliveryCycle(string(entities.ChannelEmail), time.Since(start).Seconds())
	return report, nil
}

func (u *UseCase) deliverUserEmail(ctx context.Context, log zerolog.Logger, report *dto.DeliveryReport, userID uint, subs []entities.Subscription) {
	log = log.With().Uint("user_id", userID).Logger()

	cfg, err := u.emailConfigs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrEmailConfigNotFound) {
			log.Warn().Int("subscriptions", len(subs)).Msg("User has email subscriptions but no email config")
		} else {
			log.Error().Err(err).Msg("Failed to load email config")
		}
		u.skipAll(report, subs, entities.ChannelEmail, err)
		return
	}

	if !cfg.IsActive {
		log.Debug().Msg("Email config is inactive")
		u.skipAll(report, subs, entities.ChannelEmail, nil)
		return
	}

	password, err := u.decrypter.Decrypt(cfg.SMTPPassword)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decrypt SMTP password")
		for _, sub := range subs {
			u.record(report, entities.ChannelEmail, dto.SubscriptionResult{
				SubscriptionID: sub.ID,
				UserID:         sub.UserID,
				Outcome:        dto.OutcomeFailed,
				Err:            err,
			})
		}
		return
	}

	account := dto.SMTPAccount{
		UserID:   cfg.UserID,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: password,
		UseTLS:   cfg.SMTPUseTLS,
	}

	fromName := ""
	if cfg.FromName != nil {
		fromName = *cfg.FromName
	}

	for _, sub := range subs {
		if ctx.Err() != nil {
			return
		}
		res := u.deliver(ctx, log, sub, entities.ChannelEmail, func(ctx context.Context, d composer.Digest) error {
			email, err := u.emailComposer.Compose(d)
			if err != nil {
				return err
			}
			return u.mailer.Send(ctx, account, dto.EmailMessage{
				FromAddress: cfg.FromEmail,
				FromName:    fromName,
				To:          cfg.FromEmail,
				Subject:     email.Subject,
				Text:        email.Text,
				HTML:        email.HTML,
			})
		})
		u.record(report, entities.ChannelEmail, res)
	}
}

// DeliverTelegram runs one Telegram delivery pass over every due subscription
func (u *UseCase) DeliverTelegram(ctx context.Context) (*dto.DeliveryReport, error) {
	start := time.Now()
	report := &dto.DeliveryReport{Channel: entities.ChannelTelegram}
	log := u.logger.With().Str("channel", string(entities.ChannelTelegram)).Logger()

	bot, err := u.BotCredentials(ctx)
	if err != nil {
		if errors.Is(err, domainerrors.ErrBotTokenMissing) {
			log.Debug().Msg("Telegram bot token not configured, skipping cycle")
			report.Disabled = true
			return report, nil
		}
		log.Error().Err(err).Msg("Failed to resolve Telegram credentials")
		return nil, err
	}

	subs, err := u.subscriptions.ListActive(ctx, entities.ChannelTelegram)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list Telegram subscriptions")
		return nil, err
	}

	recipients, err := u.users.ListTelegramRecipients(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list Telegram recipients")
		return nil, err
	}
	chats := make(map[uint]string, len(recipients))
	for _, user := range recipients {
		chats[user.ID] = strings.TrimSpace(*user.TelegramChatID)
	}

	due := u.schedule(log, report, subs)

	users, groups := mapfn.GroupBy(due, func(s entities.Subscription) uint { return s.UserID })
	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}

		chatID, ok := chats[userID]
		if !ok || chatID == "" {
			log.Debug().Uint("user_id", userID).Msg("User has no Telegram chat or is inactive")
			u.skipAll(report, groups[userID], entities.ChannelTelegram, nil)
			continue
		}

		userLog := log.With().Uint("user_id", userID).Str("chat_id", chatID).Logger()
		for _, sub := range groups[userID] {
			if ctx.Err() != nil {
				break
			}
			res := u.deliver(ctx, userLog, sub, entities.ChannelTelegram, func(ctx context.Context, d composer.Digest) error {
				return u.telegram.SendMessage(ctx, bot, chatID, u.telegramComposer.Compose(d))
			})
			u.record(report, entities.ChannelTelegram, res)
		}
	}

	u.metrics.RecordDeliveryCycle(string(entities.ChannelTelegram), time.Since(start).Seconds())
	return report, nil
}

// BotCredentials resolves the bot token and API base, preferring the
// environment over the settings table so tokens can be set at runtime.
func (u *UseCase) BotCredentials(ctx context.Context) (dto.BotCredentials, error) {
	creds := dto.BotCredentials{Token: u.botToken, APIBaseURL: u.apiBaseURL}

	if creds.Token == "" {
		token, err := u.settings.Get(ctx, entities.SettingTelegramBotToken)
		switch {
		case errors.Is(err, domainerrors.ErrSettingNotFound):
		case err != nil:
			return creds, err
		default:
			creds.Token = strings.TrimSpace(token)
		}
	}
	if creds.Token == "" {
		return creds, domainerrors.ErrBotTokenMissing
	}

	if creds.APIBaseURL == "" {
		base, err := u.settings.Get(ctx, entities.SettingTelegramAPIBaseURL)
		switch {
		case errors.Is(err, domainerrors.ErrSettingNotFound):
		case err != nil:
			return creds, err
		default:
			creds.APIBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
		}
	}
	if creds.APIBaseURL == "" {
		creds.APIBaseURL = DefaultTelegramAPIBaseURL
	}

	return creds, nil
}

// schedule records the not-due subscriptions and returns the due ones
func (u *UseCase) schedule(log zerolog.Logger, report *dto.DeliveryReport, subs []entities.Subscription) []entities.Subscription {
	due, notDue, next := splitDue(subs, u.now().Unix())
	report.NextDue = next

	for _, sub := range notDue {
		log.Debug().
			Uint("subscription_id", sub.ID).
			Str("frequency", sub.Frequency.String()).
			Int64("next_eligible", sub.NextEligible()).
			Msg("Not enough time elapsed since last send")
		u.record(report, report.Channel, dto.SubscriptionResult{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Outcome:        dto.OutcomeNotDue,
		})
	}

	return due
}

type sendFunc func(ctx context.Context, d composer.Digest) error

// deliver walks one subscription through collect, compose, send and
// watermark advance
func (u *UseCase) deliver(ctx context.Context, log zerolog.Logger, sub entities.Subscription, channel entities.Channel, send sendFunc) dto.SubscriptionResult {
	res := dto.SubscriptionResult{SubscriptionID: sub.ID, UserID: sub.UserID}
	log = log.With().Uint("subscription_id", sub.ID).Uint("feed_id", sub.FeedID).Logger()

	feed, items, err := u.collect(ctx, &sub)
	if err != nil {
		log.Error().Err(err).Msg("Failed to collect new items")
		res.Outcome = dto.OutcomeFailed
		res.Err = err
		return res
	}

	if len(items) == 0 {
		log.Debug().Msg("No new items")
		res.Outcome = dto.OutcomeNoItems
		return res
	}
	res.Items = len(items)

	now := u.now()
	digest := composer.Digest{
		Name:        composer.DigestName(sub.FriendlyName, feed),
		FeedURL:     feed.URL,
		Items:       items,
		GeneratedAt: now,
	}

	if err := send(ctx, digest); err != nil {
		log.Error().Err(err).
			Str("error_kind", pkgerrors.Kind(err)).
			Int("items", len(items)).
			Msg("Failed to send digest")
		res.Outcome = dto.OutcomeFailed
		res.Err = err
		return res
	}

	res.Outcome = dto.OutcomeSent
	log.Info().Int("items", len(items)).Msg("Digest sent")

	watermark := now.Unix()
	err = u.subscriptions.Update(ctx, sub.ID, &entities.PartialSubscription{
		LastSentTime:   &watermark,
		IfLastSentTime: &sub.LastSentTime,
	})
	switch {
	case errors.Is(err, domainerrors.ErrWatermarkMoved):
		log.Warn().Msg("Watermark advanced by another sender, keeping newer value")
	case err != nil:
		// the digest is out; the next eligible tick will send these items again
		log.Error().Err(err).Msg("Failed to advance watermark")
	}

	event := dto.DigestDeliveredEvent{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		FeedID:         sub.FeedID,
		Channel:        string(channel),
		Items:          len(items),
		Watermark:      watermark,
		Timestamp:      now.Unix(),
	}
	if err := u.producer.SendDigestDelivered(ctx, event); err != nil {
		log.Warn().Err(err).Msg("Failed to publish digest delivered event")
	}

	return res
}

// collect loads the feed and the items newer than the watermark
func (u *UseCase) collect(ctx context.Context, sub *entities.Subscription) (*feedentities.Feed, []feedentities.FeedItem, error) {
	feed, err := u.feeds.GetByID(ctx, sub.FeedID)
	if err != nil {
		return nil, nil, err
	}

	items, err := u.items.ItemsAfter(ctx, sub.FeedID, sub.LastSentTime, sub.MaxItems)
	if err != nil {
		return nil, nil, err
	}

	return feed, items, nil
}

func (u *UseCase) skipAll(report *dto.DeliveryReport, subs []entities.Subscription, channel entities.Channel, err error) {
	for _, sub := range subs {
		u.record(report, channel, dto.SubscriptionResult{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Outcome:        dto.OutcomeSkipped,
			Err:            err,
		})
	}
}

func (u *UseCase) record(report *dto.DeliveryReport, channel entities.Channel, res dto.SubscriptionResult) {
	report.Add(res)
	u.metrics.RecordDelivery(string(channel), string(res.Outcome))
}
