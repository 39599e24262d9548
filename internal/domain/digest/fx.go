package digest

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/repository/postgres"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/usecase/business"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/workers"
	feeddeps "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/crypto"
)

// Module provides digest domain components for fx DI
var Module = fx.Module("digest",
	fx.Provide(
		postgres.NewSubscriptionRepository,
		postgres.NewUserRepository,
		postgres.NewEmailConfigRepository,
		postgres.NewSettingsRepository,
		provideFeedReader,
		provideItemReader,
		provideDecrypter,
		business.NewUseCase,
	),
	workers.Module,
)

func provideFeedReader(repo feeddeps.FeedRepository) deps.FeedReader {
	return repo
}

func provideItemReader(repo feeddeps.ItemRepository) deps.ItemReader {
	return repo
}

// provideDecrypter returns a nil interface when no key is configured so
// the use case sees email as disabled
func provideDecrypter(c *crypto.Cipher) deps.PasswordDecrypter {
	if c == nil {
		return nil
	}
	return c
}
