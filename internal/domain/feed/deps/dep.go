package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/dto"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
)

// FeedRepository defines the interface for feed data access
type FeedRepository interface {
	// GetByID retrieves feed by ID
	GetByID(ctx context.Context, id uint) (*entities.Feed, error)

	// GetByURL retrieves feed by its URL
	GetByURL(ctx context.Context, url string) (*entities.Feed, error)

	// ListActive returns every feed that should be polled
	ListActive(ctx context.Context) ([]entities.Feed, error)

	// Update writes only the fields set in partial
	Update(ctx context.Context, id uint, partial *entities.PartialFeed) error
}

// ItemRepository defines the interface for feed item data access
type ItemRepository interface {
	// Exists checks whether an item with this identity is stored
	Exists(ctx context.Context, feedID uint, link string, pubDate int64) (bool, error)

	// InsertIfAbsent stores items whose identity is not yet present and
	// returns how many rows were inserted
	InsertIfAbsent(ctx context.Context, items []entities.FeedItem) (int, error)

	// ItemsAfter returns items of a feed with pub_date > after, newest first.
	// limit <= 0 means no limit.
	ItemsAfter(ctx context.Context, feedID uint, after int64, limit int) ([]entities.FeedItem, error)
}

// Fetcher performs the HTTP GET of a feed document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*dto.FetchResult, error)
}

// EventProducer publishes ingestion events
type EventProducer interface {
	// SendItemsIngested announces newly stored items of a feed
	SendItemsIngested(ctx context.Context, event dto.ItemsIngestedEvent) error
}

// Metrics records poller observations
type Metrics interface {
	RecordFeedPoll(outcome string, duration float64)
	RecordItemsIngested(count int)
	RecordPollCycle(feeds, failed int, duration float64)
}
