package business

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/dto"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

// UseCase implements feed polling and item ingestion
type UseCase struct {
	feedRepo    deps.FeedRepository
	itemRepo    deps.ItemRepository
	fetcher     deps.Fetcher
	producer    deps.EventProducer
	metrics     deps.Metrics
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewUseCase creates a new feed use case
func NewUseCase(
	feedRepo deps.FeedRepository,
	itemRepo deps.ItemRepository,
	fetcher deps.Fetcher,
	producer deps.EventProducer,
	metrics deps.Metrics,
	cfg *config.Config,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		feedRepo:    feedRepo,
		itemRepo:    itemRepo,
		fetcher:     fetcher,
		producer:    producer,
		metrics:     metrics,
		concurrency: cfg.PollConcurrency(),
		now:         time.Now,
		logger:      logger.With().Str("component", "feed_poller").Logger(),
	}
}

// PollFeeds polls every active feed once. Feeds are spread over a bounded
// pool; each feed is handled by exactly one goroutine, so writes to a
// feed's metadata never race. Per-feed failures are reported, not returned.
func (u *UseCase) PollFeeds(ctx context.Context) (*dto.PollReport, error) {
	start := time.Now()

	feeds, err := u.feedRepo.ListActive(ctx)
	if err != nil {
		u.logger.Error().Err(err).Msg("Failed to list feeds")
		return nil, err
	}

	results := make([]dto.FeedPollResult, len(feeds))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i := range feeds {
		feed := feeds[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = dto.FeedPollResult{FeedID: feed.ID, URL: feed.URL, Outcome: dto.PollOutcomeCancelled, Err: ctx.Err()}
				return nil
			}
			results[i] = u.PollFeed(ctx, &feed)
			return nil
		})
	}
	_ = g.Wait()

	report := &dto.PollReport{Feeds: len(feeds), Results: results}
	for _, r := range results {
		report.ItemsInserted += r.Inserted
		if r.Outcome != dto.PollOutcomeUpdated {
			report.Failed++
		}
	}

	u.metrics.RecordPollCycle(report.Feeds, report.Failed, time.Since(start).Seconds())

	return report, nil
}

// PollFeed fetches one feed, records its health and ingests new entries
func (u *UseCase) PollFeed(ctx context.Context, feed *entities.Feed) dto.FeedPollResult {
	start := time.Now()
	result := u.pollFeed(ctx, feed)
	u.metrics.RecordFeedPoll(string(result.Outcome), time.Since(start).Seconds())
	return result
}

func (u *UseCase) pollFeed(ctx context.Context, feed *entities.Feed) dto.FeedPollResult {
	result := dto.FeedPollResult{FeedID: feed.ID, URL: feed.URL}
	now := u.now().Unix()
	log := u.logger.With().Uint("feed_id", feed.ID).Str("url", feed.URL).Logger()

	res, err := u.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		log.Warn().Err(err).Str("error_kind", pkgerrors.Kind(err)).Msg("Failed to fetch feed")
		result.Outcome = dto.PollOutcomeFetchError
		result.Err = err
		u.recordFailure(ctx, log, feed, now, err.Error())
		return result
	}

	if !res.IsSuccess() {
		log.Warn().Str("status", res.Status).Msg("Feed returned non-success status")
		result.Outcome = dto.PollOutcomeHTTPError
		u.recordFailure(ctx, log, feed, now, res.Status)
		return result
	}

	inserted, outcome, err := u.Ingest(ctx, feed, res.Body, now)
	result.Inserted = inserted
	result.Outcome = outcome
	result.Err = err
	return result
}

// recordFailure stores the error fields; parsed metadata stays untouched
func (u *UseCase) recordFailure(ctx context.Context, log zerolog.Logger, feed *entities.Feed, now int64, message string) {
	partial := &entities.PartialFeed{
		LastChecked:  entities.Ptr(now),
		ErrorTime:    entities.Ptr(now),
		ErrorMessage: entities.Ptr(message),
	}
	if err := u.feedRepo.Update(ctx, feed.ID, partial); err != nil {
		log.Error().Err(err).Msg("Failed to record feed error")
		return
	}
	partial.Apply(feed)
}

// Ingest handles a successful response body: it clears the error state,
// merges parsed metadata and inserts entries not yet stored. A body that
// does not parse still counts as a successful check.
func (u *UseCase) Ingest(ctx context.Context, feed *entities.Feed, body []byte, now int64) (int, dto.PollOutcome, error) {
	log := u.logger.With().Uint("feed_id", feed.ID).Str("url", feed.URL).Logger()

	status := &entities.PartialFeed{
		LastChecked:  entities.Ptr(now),
		ErrorTime:    entities.Ptr(int64(0)),
		ErrorMessage: entities.Ptr(""),
	}

	parsed, parseErr := ParseFeed(body)
	update := status
	if parseErr == nil {
		update = status.Merge(MergeFeed(feed, parsed))
	}

	if err := u.feedRepo.Update(ctx, feed.ID, update); err != nil {
		log.Error().Err(err).Msg("Failed to update feed")
		return 0, dto.PollOutcomeStoreError, err
	}
	update.Apply(feed)

	if parseErr != nil {
		log.Warn().Err(parseErr).Int("body_size", len(body)).Msg("Failed to parse feed, skipping entries")
		return 0, dto.PollOutcomeParseError, parseErr
	}

	fallbackTitle := feed.Title
	if fallbackTitle == "" {
		fallbackTitle = parsed.Title
	}

	items, skipped := ExtractItems(feed.ID, fallbackTitle, parsed)
	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("Skipped entries without a link")
	}

	inserted, err := u.itemRepo.InsertIfAbsent(ctx, items)
	if err != nil {
		log.Error().Err(err).Int("candidates", len(items)).Msg("Failed to insert feed items")
		return 0, dto.PollOutcomeStoreError, err
	}

	u.metrics.RecordItemsIngested(inserted)

	if inserted == 0 {
		log.Debug().Int("candidates", len(items)).Msg("No new feed items")
		return 0, dto.PollOutcomeUpdated, nil
	}

	log.Info().
		Int("inserted", inserted).
		Int("candidates", len(items)).
		Msg("Ingested new feed items")

	event := dto.ItemsIngestedEvent{
		FeedID:    feed.ID,
		FeedURL:   feed.URL,
		FeedTitle: feed.Title,
		Inserted:  inserted,
		Timestamp: now,
	}
	if err := u.producer.SendItemsIngested(ctx, event); err != nil {
		log.Warn().Err(err).Msg("Failed to publish items ingested event")
	}

	return inserted, dto.PollOutcomeUpdated, nil
}
