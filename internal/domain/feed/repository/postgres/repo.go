package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
	domainerrors "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/errors"
)

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *gorm.DB) deps.FeedRepository {
	return &feedRepository{
		db: db,
	}
}

// GetByID retrieves feed by ID
func (r *feedRepository) GetByID(ctx context.Context, id uint) (*entities.Feed, error) {
	if id == 0 {
		return nil, domainerrors.ErrInvalidFeedID
	}

	var feed entities.Feed
	result := r.db.WithContext(ctx).First(&feed, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrFeedNotFound
		}
		return nil, dbError(result.Error)
	}
	return &feed, nil
}

// GetByURL retrieves feed by its URL
func (r *feedRepository) GetByURL(ctx context.Context, url string) (*entities.Feed, error) {
	var feed entities.Feed
	result := r.db.WithContext(ctx).
		Where("url = ?", url).
		First(&feed)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrFeedNotFound
		}
		return nil, dbError(result.Error)
	}
	return &feed, nil
}

// ListActive returns every stored feed; feeds carry no activity flag
func (r *feedRepository) ListActive(ctx context.Context) ([]entities.Feed, error) {
	var feeds []entities.Feed
	result := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&feeds)

	if result.Error != nil {
		return nil, dbError(result.Error)
	}
	return feeds, nil
}

// Update writes only the fields set in partial
func (r *feedRepository) Update(ctx context.Context, id uint, partial *entities.PartialFeed) error {
	if partial.IsEmpty() {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Feed{}).
		Where("id = ?", id).
		Updates(partial.Columns())

	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrFeedNotFound
	}
	return nil
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new feed item repository
func NewItemRepository(db *gorm.DB) deps.ItemRepository {
	return &itemRepository{
		db: db,
	}
}

// Exists checks whether an item with this identity is stored
func (r *itemRepository) Exists(ctx context.Context, feedID uint, link string, pubDate int64) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entities.FeedItem{}).
		Where("feed_id = ? AND link = ? AND pub_date = ?", feedID, link, pubDate).
		Count(&count)

	if result.Error != nil {
		return false, dbError(result.Error)
	}

	return count > 0, nil
}

// InsertIfAbsent inserts each item with ON CONFLICT DO NOTHING on the
// (feed_id, link, pub_date) unique index. Rows are written one by one inside
// a transaction so RowsAffected is exact and returned IDs never shift
// onto skipped rows.
func (r *itemRepository) InsertIfAbsent(ctx context.Context, items []entities.FeedItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	for _, item := range items {
		if item.FeedID == 0 || item.Link == "" {
			return 0, domainerrors.ErrInvalidItem
		}
	}

	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			row := item
			row.ID = 0

			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "feed_id"}, {Name: "link"}, {Name: "pub_date"}},
				DoNothing: true,
			}).Create(&row)
			if result.Error != nil {
				return result.Error
			}
			inserted += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, dbError(err)
	}

	return inserted, nil
}

// ItemsAfter returns items of a feed with pub_date > after, newest first
func (r *itemRepository) ItemsAfter(ctx context.Context, feedID uint, after int64, limit int) ([]entities.FeedItem, error) {
	var items []entities.FeedItem
	query := r.db.WithContext(ctx).
		Where("feed_id = ? AND pub_date > ?", feedID, after).
		Order("pub_date DESC").
		Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&items)
	if result.Error != nil {
		return nil, dbError(result.Error)
	}

	return items, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", domainerrors.ErrDatabaseOperation, err)
}
