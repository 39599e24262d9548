package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/entities"
	domainerrors "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/errors"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) deps.SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

// ListActive returns active subscriptions whose delivery method includes channel
func (r *subscriptionRepository) ListActive(ctx context.Context, channel entities.Channel) ([]entities.Subscription, error) {
	methods := entities.MethodsFor(channel)
	if len(methods) == 0 {
		return nil, nil
	}

	values := make([]int64, len(methods))
	for i, m := range methods {
		values[i] = int64(m)
	}

	var subs []entities.Subscription
	result := r.db.WithContext(ctx).
		Where("is_active = ? AND delivery_method IN ?", true, values).
		Order("id ASC").
		Find(&subs)

	if result.Error != nil {
		return nil, dbError(result.Error)
	}
	return subs, nil
}

// ListForUser returns all subscriptions of a user
func (r *subscriptionRepository) ListForUser(ctx context.Context, userID uint) ([]entities.Subscription, error) {
	var subs []entities.Subscription
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&subs)

	if result.Error != nil {
		return nil, dbError(result.Error)
	}
	return subs, nil
}

// Update writes the set fields of partial, guarded by IfLastSentTime when present
func (r *subscriptionRepository) Update(ctx context.Context, id uint, partial *entities.PartialSubscription) error {
	cols := partial.Columns()
	if len(cols) == 0 {
		return nil
	}

	query := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("id = ?", id)
	if partial.IfLastSentTime != nil {
		query = query.Where("last_sent_time = ?", *partial.IfLastSentTime)
	}

	result := query.Updates(cols)
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if partial.IfLastSentTime == nil {
		return domainerrors.ErrSubscriptionNotFound
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Subscription{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return dbError(err)
	}
	if count == 0 {
		return domainerrors.ErrSubscriptionNotFound
	}
	return domainerrors.ErrWatermarkMoved
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) deps.UserRepository {
	return &userRepository{
		db: db,
	}
}

// GetByID retrieves user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	result := r.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, dbError(result.Error)
	}
	return &user, nil
}

// ListTelegramRecipients returns active users with a non-empty chat id
func (r *userRepository) ListTelegramRecipients(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	result := r.db.WithContext(ctx).
		Where("is_active = ? AND telegram_chat_id IS NOT NULL AND telegram_chat_id <> ''", true).
		Order("id ASC").
		Find(&users)

	if result.Error != nil {
		return nil, dbError(result.Error)
	}
	return users, nil
}

type emailConfigRepository struct {
	db *gorm.DB
}

// NewEmailConfigRepository creates a new email config repository
func NewEmailConfigRepository(db *gorm.DB) deps.EmailConfigRepository {
	return &emailConfigRepository{
		db: db,
	}
}

// GetByUserID retrieves the SMTP account of a user
func (r *emailConfigRepository) GetByUserID(ctx context.Context, userID uint) (*entities.EmailConfig, error) {
	var cfg entities.EmailConfig
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cfg)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrEmailConfigNotFound
		}
		return nil, dbError(result.Error)
	}
	return &cfg, nil
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) deps.SettingsRepository {
	return &settingsRepository{
		db: db,
	}
}

// Get returns the newest global value stored under key
func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	var setting entities.Setting
	result := r.db.WithContext(ctx).
		Where("user_id IS NULL AND key = ?", key).
		Order("id DESC").
		First(&setting)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrSettingNotFound
		}
		return "", dbError(result.Error)
	}
	return setting.Value, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", domainerrors.ErrDatabaseOperation, err)
}
