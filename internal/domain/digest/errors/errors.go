package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

var (
	// ErrSubscriptionNotFound is returned when subscription is not found
	ErrSubscriptionNotFound = pkgerrors.NewNotFoundError("subscription not found")

	// ErrWatermarkMoved is returned when a guarded watermark update lost the race
	ErrWatermarkMoved = pkgerrors.NewConflictError("subscription watermark changed concurrently")

	// ErrUserNotFound is returned when user is not found
	ErrUserNotFound = pkgerrors.NewNotFoundError("user not found")

	// ErrEmailConfigNotFound is returned when a user has no SMTP account
	ErrEmailConfigNotFound = pkgerrors.NewNotFoundError("email config not found")

	// ErrSettingNotFound is returned when a setting key is absent
	ErrSettingNotFound = pkgerrors.NewNotFoundError("setting not found")

	// ErrBotTokenMissing is returned when no Telegram bot token is configured
	ErrBotTokenMissing = pkgerrors.NewConfigError("telegram bot token is not configured")

	// ErrEmailDisabled is returned when no password encryption key is configured
	ErrEmailDisabled = pkgerrors.NewConfigError("email encryption key is not configured")

	// ErrDatabaseOperation is returned when database operation fails
	ErrDatabaseOperation = pkgerrors.NewDatabaseError("database operation failed")
)
