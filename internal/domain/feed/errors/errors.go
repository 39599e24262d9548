package errors

import (
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

var (
	// ErrFeedNotFound is returned when feed is not found
	ErrFeedNotFound = pkgerrors.NewNotFoundError("feed not found")

	// ErrInvalidFeedID is returned when feed ID is zero
	ErrInvalidFeedID = pkgerrors.NewValidationError("invalid feed ID")

	// ErrInvalidItem is returned when an item lacks its identity fields
	ErrInvalidItem = pkgerrors.NewValidationError("feed item requires feed ID and link")

	// ErrDatabaseOperation is returned when database operation fails
	ErrDatabaseOperation = pkgerrors.NewDatabaseError("database operation failed")
)
