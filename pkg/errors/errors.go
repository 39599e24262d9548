package errors

import (
	"errors"
)

// Error types for domain errors
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

type DatabaseError struct {
	Message string
}

func (e *DatabaseError) Error() string {
	return e.Message
}

type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// NetworkError is a transport level failure: DNS, connect, TLS, timeout
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ProtocolError is a well-formed exchange with an unacceptable answer:
// non-2xx status, unparseable body, API level rejection
type ProtocolError struct {
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// DeliveryError is a failed hand-off to an outbound channel
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return e.Channel + " delivery failed"
	}
	return e.Channel + " delivery failed: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Constructors
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Message: msg}
}

func NewConflictError(msg string) error {
	return &ConflictError{Message: msg}
}

func NewDatabaseError(msg string) error {
	return &DatabaseError{Message: msg}
}

func NewConfigError(msg string) error {
	return &ConfigError{Message: msg}
}

func NewNetworkError(msg string, err error) error {
	return &NetworkError{Message: msg, Err: err}
}

func NewProtocolError(msg string, err error) error {
	return &ProtocolError{Message: msg, Err: err}
}

func NewDeliveryError(channel string, err error) error {
	return &DeliveryError{Channel: channel, Err: err}
}

// Type checks
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsDatabaseError(err error) bool {
	var e *DatabaseError
	return errors.As(err, &e)
}

func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

func IsProtocolError(err error) bool {
	var e *ProtocolError
	return errors.As(err, &e)
}

func IsDeliveryError(err error) bool {
	var e *DeliveryError
	return errors.As(err, &e)
}

// Kind returns a short label for err, used as a metric label value.
// The most specific kind wins: a delivery error caused by a network
// failure reports "network".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNetworkError(err):
		return "network"
	case IsProtocolError(err):
		return "protocol"
	case IsValidationError(err):
		return "validation"
	case IsNotFoundError(err):
		return "not_found"
	case IsConflictError(err):
		return "conflict"
	case IsDatabaseError(err):
		return "database"
	case IsConfigError(err):
		return "config"
	case IsDeliveryError(err):
		return "delivery"
	default:
		return "unknown"
	}
}
