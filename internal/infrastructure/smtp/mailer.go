package smtp

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

const channelEmail = "email"

// Mailer sends digests through the user's own SMTP server
type Mailer struct {
	pool   *Pool
	now    func() time.Time
	logger zerolog.Logger
}

// NewMailer creates a new mailer on top of pool
func NewMailer(pool *Pool, logger zerolog.Logger) *Mailer {
	return &Mailer{
		pool:   pool,
		now:    time.Now,
		logger: logger,
	}
}

// Send encodes msg and submits it. Any failure evicts the user's cached
// connection so the next attempt dials again.
func (m *Mailer) Send(ctx context.Context, account dto.SMTPAccount, msg dto.EmailMessage) error {
	raw, err := BuildMessage(msg, m.now())
	if err != nil {
		return pkgerrors.NewDeliveryError(channelEmail, err)
	}

	if err := ctx.Err(); err != nil {
		return pkgerrors.NewDeliveryError(channelEmail, err)
	}

	conn, err := m.pool.Get(ctx, account)
	if err != nil {
		m.logger.Warn().Err(err).
			Uint("user_id", account.UserID).
			Str("host", account.Host).
			Int("port", account.Port).
			Msg("Failed to open SMTP connection")
		return pkgerrors.NewDeliveryError(channelEmail, pkgerrors.NewNetworkError("smtp connect failed", err))
	}

	if err := conn.SendMail(msg.FromAddress, []string{msg.To}, bytes.NewReader(raw)); err != nil {
		m.pool.Evict(account.UserID)
		m.logger.Warn().Err(err).
			Uint("user_id", account.UserID).
			Str("host", account.Host).
			Msg("Failed to submit email")
		return pkgerrors.NewDeliveryError(channelEmail, err)
	}

	m.logger.Debug().
		Uint("user_id", account.UserID).
		Str("to", msg.To).
		Int("size", len(raw)).
		Msg("Email submitted")

	return nil
}
