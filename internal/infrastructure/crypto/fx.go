package crypto

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
)

// Module provides the password cipher for fx DI
var Module = fx.Module("crypto",
	fx.Provide(NewCipherFx),
)

// NewCipherFx builds the cipher from EMAIL_ENCRYPTION_KEY.
// It returns nil when no key is configured; the email channel is then disabled.
func NewCipherFx(cfg *config.EmailConfig, logger zerolog.Logger) (*Cipher, error) {
	if !cfg.EmailEnabled() {
		logger.Warn().Msg("EMAIL_ENCRYPTION_KEY not set, email delivery disabled")
		return nil, nil
	}
	return NewCipher(cfg.EncryptionKey)
}
