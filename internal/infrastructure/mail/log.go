package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/account-service/internal/application/account"
)

// LogMailer writes verification emails to the log instead of sending them.
// Development only: the log line carries the link and PIN.
type LogMailer struct {
	lg zerolog.Logger
}

func NewLogMailer(lg zerolog.Logger) *LogMailer {
	return &LogMailer{lg: lg.With().Str("component", "log_mailer").Logger()}
}

func (l *LogMailer) SendVerification(ctx context.Context, msg account.VerificationEmail) error {
	l.lg.Info().
		Str("to", msg.To).
		Str("username", msg.Username).
		Str("link", msg.Link).
		Str("pin", msg.PIN).
		Msg("verification email (not sent)")
	return nil
}
