package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/baechuer/account-service/internal/application/account"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	// SSL dials implicit TLS (port 465). Otherwise STARTTLS is used,
	// mandatory unless Insecure is set.
	SSL      bool
	Insecure bool
}

// SMTPMailer delivers verification emails directly over SMTP.
type SMTPMailer struct {
	lg  zerolog.Logger
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig, lg zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		lg:  lg.With().Str("component", "smtp_mailer").Logger(),
		cfg: cfg,
	}
}

func (s *SMTPMailer) SendVerification(ctx context.Context, msg account.VerificationEmail) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	c, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client init: %w", err)
	}

	s.lg.Debug().Str("host", s.cfg.Host).Int("port", s.cfg.Port).Str("to", msg.To).Msg("attempting smtp send")
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.lg.Info().Str("to", msg.To).Msg("smtp send ok")
	return nil
}

func (s *SMTPMailer) buildMessage(msg account.VerificationEmail) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	m.Subject(verificationSubject)

	// Text fallback + HTML alternative
	m.SetBodyString(gomail.TypeTextPlain, renderVerificationText(msg))
	m.AddAlternativeString(gomail.TypeTextHTML, renderVerificationHTML(msg))
	return m, nil
}

func (s *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{gomail.WithPort(s.cfg.Port)}
	if s.cfg.SSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		tlsPolicy := gomail.TLSMandatory
		if s.cfg.Insecure {
			tlsPolicy = gomail.TLSOpportunistic
		}
		opts = append(opts, gomail.WithTLSPolicy(tlsPolicy))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}
