package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

// Register creates a pending user and sends the verification email.
// Mail delivery failures are logged and do not fail the registration.
func (s *Service) Register(ctx context.Context, email, username, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	// Fast path for a friendly error; the store's unique constraints are the real guard.
	if err := s.ensureUnused(ctx, email, username); err != nil {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	token, pin, err := s.newVerification(username)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.createWithFreshID(ctx, domain.User{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		Role:              domain.RoleStandard,
		IsActive:          false,
		VerificationToken: token,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.sendVerification(ctx, created, token, pin)
	return created, nil
}

// ResendVerification replaces the stored verification token and mails a new link and PIN.
func (s *Service) ResendVerification(ctx context.Context, username string) error {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u.IsActive {
		return domain.ErrAlreadyActivated()
	}

	token, pin, err := s.newVerification(u.Username)
	if err != nil {
		return err
	}
	if err := s.users.SetVerificationToken(ctx, u.ID, token); err != nil {
		return err
	}

	s.sendVerification(ctx, u, token, pin)
	return nil
}

func (s *Service) ensureUnused(ctx context.Context, email, username string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailAlreadyExists()
	case !domain.Is(err, "user_not_found"):
		return err
	}

	_, err = s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.ErrUsernameAlreadyExists()
	case !domain.Is(err, "user_not_found"):
		return err
	}
	return nil
}

// createWithFreshID picks an id not present in the store and inserts u.
// A primary-key collision at insert time (a concurrent writer took the id)
// is retried with a new id.
func (s *Service) createWithFreshID(ctx context.Context, u domain.User) (domain.User, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		_, err := s.users.GetByID(ctx, id)
		if err == nil {
			continue
		}
		if !domain.Is(err, "user_not_found") {
			return domain.User{}, err
		}

		u.ID = id
		created, err := s.users.Create(ctx, u)
		if domain.Is(err, "id_already_exists") {
			continue
		}
		if err != nil {
			return domain.User{}, err
		}
		return created, nil
	}
	return domain.User{}, domain.ErrIDAlreadyExists()
}

func (s *Service) newVerification(username string) (token, pin string, err error) {
	pin, err = s.newPIN()
	if err != nil {
		return "", "", domain.ErrRandomFailed(err)
	}
	token, err = s.tokens.Create(domain.Subject{
		domain.ClaimUsername: username,
		domain.ClaimPIN:      pin,
	}, domain.PurposeVerification)
	if err != nil {
		return "", "", err
	}
	return token, pin, nil
}

func (s *Service) sendVerification(ctx context.Context, u domain.User, token, pin string) {
	err := s.mailer.SendVerification(ctx, VerificationEmail{
		To:       u.Email,
		Username: u.Username,
		Link:     s.verifyLinkBaseURL + token,
		PIN:      pin,
	})
	if err != nil {
		logger.WithCtx(ctx).Warn().
			Err(err).
			Str("user_id", u.ID).
			Msg("verification email not sent")
		return
	}
	logger.WithCtx(ctx).Info().
		Str("user_id", u.ID).
		Msg("verification email sent")
}
