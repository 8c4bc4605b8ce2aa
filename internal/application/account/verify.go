package account

import (
	"context"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// ActivateByLink activates the user named in a verification token and
// returns the activated username.
func (s *Service) ActivateByLink(ctx context.Context, token string) (string, error) {
	subject, ok := s.tokens.Decode(strings.TrimSpace(token), domain.PurposeVerification)
	if !ok {
		return "", domain.ErrTokenInvalid()
	}

	u, err := s.users.GetByUsername(ctx, subject.String(domain.ClaimUsername))
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return "", domain.ErrTokenInvalid()
		}
		return "", err
	}
	if u.IsActive {
		return "", domain.ErrAlreadyActivated()
	}

	if err := s.users.Activate(ctx, u.ID); err != nil {
		return "", err
	}
	return u.Username, nil
}

// ActivateByPIN checks pin against the verification token stored on the
// user record (not a token supplied by the caller) and activates the user.
func (s *Service) ActivateByPIN(ctx context.Context, username, pin string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u.IsActive {
		return "", domain.ErrAlreadyActivated()
	}

	subject, ok := s.tokens.Decode(u.VerificationToken, domain.PurposeVerification)
	if !ok {
		return "", domain.ErrPinExpired()
	}
	if pin == "" || pin != subject.String(domain.ClaimPIN) {
		return "", domain.ErrPinMismatch()
	}

	if err := s.users.Activate(ctx, u.ID); err != nil {
		return "", err
	}
	return u.Username, nil
}
