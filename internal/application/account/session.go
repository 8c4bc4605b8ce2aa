package account

import (
	"context"
	"strings"
	"time"

	"github.com/baechuer/account-service/internal/domain"
)

// Login authenticates a user and issues an access/refresh pair.
// IMPORTANT: must not leak whether the username exists.
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return TokenPair{}, domain.ErrInvalidCredentials()
		}
		return TokenPair{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	return s.issuePair(u.Claims())
}

// Refresh mints a new pair from the claims inside a valid refresh token.
// Claims are not re-read from the store.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	subject, ok := s.tokens.Decode(refreshToken, domain.PurposeRefresh)
	if !ok {
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}
	claims := domain.ClaimsFromSubject(subject)
	if claims.Username == "" {
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}
	return s.issuePair(claims)
}

// Authenticate decodes an access token into the caller's claims.
func (s *Service) Authenticate(token string) (domain.Claims, error) {
	subject, ok := s.tokens.Decode(token, domain.PurposeAccess)
	if !ok {
		return domain.Claims{}, domain.ErrTokenInvalid()
	}
	claims := domain.ClaimsFromSubject(subject)
	if claims.Username == "" {
		return domain.Claims{}, domain.ErrTokenInvalid()
	}
	return claims, nil
}

func (s *Service) issuePair(c domain.Claims) (TokenPair, error) {
	access, err := s.tokens.Create(c.Subject(), domain.PurposeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.Create(c.Subject(), domain.PurposeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// TokenTTL is the lifetime of tokens minted for purpose; cookies use it as Max-Age.
func (s *Service) TokenTTL(purpose domain.TokenPurpose) time.Duration {
	return s.tokens.TTL(purpose)
}
