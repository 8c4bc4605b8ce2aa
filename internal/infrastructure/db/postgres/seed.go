package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedAccount describes an account created at startup.
type SeedAccount struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// SeedUsers creates each account that does not exist yet. Seeded accounts are
// active. Restart safe: existing usernames and create conflicts are skipped.
// Returns the number of accounts created.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher, seeds []SeedAccount) int {
	created := 0
	for _, s := range seeds {
		if s.Username == "" || s.Email == "" || s.Password == "" {
			continue
		}
		if _, err := repo.GetByUsername(ctx, s.Username); err == nil {
			continue
		}

		hash, err := hasher.Hash(s.Password)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("username", s.Username).Msg("seed: hash failed")
			continue
		}

		role := s.Role
		if role == "" {
			role = domain.RoleStandard
		}

		_, err = repo.Create(ctx, domain.User{
			ID:           uuid.NewString(),
			Username:     s.Username,
			Email:        s.Email,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Str("username", s.Username).Msg("seed: create skipped")
			continue
		}
		created++
	}

	if created > 0 {
		logger.Logger.Info().Int("count", created).Msg("seed: users created")
	}
	return created
}
