package account

import (
	"context"

	"github.com/baechuer/account-service/internal/domain"
)

// Me returns the stored record for the authenticated username.
func (s *Service) Me(ctx context.Context, username string) (domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *Service) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers pages over users. limit <= 0 means the default page size;
// larger values are capped.
func (s *Service) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if skip < 0 {
		return nil, domain.ErrInvalidField("skip", "must be >= 0")
	}
	return s.users.List(ctx, skip, PageLimit(limit))
}

// PageLimit is the page size ListUsers actually uses for a requested limit.
func PageLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// ListAllUsers returns every user, paging through the store.
func (s *Service) ListAllUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for skip := 0; ; skip += maxListLimit {
		page, err := s.users.List(ctx, skip, maxListLimit)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < maxListLimit {
			return out, nil
		}
	}
}
