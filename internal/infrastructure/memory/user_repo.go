package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/baechuer/account-service/internal/domain"
)

// UserRepo is an in-process user store with the same uniqueness rules as
// the Postgres table. Used for local development and tests.
type UserRepo struct {
	mu         sync.RWMutex
	byID       map[string]domain.User
	byEmail    map[string]string // email -> userID
	byUsername map[string]string // username -> userID
	order      []string          // insertion order, for List
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:       make(map[string]domain.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) lookup(index map[string]string, key string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.lookup(r.byEmail, normalizeEmail(email))
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.lookup(r.byUsername, strings.TrimSpace(username))
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Role == "" {
		u.Role = domain.RoleStandard
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[u.ID]; exists {
		return domain.User{}, domain.ErrIDAlreadyExists()
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	if _, exists := r.byUsername[u.Username]; exists {
		return domain.User{}, domain.ErrUsernameAlreadyExists()
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.byUsername[u.Username] = u.ID
	r.order = append(r.order, u.ID)
	return u, nil
}

func (r *UserRepo) update(userID string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	fn(&u)
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) SetVerificationToken(ctx context.Context, userID string, token string) error {
	return r.update(userID, func(u *domain.User) { u.VerificationToken = token })
}

func (r *UserRepo) Activate(ctx context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) { u.IsActive = true })
}

func (r *UserRepo) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	if skip >= len(r.order) || limit <= 0 {
		return []domain.User{}, nil
	}
	end := skip + limit
	if end > len(r.order) {
		end = len(r.order)
	}

	out := make([]domain.User, 0, end-skip)
	for _, id := range r.order[skip:end] {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *UserRepo) Ping(ctx context.Context) error { return nil }
