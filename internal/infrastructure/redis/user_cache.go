package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/logger"
)

// CachedUserRepo decorates an account.UserRepo with a Redis read-through
// cache of user rows keyed by id and by username.
//   - Read path: Redis -> inner -> Redis set (best effort)
//   - Write path: inner -> re-read -> Redis set, or DEL when the re-read fails
//
// Redis failures never fail a request; the inner repo stays the source of truth.
type CachedUserRepo struct {
	inner   account.UserRepo
	rdb     *goredis.Client
	ttl     time.Duration
	keyPref string
}

func NewCachedUserRepo(inner account.UserRepo, client *Client, ttl time.Duration) *CachedUserRepo {
	var rdb *goredis.Client
	if client != nil {
		rdb = client.rdb
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedUserRepo{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		keyPref: UserCachePrefix,
	}
}

type cachedUser struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	PasswordHash      string `json:"hashed_password"`
	Role              string `json:"role"`
	IsActive          bool   `json:"is_active"`
	VerificationToken string `json:"verification_token,omitempty"`
}

func toCached(u domain.User) cachedUser {
	return cachedUser{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              string(u.Role),
		IsActive:          u.IsActive,
		VerificationToken: u.VerificationToken,
	}
}

func (c cachedUser) toDomain() domain.User {
	return domain.User{
		ID:                c.ID,
		Username:          c.Username,
		Email:             c.Email,
		PasswordHash:      c.PasswordHash,
		Role:              domain.ParseRole(c.Role),
		IsActive:          c.IsActive,
		VerificationToken: c.VerificationToken,
	}
}

func (c *CachedUserRepo) idKey(id string) string         { return c.keyPref + "id:" + id }
func (c *CachedUserRepo) usernameKey(name string) string { return c.keyPref + "username:" + name }

func (c *CachedUserRepo) get(ctx context.Context, key string) (domain.User, bool) {
	if c.rdb == nil {
		return domain.User{}, false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.WithCtx(ctx).Debug().Err(err).Str("key", key).Msg("user cache get failed")
		}
		return domain.User{}, false
	}
	var cu cachedUser
	if err := json.Unmarshal(b, &cu); err != nil {
		return domain.User{}, false
	}
	return cu.toDomain(), true
}

func (c *CachedUserRepo) set(ctx context.Context, u domain.User) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(toCached(u))
	if err != nil {
		return
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, c.idKey(u.ID), b, c.ttl)
	pipe.Set(ctx, c.usernameKey(u.Username), b, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.WithCtx(ctx).Debug().Err(err).Str("user_id", u.ID).Msg("user cache set failed")
	}
}

func (c *CachedUserRepo) evict(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	keys := []string{c.idKey(userID)}
	if u, ok := c.get(ctx, c.idKey(userID)); ok {
		keys = append(keys, c.usernameKey(u.Username))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("user_id", userID).Msg("user cache invalidate failed")
	}
}

// refresh rewrites the cache entries for userID after a write.
func (c *CachedUserRepo) refresh(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	u, err := c.inner.GetByID(ctx, userID)
	if err != nil {
		c.evict(ctx, userID)
		return
	}
	c.set(ctx, u)
}

func (c *CachedUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	if u, ok := c.get(ctx, c.idKey(id)); ok {
		return u, nil
	}
	u, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	c.set(ctx, u)
	return u, nil
}

func (c *CachedUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	if u, ok := c.get(ctx, c.usernameKey(username)); ok {
		return u, nil
	}
	u, err := c.inner.GetByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	c.set(ctx, u)
	return u, nil
}

// GetByEmail is not cached; it is only used on the registration path.
func (c *CachedUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return c.inner.GetByEmail(ctx, email)
}

func (c *CachedUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	created, err := c.inner.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	c.set(ctx, created)
	return created, nil
}

func (c *CachedUserRepo) SetVerificationToken(ctx context.Context, userID string, token string) error {
	if err := c.inner.SetVerificationToken(ctx, userID, token); err != nil {
		return err
	}
	c.refresh(ctx, userID)
	return nil
}

func (c *CachedUserRepo) Activate(ctx context.Context, userID string) error {
	if err := c.inner.Activate(ctx, userID); err != nil {
		return err
	}
	c.refresh(ctx, userID)
	return nil
}

// List is not cached.
func (c *CachedUserRepo) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return c.inner.List(ctx, skip, limit)
}
