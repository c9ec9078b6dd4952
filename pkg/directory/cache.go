package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// RedisCache is a read-through cache for user lookups in front of another
// application-scoped directory. Credential checks always hit the underlying
// store; only GetUser results are cached, keyed by (application, username).
type RedisCache struct {
	next   ApplicationScoped
	client redis.UniversalClient
	ttl    time.Duration
}

// CacheOption configures a RedisCache.
type CacheOption func(*RedisCache)

// WithCacheTTL overrides the lifetime of cached user records.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewRedisCache wraps next with a Redis read-through cache.
func NewRedisCache(next ApplicationScoped, client redis.UniversalClient, opts ...CacheOption) *RedisCache {
	c := &RedisCache{
		next:   next,
		client: client,
		ttl:    defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplicationName reads the current application from the request context.
func (c *RedisCache) ApplicationName(ctx context.Context) string {
	return c.next.ApplicationName(ctx)
}

func (c *RedisCache) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	return c.next.ValidateCredentials(ctx, username, password)
}

func (c *RedisCache) GetUser(ctx context.Context, username string) (*User, error) {
	key := c.key(ctx, username)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var user User
		if err := json.Unmarshal(data, &user); err == nil {
			return &user, nil
		}
		// Unreadable entries are dropped and refetched.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	user, err := c.next.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}
	return user, nil
}

func (c *RedisCache) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if err := c.next.ChangePassword(ctx, username, oldPassword, newPassword); err != nil {
		return err
	}
	c.client.Del(ctx, c.key(ctx, username))
	return nil
}

func (c *RedisCache) Register(ctx context.Context, username, email, password string) (*User, error) {
	user, err := c.next.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	c.client.Del(ctx, c.key(ctx, username))
	return user, nil
}

func (c *RedisCache) key(ctx context.Context, username string) string {
	return "tenantauth:user:" + c.ApplicationName(ctx) + ":" + username
}
