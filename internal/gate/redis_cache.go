package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
)

const approvedValue = "1"

// redisKV is the part of the go-redis client the cache uses.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisApprovalCache is a read-through ApprovalReader that remembers
// approved accounts in Redis. Pending answers are never cached, so a manual
// approval is seen on the very next request. Redis failures fall through to
// the underlying reader.
type RedisApprovalCache struct {
	client redisKV
	next   ApprovalReader
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

var _ ApprovalReader = (*RedisApprovalCache)(nil)

// NewRedisApprovalCache wraps next with a Redis cache of approved accounts.
func NewRedisApprovalCache(
	client redisKV,
	next ApprovalReader,
	ttl time.Duration,
	logger *slog.Logger,
) *RedisApprovalCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisApprovalCache{
		client: client,
		next:   next,
		ttl:    ttl,
		prefix: "approval:",
		logger: logger.With(slog.String("component", "approval_cache")),
	}
}

func (c *RedisApprovalCache) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

// GetApproval implements ApprovalReader.
func (c *RedisApprovalCache) GetApproval(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	val, err := c.client.Get(ctx, c.key(id)).Result()
	switch {
	case err == nil && val == approvedValue:
		return true, nil
	case err != nil && !errors.Is(err, redis.Nil):
		log.Warn("approval cache read failed", slog.String("error", err.Error()))
	}

	approved, err := c.next.GetApproval(ctx, id)
	if err != nil {
		return false, err
	}

	if approved {
		if err := c.client.Set(ctx, c.key(id), approvedValue, c.ttl).Err(); err != nil {
			log.Warn("approval cache write failed", slog.String("error", err.Error()))
		}
	}
	return approved, nil
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
