package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps redis for the webhook idempotency store. The gateway may
// redeliver the same settlement callback; a SETNX key per delivery lets us
// drop replays without re-applying side effects.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: 24 * time.Hour}, nil
}

// NewClientWithRedis wires an existing redis client, used by tests.
func NewClientWithRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb, ttl: 24 * time.Hour}
}

// FirstDelivery records the delivery key and reports whether this is the
// first time it has been seen.
func (c *Client) FirstDelivery(ctx context.Context, key string) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, "webhook:"+key, 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record webhook delivery: %w", err)
	}
	return ok, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
