package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client caches raw release-package documents fetched from Find a Tender so
// repeated searches within the TTL skip the detail round-trip. Notices
// themselves are never cached or persisted. A nil *Client is a valid no-op
// cache.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection. An empty addr returns
// a nil client, which disables caching.
func New(addr, password string, db int, ttl time.Duration) (*Client, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetPackage returns the cached document body for a notice id, if present.
func (c *Client) GetPackage(ctx context.Context, noticeID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, packageKey(noticeID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetPackage stores a document body under the notice id for the cache TTL.
// Failures are ignored: the cache is best-effort.
func (c *Client) SetPackage(ctx context.Context, noticeID string, body []byte) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, packageKey(noticeID), body, c.ttl)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func packageKey(noticeID string) string {
	return "fts:pkg:" + noticeID
}
