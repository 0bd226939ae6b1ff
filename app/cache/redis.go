package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const feedKeyPrefix = "newspulse:feed:"

// FeedCache keeps rendered RSS documents in Redis for a short time.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

type cachedFeed struct {
	Content  string `json:"content"`
	CachedAt int64  `json:"cached_at"`
}

func NewFeedCache(ctx context.Context, addr string, ttl time.Duration) (*FeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr, "ttl", ttl)

	return &FeedCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func FeedKey(source string) string {
	return feedKeyPrefix + source
}

// GetFeed reports a miss, not an error, for absent or unreadable entries.
func (c *FeedCache) GetFeed(ctx context.Context, source string) (string, bool, error) {
	data, err := c.client.Get(ctx, FeedKey(source)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get feed %s: %w", source, err)
	}

	var feed cachedFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		c.client.Del(ctx, FeedKey(source))
		return "", false, nil
	}

	return feed.Content, true, nil
}

func (c *FeedCache) SetFeed(ctx context.Context, source, rss string) error {
	data, err := json.Marshal(cachedFeed{Content: rss, CachedAt: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("failed to marshal feed %s: %w", source, err)
	}

	if err := c.client.Set(ctx, FeedKey(source), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set feed %s: %w", source, err)
	}
	return nil
}

// InvalidateFeeds drops every cached feed, typically after an ingestion run.
func (c *FeedCache) InvalidateFeeds(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, feedKeyPrefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached feeds: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cached feeds: %w", err)
	}
	return nil
}

func (c *FeedCache) Close() error {
	return c.client.Close()
}
