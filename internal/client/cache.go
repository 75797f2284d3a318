package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiver/internal/api"
	"quiver/pkg/logging"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const promptArgsKeyPrefix = "quiver:prompt_args:"

// NewRedis parses url and verifies the server is reachable.
func NewRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// PromptArgsCache caches prompt template variables in Redis. Cache errors
// are logged and fall through to the source.
type PromptArgsCache struct {
	source api.PromptArgsSource
	rdb    *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewPromptArgsCache wraps source with a Redis cache whose entries expire
// after ttl.
func NewPromptArgsCache(source api.PromptArgsSource, rdb *redis.Client, ttl time.Duration) *PromptArgsCache {
	return &PromptArgsCache{source: source, rdb: rdb, ttl: ttl}
}

func promptArgsKey(promptName, category string) string {
	return promptArgsKeyPrefix + category + "/" + promptName
}

func (c *PromptArgsCache) GetPromptArgs(ctx context.Context, promptName, category string) ([]string, error) {
	key := promptArgsKey(promptName, category)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var args []string
		if err := json.Unmarshal(data, &args); err == nil {
			return args, nil
		}
		logging.Warn("Client", "Discarding corrupt cache entry %s", key)
	case !errors.Is(err, redis.Nil):
		logging.Warn("Client", "Prompt cache read failed for %s: %v", key, err)
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		args, err := c.source.GetPromptArgs(ctx, promptName, category)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(args); err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
				logging.Warn("Client", "Prompt cache write failed for %s: %v", key, err)
			}
		}
		return args, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Invalidate drops every cached prompt entry.
func (c *PromptArgsCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, promptArgsKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan prompt cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
