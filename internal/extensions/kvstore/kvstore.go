// Package kvstore provides Redis-backed key/value commands scoped to an
// agent.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"quiver/internal/api"
	"quiver/internal/extension"

	"github.com/redis/go-redis/v9"
)

// Name is the extension identifier.
const Name = "kv_store"

// RedisURLSetting overrides the Redis server for an agent.
const RedisURLSetting = "redis_url"

const keyPrefix = "quiver:kv:"

// Definition returns the kv_store extension definition. defaultURL is used
// when the agent does not set redis_url.
func Definition(defaultURL string) extension.Definition {
	return extension.Definition{
		Name:        Name,
		Description: "Store and fetch values in Redis, namespaced per agent.",
		Settings:    []api.Param{api.Optional(RedisURLSetting, defaultURL)},
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			url := ec.Setting(RedisURLSetting, defaultURL)
			if url == "" {
				return nil, nil
			}
			opts, err := redis.ParseURL(url)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", RedisURLSetting, err)
			}
			namespace := "global"
			if ec != nil && ec.AgentID != "" {
				namespace = ec.AgentID
			}
			return &provider{opts: opts, namespace: namespace}, nil
		},
	}
}

type provider struct {
	opts      *redis.Options
	namespace string
}

func (p *provider) Commands() []api.Command {
	return []api.Command{
		{
			Name:        "Store Value",
			Function:    "store_value",
			Description: "Store a value under a key.",
			Params:      []api.Param{api.Required("key"), api.Required("value")},
			Run:         p.storeValue,
		},
		{
			Name:        "Fetch Value",
			Function:    "fetch_value",
			Description: "Fetch the value stored under a key.",
			Params:      []api.Param{api.Required("key")},
			Run:         p.fetchValue,
		},
	}
}

func (p *provider) key(k string) string {
	return keyPrefix + p.namespace + ":" + k
}

// withClient opens a connection for one command.
func (p *provider) withClient(fn func(rdb *redis.Client) (any, error)) (any, error) {
	rdb := redis.NewClient(p.opts)
	defer rdb.Close()
	return fn(rdb)
}

func (p *provider) storeValue(ctx context.Context, args map[string]any) (any, error) {
	key, err := extension.RequiredStringArg(args, "key")
	if err != nil {
		return nil, err
	}
	value := extension.StringArg(args, "value", "")
	return p.withClient(func(rdb *redis.Client) (any, error) {
		if err := rdb.Set(ctx, p.key(key), value, 0).Err(); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", key, err)
		}
		return fmt.Sprintf("Stored value for %s.", key), nil
	})
}

func (p *provider) fetchValue(ctx context.Context, args map[string]any) (any, error) {
	key, err := extension.RequiredStringArg(args, "key")
	if err != nil {
		return nil, err
	}
	return p.withClient(func(rdb *redis.Client) (any, error) {
		value, err := rdb.Get(ctx, p.key(key)).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Sprintf("No value stored for %s.", key), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
		}
		return value, nil
	})
}
