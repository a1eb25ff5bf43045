package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"adoptions/internal/config"
	"adoptions/internal/domain"
	"adoptions/internal/port"
)

type kvRepo struct {
	client *goredis.Client
	prefix string
}

// Open connects to Redis and returns a KeyValueStore. Keys are namespaced
// with cfg.KeyPrefix.
func Open(ctx context.Context, cfg *config.RedisConfig) (port.KeyValueStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewKVRepo(client, cfg.KeyPrefix), nil
}

// NewKVRepo wraps an existing client.
func NewKVRepo(client *goredis.Client, prefix string) port.KeyValueStore {
	return &kvRepo{client: client, prefix: prefix}
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

func (r *kvRepo) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *kvRepo) Close() error {
	return r.client.Close()
}
