package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 2 * time.Second

// RedisDevice stores entries as plain redis string keys.
type RedisDevice struct {
	cli     *redis.Client
	timeout time.Duration
}

// ConnectRedis connects to the Redis server and pings it to ensure the
// connection is working.
func ConnectRedis(ctx context.Context, addr string) (*RedisDevice, error) {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisDevice{cli: cli, timeout: defaultRedisTimeout}, nil
}

func (d *RedisDevice) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	value, err := d.cli.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get: %w", err)
	}
	return value, true, nil
}

func (d *RedisDevice) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.cli.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

func (d *RedisDevice) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.cli.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (d *RedisDevice) Close() error {
	return d.cli.Close()
}
