package infra_redis_completion_cache

import (
	"context"
	"time"

	"github.com/go-redis/redis"
)

// Driver stores AI completions under {key}:{hash} with a TTL.
type Driver struct {
	client *redis.Client
	key    string
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return d.client.WithContext(ctx).Set(d.getFullKey(key), value, ttl).Err()
}

// Get reports false on a miss.
func (d *Driver) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := d.client.WithContext(ctx).Get(d.getFullKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (d *Driver) getFullKey(key string) string {
	if d.key != "" {
		return d.key + ":" + key
	}
	return key
}
