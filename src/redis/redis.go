package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Instance is a thin wrapper over the redis client used for duplicate
// suppression of donation ids. Optional; the dispatcher tolerates a nil
// instance.
type Instance struct {
	client *redis.Client
}

func New(ctx context.Context, uri string) (*Instance, error) {
	options, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Instance{client: client}, nil
}

func (i *Instance) SetNX(ctx context.Context, key string, value interface{}, expiry time.Duration) (bool, error) {
	return i.client.SetNX(ctx, key, value, expiry).Result()
}

func (i *Instance) Del(ctx context.Context, keys ...string) error {
	return i.client.Del(ctx, keys...).Err()
}

func (i *Instance) Close() error {
	return i.client.Close()
}
