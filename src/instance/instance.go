package instance

import (
	"context"
	"time"

	"github.com/tributemc/tribute-gateway/src/currency"
	"github.com/tributemc/tribute-gateway/src/discord"
	"github.com/tributemc/tribute-gateway/src/rcon"
	"github.com/tributemc/tribute-gateway/src/storage"
)

// Redis is the subset of the redis client the dispatcher uses for
// duplicate suppression.
type Redis interface {
	SetNX(ctx context.Context, key string, value interface{}, expiry time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Instances holds everything constructed at startup and shared by the
// request handlers. Redis is optional and may be nil.
type Instances struct {
	Storage  storage.Storage
	Redis    Redis
	Rcon     rcon.Executor
	Discord  *discord.Notifier
	Currency *currency.Converter
}
