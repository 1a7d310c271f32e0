package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tributemc/tribute-gateway/src/structures"
)

// Storage is the append-only webhook history store. The backend is picked
// once at startup; request-handling code never branches on it.
type Storage interface {
	RecordWebhook(ctx context.Context, record structures.WebhookRecord) error
	ListWebhooks(ctx context.Context, limit int64) ([]structures.WebhookRecord, error)
	Close(ctx context.Context) error
}

type Options struct {
	Type string

	SQLitePath string

	PostgresURI string

	MongoURI      string
	MongoDatabase string
}

func New(ctx context.Context, opts Options) (Storage, error) {
	var (
		s   Storage
		err error
	)

	switch opts.Type {
	case "sqlite":
		s, err = newSQLite(ctx, opts.SQLitePath)
	case "postgres":
		s, err = newPostgres(ctx, opts.PostgresURI)
	case "mongodb":
		s, err = newMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", opts.Type)
	}
	if err != nil {
		return nil, err
	}

	logrus.Infof("webhook storage initialized (%s)", opts.Type)
	return s, nil
}
