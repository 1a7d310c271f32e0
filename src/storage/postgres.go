package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tributemc/tribute-gateway/src/structures"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS webhooks (
	id BIGSERIAL PRIMARY KEY,
	webhook_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	status TEXT NOT NULL,
	player_name TEXT,
	game_currency BIGINT NOT NULL DEFAULT 0,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresStorage struct {
	uri string
}

func newPostgres(ctx context.Context, uri string) (Storage, error) {
	s := &postgresStorage{uri: uri}

	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, err
	}

	return s, nil
}

// connect opens a fresh connection; one connection per write, never pooled
// across requests.
func (s *postgresStorage) connect(ctx context.Context) (*pgx.Conn, error) {
	return pgx.Connect(ctx, s.uri)
}

func (s *postgresStorage) RecordWebhook(ctx context.Context, record structures.WebhookRecord) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, `
		INSERT INTO webhooks (webhook_type, payload, status, player_name, game_currency, error_message, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7)`,
		record.Type,
		record.Payload,
		record.Status,
		record.PlayerName,
		record.GameCurrency,
		record.ErrorMessage,
		record.CreatedAt.UTC(),
	)
	return err
}

func (s *postgresStorage) ListWebhooks(ctx context.Context, limit int64) ([]structures.WebhookRecord, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, `
		SELECT webhook_type, payload, status, COALESCE(player_name, ''), game_currency, COALESCE(error_message, ''), created_at
		FROM webhooks ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []structures.WebhookRecord{}
	for rows.Next() {
		var record structures.WebhookRecord
		if err := rows.Scan(&record.Type, &record.Payload, &record.Status, &record.PlayerName, &record.GameCurrency, &record.ErrorMessage, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *postgresStorage) Close(ctx context.Context) error {
	return nil
}
