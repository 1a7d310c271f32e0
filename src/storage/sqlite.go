package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tributemc/tribute-gateway/src/structures"
)

// Timestamps are stored as RFC3339 text so records survive a roundtrip
// through the driver without locale or layout surprises.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS webhooks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	webhook_type TEXT NOT NULL,
	payload TEXT NOT NULL,
	status TEXT NOT NULL,
	player_name TEXT,
	game_currency INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	created_at TEXT NOT NULL
)`

type sqliteStorage struct {
	path string
}

func newSQLite(ctx context.Context, path string) (Storage, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	s := &sqliteStorage{path: path}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, err
	}

	return s, nil
}

// open returns a fresh handle; every write opens and closes its own
// connection, nothing is shared across concurrent requests.
func (s *sqliteStorage) open() (*sql.DB, error) {
	return sql.Open("sqlite", s.path)
}

func (s *sqliteStorage) RecordWebhook(ctx context.Context, record structures.WebhookRecord) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO webhooks (webhook_type, payload, status, player_name, game_currency, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Type,
		record.Payload,
		record.Status,
		nullString(record.PlayerName),
		record.GameCurrency,
		nullString(record.ErrorMessage),
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *sqliteStorage) ListWebhooks(ctx context.Context, limit int64) ([]structures.WebhookRecord, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT webhook_type, payload, status, player_name, game_currency, error_message, created_at
		FROM webhooks ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []structures.WebhookRecord{}
	for rows.Next() {
		var (
			record       structures.WebhookRecord
			playerName   sql.NullString
			errorMessage sql.NullString
			createdAt    string
		)
		if err := rows.Scan(&record.Type, &record.Payload, &record.Status, &playerName, &record.GameCurrency, &errorMessage, &createdAt); err != nil {
			return nil, err
		}
		record.PlayerName = playerName.String
		record.ErrorMessage = errorMessage.String
		if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *sqliteStorage) Close(ctx context.Context) error {
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
