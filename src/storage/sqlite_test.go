package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributemc/tribute-gateway/src/structures"
)

func TestSQLiteRecordAndList(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Options{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "webhooks.db"),
	})
	require.NoError(t, err)
	defer s.Close(ctx)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seed := []structures.WebhookRecord{
		{
			Type:         "new_donation",
			Payload:      `{"message":"Steve thanks"}`,
			Status:       "success",
			PlayerName:   "Steve",
			GameCurrency: 100,
		},
		{
			Type:         "new_donation",
			Payload:      `{"message":""}`,
			Status:       "error",
			ErrorMessage: "no player name in donation message",
		},
		{
			Type:    "test_webhook",
			Payload: `{}`,
			Status:  "received",
		},
	}
	for i, record := range seed {
		record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.RecordWebhook(ctx, record))
	}

	records, err := s.ListWebhooks(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "test_webhook", records[0].Type)
	assert.Equal(t, "received", records[0].Status)
	assert.True(t, records[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	assert.Equal(t, "new_donation", records[1].Type)
	assert.Equal(t, "error", records[1].Status)
	assert.Equal(t, "no player name in donation message", records[1].ErrorMessage)
	assert.Empty(t, records[1].PlayerName)

	all, err := s.ListWebhooks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Steve", all[2].PlayerName)
	assert.Equal(t, int64(100), all[2].GameCurrency)
	assert.Empty(t, all[2].ErrorMessage)
}

func TestSQLiteListEmpty(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Options{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "webhooks.db"),
	})
	require.NoError(t, err)
	defer s.Close(ctx)

	records, err := s.ListWebhooks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUnsupportedStorageType(t *testing.T) {
	_, err := New(context.Background(), Options{Type: "cassandra"})
	assert.Error(t, err)
}
