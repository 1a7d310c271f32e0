package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributemc/tribute-gateway/src/global"
	"github.com/tributemc/tribute-gateway/src/structures"
)

func get(t *testing.T, gCtx global.Context, path string) *http.Response {
	t.Helper()

	app := buildApp(gCtx)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	gCtx := newTestContext(&fakeExecutor{}, &memoryStorage{})

	resp := get(t, gCtx, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "healthy")
}

func TestRoot(t *testing.T) {
	gCtx := newTestContext(&fakeExecutor{}, &memoryStorage{})

	resp := get(t, gCtx, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "running")
}

func TestListWebhooks(t *testing.T) {
	store := &memoryStorage{}
	gCtx := newTestContext(&fakeExecutor{}, store)

	now := time.Now().UTC()
	for _, status := range []string{"received", "success", "error"} {
		require.NoError(t, store.RecordWebhook(gCtx, structures.WebhookRecord{
			Type:      "new_donation",
			Payload:   `{}`,
			Status:    status,
			CreatedAt: now,
		}))
	}

	resp := get(t, gCtx, "/webhooks?limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	records := []structures.WebhookRecord{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "error", records[0].Status)
	assert.Equal(t, "success", records[1].Status)
}

func TestListWebhooksBadLimit(t *testing.T) {
	gCtx := newTestContext(&fakeExecutor{}, &memoryStorage{})

	resp := get(t, gCtx, "/webhooks?limit=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, gCtx, "/webhooks?limit=0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	gCtx := newTestContext(&fakeExecutor{}, &memoryStorage{})

	resp := get(t, gCtx, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
