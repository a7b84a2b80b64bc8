package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heraldo/internal/state"
	"heraldo/internal/types"
)

func TestRing_NewestFirstAndBounded(t *testing.T) {
	ring := NewRing(3)

	for i := 1; i <= 5; i++ {
		ring.Add(types.Item{ID: fmt.Sprintf("item_%d", i)}, nil)
	}

	recent := ring.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "item_5", recent[0].ID)
	assert.Equal(t, "item_4", recent[1].ID)
	assert.Equal(t, "item_3", recent[2].ID)
}

func TestRing_ExtractsExternalRef(t *testing.T) {
	ring := NewRing(10)

	ring.Add(types.Item{ID: "a"}, &types.PublishResult{
		Metadata: map[string]interface{}{"uri": "at://did:plc:xyz/app.bsky.feed.post/1"},
	})
	ring.Add(types.Item{ID: "b"}, nil)

	recent := ring.Recent()
	require.Len(t, recent, 2)
	assert.Empty(t, recent[0].ExternalRef)
	assert.Equal(t, "at://did:plc:xyz/app.bsky.feed.post/1", recent[1].ExternalRef)
}

func TestRing_RecentReturnsCopy(t *testing.T) {
	ring := NewRing(10)
	ring.Add(types.Item{ID: "a", Title: "original"}, nil)

	recent := ring.Recent()
	recent[0].Title = "mutated"

	assert.Equal(t, "original", ring.Recent()[0].Title)
}

func newTestServer(t *testing.T, store state.Store) *Server {
	t.Helper()
	ring := NewRing(10)
	ring.Add(types.Item{
		ID:          "video_1",
		Title:       "Launch Video",
		URL:         "https://example.com/watch/1",
		Description: "A launch",
		SourceKey:   types.SourceVideo,
		PublishedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}, nil)
	return New("heraldo", Config{}, store, ring)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, state.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleStatus(t *testing.T) {
	store := state.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), state.State{
		types.SourceVideo: {
			PostedIDs:           []string{"video_1", "video_2"},
			ConsecutiveFailures: 0,
		},
		types.SourceArticle: {
			PostedIDs:           []string{},
			ConsecutiveFailures: 4,
		},
	}))

	srv := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]struct {
		ConsecutiveFailures int `json:"consecutiveFailures"`
		PostedCount         int `json:"postedCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))

	assert.Equal(t, 2, status["video"].PostedCount)
	assert.Equal(t, 0, status["video"].ConsecutiveFailures)
	assert.Equal(t, 0, status["article"].PostedCount)
	assert.Equal(t, 4, status["article"].ConsecutiveFailures)
}

func TestHandleStatus_StoreUnavailable(t *testing.T) {
	store := state.NewMemoryStore()
	store.Err = errors.New("connection refused")

	srv := newTestServer(t, store)

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest("GET", "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleRSSFeed(t *testing.T) {
	srv := newTestServer(t, state.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.handleRSSFeed(rec, httptest.NewRequest("GET", "/feed.rss", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "Launch Video")
	assert.Contains(t, rec.Body.String(), "https://example.com/watch/1")
}

func TestHandleAtomFeed(t *testing.T) {
	srv := newTestServer(t, state.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.handleAtomFeed(rec, httptest.NewRequest("GET", "/feed.atom", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Launch Video")
}

func TestHandleJSONFeed(t *testing.T) {
	srv := newTestServer(t, state.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.handleJSONFeed(rec, httptest.NewRequest("GET", "/feed.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var feed struct {
		Items []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Launch Video", feed.Items[0].Title)
}
