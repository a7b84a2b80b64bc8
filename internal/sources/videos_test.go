package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heraldo/internal/types"
)

const playlistResponse = `{
  "items": [
    {
      "contentDetails": {"videoId": "abc123", "videoPublishedAt": "2026-08-29T10:00:00Z"},
      "snippet": {
        "title": "First Upload",
        "description": "A video",
        "thumbnails": {"high": {"url": "https://i.ytimg.com/vi/abc123/hqdefault.jpg"}}
      }
    },
    {
      "contentDetails": {"videoId": "def456", "videoPublishedAt": "not-a-timestamp"},
      "snippet": {"title": "Broken Timestamp"}
    },
    {
      "contentDetails": {"videoId": "", "videoPublishedAt": "2026-08-29T11:00:00Z"},
      "snippet": {"title": "Missing ID"}
    }
  ]
}`

func TestVideoSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlistItems", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "snippet,contentDetails", query.Get("part"))
		assert.Equal(t, "PL123", query.Get("playlistId"))
		assert.Equal(t, "secret", query.Get("key"))
		fmt.Fprint(w, playlistResponse)
	}))
	defer srv.Close()

	src := NewVideoSource(VideoSourceConfig{
		Name:       "videos",
		APIURL:     srv.URL,
		APIKey:     "secret",
		PlaylistID: "PL123",
	})

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)

	// entries with a bad timestamp or no video ID get skipped
	require.Len(t, items, 1)
	assert.Equal(t, "video_abc123", items[0].ID)
	assert.Equal(t, "First Upload", items[0].Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", items[0].URL)
	assert.Equal(t, "https://i.ytimg.com/vi/abc123/hqdefault.jpg", items[0].ThumbnailURL)
	assert.Equal(t, types.SourceVideo, items[0].SourceKey)
	assert.Equal(t, "2026-08-29T10:00:00Z", items[0].PublishedAt.Format("2006-01-02T15:04:05Z"))
}

func TestVideoSource_Fetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	src := NewVideoSource(VideoSourceConfig{Name: "videos", APIURL: srv.URL})

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestVideoSource_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	src := NewVideoSource(VideoSourceConfig{Name: "videos", APIURL: srv.URL})

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
}

func TestVideoSource_Key(t *testing.T) {
	src := NewVideoSource(VideoSourceConfig{Name: "videos"})
	assert.Equal(t, types.SourceVideo, src.Key())
	assert.Equal(t, "videos", src.Name())
}
