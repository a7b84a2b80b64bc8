package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"heraldo/internal/types"
)

// VideoSource polls a video catalog's playlist-items endpoint for recent
// uploads. Items come back in whatever order the API returns them; the
// reconciliation engine sorts, never the fetcher.
type VideoSource struct {
	name       string
	apiURL     string
	apiKey     string
	playlistID string
	httpClient *http.Client
	maxItems   int
}

type videoListResponse struct {
	Items []videoEntry `json:"items"`
}

type videoEntry struct {
	ContentDetails struct {
		VideoID          string `json:"videoId"`
		VideoPublishedAt string `json:"videoPublishedAt"`
	} `json:"contentDetails"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Thumbnails  struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

type VideoSourceConfig struct {
	Name       string
	APIURL     string
	APIKey     string
	PlaylistID string
	MaxItems   int
}

func NewVideoSource(config VideoSourceConfig) *VideoSource {
	if config.APIURL == "" {
		config.APIURL = "https://www.googleapis.com/youtube/v3"
	}
	if config.MaxItems == 0 {
		config.MaxItems = 20
	}

	return &VideoSource{
		name:       config.Name,
		apiURL:     config.APIURL,
		apiKey:     config.APIKey,
		playlistID: config.PlaylistID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxItems:   config.MaxItems,
	}
}

func (v *VideoSource) Key() types.SourceKey {
	return types.SourceVideo
}

func (v *VideoSource) Name() string {
	return v.name
}

func (v *VideoSource) Fetch(ctx context.Context) ([]types.Item, error) {
	url := fmt.Sprintf("%s/playlistItems?part=snippet,contentDetails&playlistId=%s&maxResults=%d&key=%s",
		v.apiURL, v.playlistID, v.maxItems, v.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var list videoListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal playlist items: %w", err)
	}

	items := make([]types.Item, 0, len(list.Items))
	for _, entry := range list.Items {
		if entry.ContentDetails.VideoID == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, entry.ContentDetails.VideoPublishedAt)
		if err != nil {
			log.Printf("Video source %s: skipping %s, bad publish timestamp %q: %v",
				v.name, entry.ContentDetails.VideoID, entry.ContentDetails.VideoPublishedAt, err)
			continue
		}

		items = append(items, types.Item{
			ID:           "video_" + entry.ContentDetails.VideoID,
			Title:        entry.Snippet.Title,
			URL:          "https://www.youtube.com/watch?v=" + entry.ContentDetails.VideoID,
			Description:  entry.Snippet.Description,
			ThumbnailURL: entry.Snippet.Thumbnails.High.URL,
			SourceKey:    types.SourceVideo,
			PublishedAt:  publishedAt,
		})
	}

	log.Printf("Video source %s: fetched %d items", v.name, len(items))
	return items, nil
}
