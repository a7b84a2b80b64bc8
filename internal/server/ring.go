package server

import (
	"sync"
	"time"

	"heraldo/internal/types"
)

// Announcement is one confirmed publish, kept for the mirror feed.
type Announcement struct {
	ID          string
	Title       string
	URL         string
	Description string
	Source      types.SourceKey
	PublishedAt time.Time
	AnnouncedAt time.Time
	ExternalRef string
}

// Ring keeps the most recent announcements in memory, newest first. It is
// a mirror for the feed endpoints, not durable state: a restart starts it
// empty.
type Ring struct {
	mu      sync.RWMutex
	entries []Announcement
	max     int
}

func NewRing(max int) *Ring {
	if max <= 0 {
		max = 50
	}
	return &Ring{max: max}
}

func (r *Ring) Add(item types.Item, result *types.PublishResult) {
	entry := Announcement{
		ID:          item.ID,
		Title:       item.Title,
		URL:         item.URL,
		Description: item.Description,
		Source:      item.SourceKey,
		PublishedAt: item.PublishedAt,
		AnnouncedAt: time.Now(),
	}
	if result != nil {
		if uri, ok := result.Metadata["uri"].(string); ok {
			entry.ExternalRef = uri
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]Announcement{entry}, r.entries...)
	if len(r.entries) > r.max {
		r.entries = r.entries[:r.max]
	}
}

func (r *Ring) Recent() []Announcement {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Announcement, len(r.entries))
	copy(out, r.entries)
	return out
}
