package types

import (
	"context"
	"time"
)

// SourceKey identifies one of the two content origins.
type SourceKey string

const (
	SourceVideo   SourceKey = "video"
	SourceArticle SourceKey = "article"
)

// SourceKeys lists all keys in the fixed processing order: videos first,
// articles second.
func SourceKeys() []SourceKey {
	return []SourceKey{SourceVideo, SourceArticle}
}

func (k SourceKey) Valid() bool {
	return k == SourceVideo || k == SourceArticle
}

func (k SourceKey) String() string {
	return string(k)
}

// Item is the normalized representation of one piece of content. ID is the
// sole dedup key: it must be non-empty and stable across fetches of the
// same underlying content.
type Item struct {
	ID           string
	Title        string
	URL          string
	Description  string
	ThumbnailURL string
	SourceKey    SourceKey
	PublishedAt  time.Time
}

type PublishResult struct {
	Success   bool
	Target    string
	ItemID    string
	Timestamp time.Time
	Error     error
	Metadata  map[string]interface{}
}

// Source fetches the raw item list for one origin. Items come back in
// whatever order the upstream API returns them.
type Source interface {
	Key() SourceKey
	Name() string
	Fetch(ctx context.Context) ([]Item, error)
}

// Publisher announces one item at a time. Construction of a publisher
// (authentication) may fail; that failure is fatal to the cycle.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, item Item) (*PublishResult, error)
}

// PublisherFactory builds an authenticated publisher for one cycle.
type PublisherFactory func(ctx context.Context) (Publisher, error)

// Reporter escalates failures out of band. Implementations are
// fire-and-forget: they never block the cycle and never return an error.
type Reporter interface {
	Report(ctx context.Context, event string, fields map[string]interface{})
}
