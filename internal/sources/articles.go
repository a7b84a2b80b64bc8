package sources

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"heraldo/internal/types"
	"heraldo/internal/utils"
)

// ArticleSource polls a single RSS/Atom feed for recent articles.
type ArticleSource struct {
	name       string
	feedURL    string
	parser     *gofeed.Parser
	maxItems   int
	thumbnails *ThumbnailResolver
}

type ArticleSourceConfig struct {
	Name     string
	FeedURL  string
	MaxItems int
	// ResolveThumbnails controls og:image discovery for feed items that
	// carry no image of their own. ThumbnailTTL bounds how long a
	// resolved image URL is reused before the page is fetched again.
	ResolveThumbnails bool
	ThumbnailTTL      time.Duration
}

func NewArticleSource(config ArticleSourceConfig) *ArticleSource {
	if config.MaxItems == 0 {
		config.MaxItems = 50
	}

	var thumbnails *ThumbnailResolver
	if config.ResolveThumbnails {
		thumbnails = NewThumbnailResolver(config.ThumbnailTTL)
	}

	return &ArticleSource{
		name:       config.Name,
		feedURL:    config.FeedURL,
		parser:     gofeed.NewParser(),
		maxItems:   config.MaxItems,
		thumbnails: thumbnails,
	}
}

func (a *ArticleSource) Key() types.SourceKey {
	return types.SourceArticle
}

func (a *ArticleSource) Name() string {
	return a.name
}

func (a *ArticleSource) Fetch(ctx context.Context) ([]types.Item, error) {
	feed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	// An entry without a link has nothing to announce and no stable
	// fallback ID, so it is dropped before the item limit applies.
	entries := utils.FilterArray(feed.Items, func(entry *gofeed.Item) bool {
		return entry.Link != ""
	})

	limit := a.maxItems
	if limit > len(entries) {
		limit = len(entries)
	}

	items := make([]types.Item, 0, limit)
	for i := 0; i < limit; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		item := a.convertToItem(ctx, entries[i])
		items = append(items, item)
	}

	log.Printf("Article source %s: fetched %d items", a.name, len(items))
	return items, nil
}

func (a *ArticleSource) convertToItem(ctx context.Context, feedItem *gofeed.Item) types.Item {
	timestamp := time.Now()
	if feedItem.PublishedParsed != nil {
		timestamp = *feedItem.PublishedParsed
	} else if feedItem.UpdatedParsed != nil {
		timestamp = *feedItem.UpdatedParsed
	}

	// GUID is the stable ID when present. Without one, a digest of the
	// link keeps the ID stable across fetches, which the dedup record
	// depends on.
	itemID := feedItem.GUID
	if itemID == "" {
		itemID = "article_" + utils.NewHash([]byte(feedItem.Link)).ComputeHash()
	}

	description := feedItem.Description
	if description == "" && feedItem.Content != "" {
		description = feedItem.Content
	}

	thumbnailURL := ""
	if feedItem.Image != nil {
		thumbnailURL = feedItem.Image.URL
	}
	if thumbnailURL == "" && a.thumbnails != nil {
		thumbnailURL = a.thumbnails.Resolve(ctx, feedItem.Link)
	}

	return types.Item{
		ID:           itemID,
		Title:        feedItem.Title,
		URL:          feedItem.Link,
		Description:  stripHTML(description),
		ThumbnailURL: thumbnailURL,
		SourceKey:    types.SourceArticle,
		PublishedAt:  timestamp,
	}
}

var htmlStripPolicy = bluemonday.StrictPolicy()

func stripHTML(input string) string {
	stripped := htmlStripPolicy.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
