package sources

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"heraldo/internal/cache"
)

// ThumbnailResolver discovers a page's og:image for feed items that carry
// no image. Results are cached so an item retried on the next cycle does
// not hit the page again.
type ThumbnailResolver struct {
	httpClient *http.Client
	cache      *cache.Cache[string, string]
}

func NewThumbnailResolver(ttl time.Duration) *ThumbnailResolver {
	if ttl == 0 {
		ttl = 6 * time.Hour
	}

	return &ThumbnailResolver{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache: cache.NewCache[string, string](cache.CacheConfig{TTL: ttl}, func(k string) string {
			return k
		}),
	}
}

// Resolve returns the page's og:image URL, or "" when the page has none
// or cannot be fetched. Errors are not worth failing a fetch over.
func (t *ThumbnailResolver) Resolve(ctx context.Context, pageURL string) string {
	if pageURL == "" {
		return ""
	}

	if cached, ok := t.cache.Get(pageURL); ok {
		return cached
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		log.Printf("ThumbnailResolver: failed to fetch %s: %v", pageURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("ThumbnailResolver: failed to parse %s: %v", pageURL, err)
		return ""
	}

	imageURL, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	if imageURL == "" {
		imageURL, _ = doc.Find(`meta[name="twitter:image"]`).Attr("content")
	}

	t.cache.Set(pageURL, imageURL)
	return imageURL
}
