package utils

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
)

// GetArticleText fetches a page and extracts its readable text content.
func GetArticleText(u string) (string, error) {
	if u == "" {
		return "", fmt.Errorf("URL is empty")
	}

	urlParsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if urlParsed.Scheme == "" || urlParsed.Host == "" {
		return "", fmt.Errorf("URL missing scheme or host")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:146.0) Gecko/20100101 Firefox/146.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("GetArticleText: failed to fetch URL '%s': %v", u, err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch page: %s", resp.Status)
	}

	article, err := readability.FromReader(resp.Body, urlParsed)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %v", err)
	}

	return article.TextContent, nil
}
