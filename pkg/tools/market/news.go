package market

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxNewsItems caps how many headlines one fetch returns
	maxNewsItems = 10
	// newsRetries is how many extra attempts a failed fetch gets
	newsRetries = 2
)

// HTTPNewsSource scrapes a financial news listing page
type HTTPNewsSource struct {
	url    string
	client *http.Client
}

// NewHTTPNewsSource creates a news source for the given listing URL
func NewHTTPNewsSource(url string, client *http.Client) *HTTPNewsSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPNewsSource{url: url, client: client}
}

// Fetch downloads the listing page and extracts up to maxNewsItems
// headline/summary pairs. Transient failures are retried with a short
// fixed delay.
func (s *HTTPNewsSource) Fetch(ctx context.Context) ([]NewsItem, error) {
	var lastErr error

	for attempt := 0; attempt <= newsRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}

		items, err := s.fetchOnce(ctx)
		if err == nil {
			return items, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("news fetch failed after %d attempts: %w", newsRetries+1, lastErr)
}

func (s *HTTPNewsSource) fetchOnce(ctx context.Context) ([]NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build news request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news listing returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news listing: %w", err)
	}

	var items []NewsItem
	doc.Find("dd.articleSubject").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(items) >= maxNewsItems {
			return false
		}
		title := strings.TrimSpace(sel.Find("a").Text())
		if title == "" {
			title = strings.TrimSpace(sel.Text())
		}
		if title == "" {
			return true
		}
		summary := strings.TrimSpace(sel.NextFiltered("dd.articleSummary").Text())
		items = append(items, NewsItem{Title: title, Summary: summary})
		return true
	})

	if len(items) == 0 {
		return nil, fmt.Errorf("news listing had no recognizable articles")
	}
	return items, nil
}
