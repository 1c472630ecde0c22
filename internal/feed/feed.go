package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/cache"
	"github.com/jhellingsdata/search-app/internal/classify"
	"github.com/jhellingsdata/search-app/internal/config"
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]cache.Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]cache.Article, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := time.Now()
	articles := make([]cache.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		var category string
		if len(item.Categories) > 0 {
			category = strings.TrimSpace(item.Categories[0])
		}

		title := strings.TrimSpace(item.Title)
		teaser := truncate(stripHTML(desc), 300)
		if category == "" {
			category = classify.Classify(title, teaser)
		}

		articles = append(articles, cache.Article{
			Slug:         articleSlug(item.Link),
			Title:        title,
			URL:          item.Link,
			Date:         brush.FormatDate(pub),
			MainCategory: category,
			Teaser:       teaser,
			FetchedAt:    now,
		})
	}
	return articles, nil
}

// articleSlug uses the last path segment of the link, which is how the
// corpus snapshot keys its entries. Links without a usable path fall back
// to a hash.
func articleSlug(link string) string {
	if u, err := url.Parse(link); err == nil {
		if seg := path.Base(strings.TrimSuffix(u.Path, "/")); seg != "" && seg != "." && seg != "/" {
			return seg
		}
	}
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type FetchResult struct {
	Articles []cache.Article
	Errors   []error
}

func FetchAll(ctx context.Context, sources []config.Source) FetchResult {
	return FetchAllWith(ctx, NewRSSFetcher(), sources)
}

// FetchAllWith fans out to every source concurrently. Per-source failures
// are collected rather than aborting the batch.
func FetchAllWith(ctx context.Context, fetcher Fetcher, sources []config.Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			articles, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Articles = append(result.Articles, articles...)
		}(src)
	}

	wg.Wait()
	return result
}
