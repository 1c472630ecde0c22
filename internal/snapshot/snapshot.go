// Package snapshot reads the corpus snapshot file, a JSON object keyed by
// article slug, and loads it into the article cache.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/cache"
)

// Entry is one article as stored in the snapshot. Body text, charts and
// related links are carried by the file but not needed here.
type Entry struct {
	Slug                string   `json:"slug"`
	Title               string   `json:"title"`
	URL                 string   `json:"url"`
	Date                string   `json:"date"`
	MainCategory        string   `json:"main_category"`
	SecondaryCategories []string `json:"secondary_categories"`
	Authors             []string `json:"author"`
	Teaser              string   `json:"teaser"`
}

// Decode parses a snapshot. Entries without a slug take their map key.
func Decode(r io.Reader) (map[string]Entry, error) {
	var entries map[string]Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	for key, e := range entries {
		if e.Slug == "" {
			e.Slug = key
			entries[key] = e
		}
	}
	return entries, nil
}

func ReadFile(path string) (map[string]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Articles converts entries to cache rows, newest first. Entries with a
// missing title or an unparseable date are returned in skipped.
func Articles(entries map[string]Entry, fetchedAt time.Time) (articles []cache.Article, skipped []string) {
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			skipped = append(skipped, e.Slug)
			continue
		}
		if _, ok := brush.ParseDate(e.Date, time.UTC); !ok {
			skipped = append(skipped, e.Slug)
			continue
		}
		articles = append(articles, cache.Article{
			Slug:         e.Slug,
			Title:        strings.TrimSpace(e.Title),
			URL:          e.URL,
			Date:         e.Date,
			MainCategory: strings.TrimSpace(e.MainCategory),
			Teaser:       strings.TrimSpace(e.Teaser),
			FetchedAt:    fetchedAt,
		})
	}
	sort.Slice(articles, func(i, j int) bool {
		if articles[i].Date != articles[j].Date {
			return articles[i].Date > articles[j].Date
		}
		return articles[i].Slug < articles[j].Slug
	})
	sort.Strings(skipped)
	return articles, skipped
}

// Result summarises an import.
type Result struct {
	Imported int
	Skipped  []string
}

// Store receives imported articles; *cache.Cache satisfies it.
type Store interface {
	UpsertArticles(articles []cache.Article) error
}

// Import reads the snapshot at path and upserts every valid entry.
func Import(c Store, path string) (Result, error) {
	entries, err := ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	articles, skipped := Articles(entries, time.Now())
	if err := c.UpsertArticles(articles); err != nil {
		return Result{}, fmt.Errorf("storing snapshot: %w", err)
	}
	return Result{Imported: len(articles), Skipped: skipped}, nil
}
