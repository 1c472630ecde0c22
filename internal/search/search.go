// Package search talks to the article search backend and provides a local
// fallback over the article cache with the same request and response shape.
package search

import (
	"context"
	"errors"

	"github.com/jhellingsdata/search-app/internal/brush"
)

// ErrNoAPI is returned when no backend URL is configured.
var ErrNoAPI = errors.New("search API not configured")

type Request struct {
	Query    string `json:"query"`
	TopK     int    `json:"top_k,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
	Category string `json:"category,omitempty"`
}

type Result struct {
	Title               string   `json:"title"`
	URL                 string   `json:"url"`
	Date                string   `json:"date"`
	MainCategory        string   `json:"main_category"`
	SecondaryCategories []string `json:"secondary_categories"`
	Teaser              string   `json:"teaser"`
	Score               float64  `json:"similarity_score"`
}

type Response struct {
	Results      []Result `json:"results"`
	Query        string   `json:"query"`
	TotalResults int      `json:"total_results"`
	SearchTime   float64  `json:"search_time"`
}

type Searcher interface {
	Search(ctx context.Context, req Request) (Response, error)
}

// Highlights converts results to the (title, date) pairs the date brush
// matches points against.
func Highlights(results []Result) []brush.SearchResult {
	out := make([]brush.SearchResult, len(results))
	for i, r := range results {
		out[i] = brush.SearchResult{Title: r.Title, Date: r.Date}
	}
	return out
}

// WithinRange keeps results whose date lies in [from, to]. Empty bounds are
// open. Dates compare as YYYY-MM-DD strings.
func WithinRange(results []Result, from, to string) []Result {
	var out []Result
	for _, r := range results {
		if from != "" && r.Date < from {
			continue
		}
		if to != "" && r.Date > to {
			continue
		}
		out = append(out, r)
	}
	return out
}
