package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/cache"
)

// Store is the slice of the article cache the local searcher needs.
type Store interface {
	GetArticles(opts cache.QueryOpts) ([]cache.Article, error)
}

// Local ranks cached articles by keyword match. It is used when no backend
// is configured.
type Local struct {
	store Store
	now   func() time.Time
}

func NewLocal(store Store) *Local {
	return &Local{store: store, now: time.Now}
}

func (l *Local) Search(ctx context.Context, req Request) (Response, error) {
	start := l.now()
	resp := Response{Query: req.Query, Results: []Result{}}

	terms := Terms(req.Query)
	if len(terms) == 0 {
		return resp, nil
	}

	articles, err := l.store.GetArticles(cache.QueryOpts{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Category: req.Category,
	})
	if err != nil {
		return Response{}, fmt.Errorf("local search: %w", err)
	}

	var hits []Result
	for i, a := range articles {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Response{}, err
			}
		}
		published, _ := brush.ParseDate(a.Date, time.UTC)
		b := Score(terms, a.Title, a.Teaser, published, start)
		if b.Final <= 0 {
			continue
		}
		hits = append(hits, Result{
			Title:        a.Title,
			URL:          a.URL,
			Date:         a.Date,
			MainCategory: a.MainCategory,
			Teaser:       a.Teaser,
			Score:        b.Final,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Date > hits[j].Date
	})

	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}
	if len(hits) > topK {
		hits = hits[:topK]
	}
	resp.Results = append(resp.Results, hits...)
	resp.TotalResults = len(resp.Results)
	resp.SearchTime = l.now().Sub(start).Seconds()
	return resp, nil
}
