package cache

import "time"

// Article is one corpus entry. Date is the publish date as YYYY-MM-DD.
type Article struct {
	Slug         string
	Title        string
	URL          string
	Date         string
	MainCategory string
	Teaser       string
	FetchedAt    time.Time
}

// QueryOpts filters GetArticles. Date bounds are inclusive YYYY-MM-DD strings.
type QueryOpts struct {
	DateFrom string
	DateTo   string
	Search   string
	Category string
	Limit    int
}
