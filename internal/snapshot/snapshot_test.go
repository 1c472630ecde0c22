package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jhellingsdata/search-app/internal/cache"
)

const sampleSnapshot = `{
  "how-is-inflation-measured": {
    "title": "How is inflation measured?",
    "date": "2022-09-14",
    "slug": "how-is-inflation-measured",
    "url": "https://www.economicsobservatory.com/how-is-inflation-measured",
    "main_category": "Money",
    "author": ["A. Author"],
    "secondary_categories": ["Prices"],
    "charts": [],
    "teaser": "  Prices are rising. ",
    "text": "long body"
  },
  "covid-jobs": {
    "title": "Covid and jobs",
    "date": "2020-06-02",
    "url": "https://www.economicsobservatory.com/covid-jobs",
    "main_category": "Labour"
  },
  "broken-date": {
    "title": "Broken",
    "date": "14 Sep 22",
    "url": "https://www.economicsobservatory.com/broken-date"
  },
  "no-title": {
    "title": "",
    "date": "2021-01-01"
  }
}`

func TestDecodeFillsSlugFromKey(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if got := entries["covid-jobs"].Slug; got != "covid-jobs" {
		t.Errorf("slug = %q, want key", got)
	}
	if got := entries["how-is-inflation-measured"].SecondaryCategories; len(got) != 1 || got[0] != "Prices" {
		t.Errorf("secondary categories = %v", got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := Decode(strings.NewReader(`[1, 2, 3]`)); err == nil {
		t.Error("expected error for non-object snapshot")
	}
}

func TestArticlesSkipsInvalid(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleSnapshot))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	now := time.Now()
	articles, skipped := Articles(entries, now)

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Slug != "how-is-inflation-measured" || articles[1].Slug != "covid-jobs" {
		t.Errorf("expected newest first, got %s, %s", articles[0].Slug, articles[1].Slug)
	}
	if articles[0].Teaser != "Prices are rising." {
		t.Errorf("teaser not trimmed: %q", articles[0].Teaser)
	}
	if !articles[0].FetchedAt.Equal(now) {
		t.Error("fetchedAt not applied")
	}
	if len(skipped) != 2 || skipped[0] != "broken-date" || skipped[1] != "no-title" {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_articles.json")
	if err := os.WriteFile(path, []byte(sampleSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := cache.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	res, err := Import(db, path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 2 || len(res.Skipped) != 2 {
		t.Errorf("unexpected result: %+v", res)
	}

	got, err := db.GetArticles(cache.QueryOpts{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 stored articles, got %d", len(got))
	}

	// Re-importing is idempotent.
	if _, err := Import(db, path); err != nil {
		t.Fatalf("second Import: %v", err)
	}
	got, _ = db.GetArticles(cache.QueryOpts{})
	if len(got) != 2 {
		t.Errorf("expected 2 stored articles after re-import, got %d", len(got))
	}
}

func TestImportMissingFile(t *testing.T) {
	db, err := cache.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := Import(db, filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
