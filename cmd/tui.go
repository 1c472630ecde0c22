package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/cache"
	"github.com/jhellingsdata/search-app/internal/config"
	"github.com/jhellingsdata/search-app/internal/debug"
	"github.com/jhellingsdata/search-app/internal/feed"
	"github.com/jhellingsdata/search-app/internal/search"
	"github.com/jhellingsdata/search-app/internal/snapshot"
	"github.com/jhellingsdata/search-app/internal/tui"
	"github.com/jhellingsdata/search-app/internal/watch"
)

func runTUI(cmd *cobra.Command, args []string) error {
	if err := checkRange(flagFrom, flagTo); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	// Refresh if needed
	if flagRefresh || db.NeedsRefresh(cfg.RefreshDuration()) {
		fmt.Println("Fetching feeds...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result := feed.FetchAll(ctx, cfg.EnabledSources())
		cancel()

		for _, e := range result.Errors {
			fmt.Printf("  [warn] %v\n", e)
		}

		if err := db.UpsertArticles(result.Articles); err != nil {
			return fmt.Errorf("caching articles: %w", err)
		}
		if err := db.SetLastRefresh(); err != nil {
			return fmt.Errorf("recording refresh: %w", err)
		}
	}

	var w *watch.Watcher
	if cfg.ArticlesFile != "" {
		res, err := snapshot.Import(db, cfg.ArticlesFile)
		if err != nil {
			return fmt.Errorf("importing %s: %w", cfg.ArticlesFile, err)
		}
		debug.Log("imported %d articles, skipped %d", res.Imported, len(res.Skipped))

		w, err = watch.New(cfg.ArticlesFile, watch.WithOnError(func(err error) {
			debug.Log("watching snapshot: %v", err)
		}))
		if err != nil {
			return fmt.Errorf("watching %s: %w", cfg.ArticlesFile, err)
		}
	}

	if debug.Enabled() {
		f, err := tea.LogToFile("searchapp-debug.log", "searchapp")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		debug.SetOutput(f)
	}

	return tui.Run(tui.RunOpts{
		Cfg:      cfg,
		Store:    db,
		Searcher: newSearcher(cfg, db),
		Watcher:  w,
		From:     flagFrom,
		To:       flagTo,
		Query:    flagQuery,
	})
}

// newSearcher returns the API client when an API URL is configured and the
// local cache searcher otherwise.
func newSearcher(cfg *config.Config, db search.Store) search.Searcher {
	client, err := search.NewClient(cfg.ResolvedAPIURL())
	if err != nil {
		debug.Log("search: %v, using the local cache", err)
		return search.NewLocal(db)
	}
	return client
}

// checkRange validates --from and --to. Either may be empty.
func checkRange(from, to string) error {
	var start, end time.Time
	if from != "" {
		t, ok := brush.ParseDate(from, time.Local)
		if !ok {
			return fmt.Errorf("invalid --from value %q: want YYYY-MM-DD", from)
		}
		start = t
	}
	if to != "" {
		t, ok := brush.ParseDate(to, time.Local)
		if !ok {
			return fmt.Errorf("invalid --to value %q: want YYYY-MM-DD", to)
		}
		end = t
	}
	if from != "" && to != "" && end.Before(start) {
		return fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return nil
}
