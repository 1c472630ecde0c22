package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhellingsdata/search-app/internal/brush"
	"github.com/jhellingsdata/search-app/internal/cache"
	"github.com/jhellingsdata/search-app/internal/config"
	"github.com/jhellingsdata/search-app/internal/feed"
	"github.com/jhellingsdata/search-app/internal/snapshot"
)

var flagPruneBefore string

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove articles dated before the timeline from the local cache",
	Long: `Delete cached articles dated before a given day and reclaim disk space.

Articles before the start of the timeline (2020-05-01) are never plotted, so
that is the default cut-off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := brush.ParseDate(flagPruneBefore, time.UTC); !ok {
			return fmt.Errorf("invalid --before value %q: want YYYY-MM-DD", flagPruneBefore)
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		deleted, err := db.Prune(flagPruneBefore)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d article(s) dated before %s.\n", deleted, flagPruneBefore)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}
		categories, err := db.Categories()
		if err != nil {
			return fmt.Errorf("reading categories: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Articles: %d\n", count)
		fmt.Printf("Categories: %d\n", len(categories))
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load a corpus snapshot into the local cache",
	Long: `Import a corpus snapshot: a JSON object of articles keyed by slug.

Without an argument the articles_file from the config is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		path := cfg.ArticlesFile
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no snapshot given and articles_file is not set")
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		res, err := snapshot.Import(db, path)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d article(s) from %s.\n", res.Imported, path)
		for _, slug := range res.Skipped {
			fmt.Printf("  [skip] %s: missing title or date\n", slug)
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch new articles from the configured feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		result := feed.FetchAll(ctx, cfg.EnabledSources())

		for _, e := range result.Errors {
			fmt.Printf("  [warn] %v\n", e)
		}
		if err := db.UpsertArticles(result.Articles); err != nil {
			return fmt.Errorf("caching articles: %w", err)
		}
		if err := db.SetLastRefresh(); err != nil {
			return fmt.Errorf("recording refresh: %w", err)
		}
		fmt.Printf("Fetched %d article(s) from %d feed(s).\n", len(result.Articles), len(cfg.EnabledSources()))
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneBefore, "before", "2020-05-01", "delete articles dated before this day (YYYY-MM-DD)")
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
