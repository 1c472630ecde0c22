package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jhellingsdata/search-app/internal/cache"
	"github.com/jhellingsdata/search-app/internal/category"
	"github.com/jhellingsdata/search-app/internal/config"
	"github.com/jhellingsdata/search-app/internal/search"
)

var (
	flagSearchFrom     string
	flagSearchTo       string
	flagSearchCategory string
	flagSearchTopK     int
	flagSearchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search articles without opening the browser",
	Long: `Search the corpus from the command line.

Uses the search API when api_url (or SEARCHAPP_API_URL) is set and the local
cache otherwise. --category accepts any unambiguous prefix of a category name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkRange(flagSearchFrom, flagSearchTo); err != nil {
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

		req := search.Request{
			Query:    strings.Join(args, " "),
			TopK:     cfg.GetTopK(),
			DateFrom: flagSearchFrom,
			DateTo:   flagSearchTo,
		}
		if flagSearchTopK > 0 {
			req.TopK = flagSearchTopK
		}
		if flagSearchCategory != "" {
			names, err := db.Categories()
			if err != nil {
				return fmt.Errorf("reading categories: %w", err)
			}
			req.Category, err = category.Resolve(flagSearchCategory, names)
			if err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		resp, err := newSearcher(cfg, db).Search(ctx, req)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		if flagSearchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		printResults(os.Stdout, resp)
		return nil
	},
}

func printResults(w io.Writer, resp search.Response) {
	if len(resp.Results) == 0 {
		fmt.Fprintf(w, "No results for %q.\n", resp.Query)
		return
	}
	for i, r := range resp.Results {
		fmt.Fprintf(w, "%2d. %s\n", i+1, r.Title)
		meta := r.Date
		if r.MainCategory != "" {
			meta += " · " + r.MainCategory
		}
		if r.Score > 0 {
			meta += fmt.Sprintf(" · %.2f", r.Score)
		}
		fmt.Fprintf(w, "    %s\n", meta)
		if r.URL != "" {
			fmt.Fprintf(w, "    %s\n", r.URL)
		}
	}
	fmt.Fprintf(w, "\n%d result(s) in %.2fs\n", len(resp.Results), resp.SearchTime)
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchFrom, "from", "", "only articles on or after this day (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&flagSearchTo, "to", "", "only articles on or before this day (YYYY-MM-DD)")
	searchCmd.Flags().StringVarP(&flagSearchCategory, "category", "c", "", "only articles in this category")
	searchCmd.Flags().IntVarP(&flagSearchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "print the raw response as JSON")
}
