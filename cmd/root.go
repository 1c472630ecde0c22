package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhellingsdata/search-app/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagFrom    string
	flagTo      string
	flagQuery   string
	flagRefresh bool
	flagCheck   bool
)

var rootCmd = &cobra.Command{
	Use:   "searchapp",
	Short: "Search and browse Economics Observatory articles by date",
	Long: `searchapp is a terminal browser for the Economics Observatory article corpus.

Drag across the timeline to limit results to a date range, click to clear it,
and press / to search.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.Flags().StringVar(&flagFrom, "from", "", "initial range start (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&flagTo, "to", "", "initial range end (YYYY-MM-DD)")
	rootCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "initial search query")
	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "force refresh feeds before launching")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(searchCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("searchapp %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		res, err := update.Check(ctx, version)
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
		if res == nil {
			fmt.Println("Up to date.")
			return nil
		}
		fmt.Printf("A newer version is available: %s\n%s\n", res.LatestVersion, res.URL)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
