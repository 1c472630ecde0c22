package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhellingsdata/search-app/internal/proxy"
)

var flagListen string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Relay search requests to the search backend",
	Long: `Run a small HTTP relay in front of the search backend.

Settings come from the environment, optionally loaded from a .env file:

  SEARCHAPP_UPSTREAM       backend base URL (required)
  SEARCHAPP_LISTEN         listen address (default :8000)
  SEARCHAPP_PROXY_TIMEOUT  upstream timeout in seconds (default 30)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := proxy.FromEnv()
		if err != nil {
			return fmt.Errorf("proxy config: %w", err)
		}
		if flagListen != "" {
			cfg.ListenAddr = flagListen
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := log.New(os.Stderr, "[proxy] ", log.LstdFlags)
		return proxy.NewServer(cfg, logger).Run(ctx, cfg.ListenAddr)
	},
}

func init() {
	proxyCmd.Flags().StringVar(&flagListen, "listen", "", "listen address, overriding SEARCHAPP_LISTEN")
}
