package proxy

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the search proxy.
type Config struct {
	ListenAddr string
	Upstream   string
	Timeout    time.Duration
}

// FromEnv reads configuration from the environment, loading a .env file in
// the working directory first when one exists.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr: getEnv("SEARCHAPP_LISTEN", ":8000"),
		Upstream:   os.Getenv("SEARCHAPP_UPSTREAM"),
		Timeout:    30 * time.Second,
	}

	if secs := os.Getenv("SEARCHAPP_PROXY_TIMEOUT"); secs != "" {
		var n int
		if _, err := fmt.Sscanf(secs, "%d", &n); err != nil || n <= 0 {
			return Config{}, fmt.Errorf("parse SEARCHAPP_PROXY_TIMEOUT: %q", secs)
		}
		cfg.Timeout = time.Duration(n) * time.Second
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Upstream == "" {
		return errors.New("SEARCHAPP_UPSTREAM is required")
	}
	u, err := url.Parse(c.Upstream)
	if err != nil {
		return fmt.Errorf("parse SEARCHAPP_UPSTREAM: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SEARCHAPP_UPSTREAM must be an http(s) URL, got %q", c.Upstream)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
