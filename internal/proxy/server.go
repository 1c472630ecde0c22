// Package proxy relays search requests from clients to the search backend
// without interpreting them.
package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 64 << 10

type Server struct {
	upstream string
	client   *http.Client
	logger   *log.Logger
}

func NewServer(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		upstream: strings.TrimRight(cfg.Upstream, "/"),
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.health)
	mux.HandleFunc("/search", s.relay(http.MethodPost, "/search"))
	mux.HandleFunc("/categories", s.relay(http.MethodGet, "/categories"))
	mux.HandleFunc("/stats", s.relay(http.MethodGet, "/stats"))
	return mux
}

// Handler is Routes wrapped in the request id, logging and CORS middleware.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.withLogging(withCORS(s.Routes())))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "search proxy is running",
	})
}

func (s *Server) relay(method, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var body io.Reader
		if method == http.MethodPost {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(r.Context(), method, s.upstream+path, body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		req.Header.Set("Accept", "application/json")
		if id := RequestID(r.Context()); id != "" {
			req.Header.Set(requestIDHeader, id)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			s.logger.Printf("[%s] upstream %s: %v", RequestID(r.Context()), path, err)
			writeError(w, http.StatusBadGateway, "search backend unavailable")
			return
		}
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			s.logger.Printf("[%s] copying upstream response: %v", RequestID(r.Context()), err)
		}
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: s.client.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("search proxy listening on %s, upstream %s", addr, s.upstream)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError uses the backend's {"detail": ...} shape so clients handle
// proxy and upstream failures the same way.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
