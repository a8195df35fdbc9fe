// Package web provides the JSON API for the field visits engine.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/evcraddock/field-visits/internal/catalog"
	"github.com/evcraddock/field-visits/internal/logging"
	"github.com/evcraddock/field-visits/internal/visit"
)

// Server is the JSON API HTTP server.
type Server struct {
	engine  *visit.Engine
	catalog *catalog.Repository
	loc     *time.Location
	nowFunc func() time.Time // for testing; defaults to time.Now
	mux     *http.ServeMux
}

// NewServer creates an API server over the lifecycle engine and catalog.
// Scheduled times are interpreted in loc (time.Local when nil).
func NewServer(engine *visit.Engine, cat *catalog.Repository, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		engine:  engine,
		catalog: cat,
		loc:     loc,
		nowFunc: time.Now,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/visits", s.handleAPIVisits)
	s.mux.HandleFunc("/api/visits/", s.handleAPIVisits)
	s.mux.HandleFunc("/api/calendar", s.apiCalendar)
	s.mux.HandleFunc("/api/summary", s.apiSummary)
	for _, k := range catalog.ValidKinds {
		s.mux.HandleFunc("/api/"+string(k), s.handleAPICatalog)
		s.mux.HandleFunc("/api/"+string(k)+"/", s.handleAPICatalog)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// now returns the current time in the server's time zone.
func (s *Server) now() time.Time {
	return s.nowFunc().In(s.loc)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           logging.RequestLogger(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
