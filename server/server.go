// Package server is the hosted side of PaperHub: the streaming chat endpoint
// and the comments and likes API the clients' RemoteStore talks to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"paperhub/model"
	"paperhub/storage"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Store    storage.Store
	Upstream model.Provider
	Logger   *slog.Logger

	// RatePerSecond and Burst size the per-client limiter on mutating
	// routes. Zero values fall back to 5 and 10.
	RatePerSecond float64
	Burst         int
}

// Server routes the HTTP API.
type Server struct {
	store    storage.Store
	upstream model.Provider
	logger   *slog.Logger
	metrics  *Metrics
	limiters *limiterPool
	router   *mux.Router
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:    opts.Store,
		upstream: opts.Upstream,
		logger:   logger,
		metrics:  NewMetrics(),
		limiters: newLimiterPool(opts.RatePerSecond, opts.Burst),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument, s.rateLimit)

	r.HandleFunc("/healthz", healthzHandler).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	s.registerStore(api)

	return r
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server_listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the JSON error body for every route.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details error) {
	body := errorResponse{Error: msg}
	if details != nil {
		body.Details = details.Error()
	}
	writeJSON(w, status, body)
}
