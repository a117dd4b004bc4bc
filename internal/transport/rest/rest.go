// Package rest is the signaling pod's ambient HTTP surface: health
// checks and, in dev mode, seed endpoints for exercising the store
// without a full auth service. The token-issuing/user-management HTTP
// API itself is out of scope (spec.md §1) — the core only ever consumes
// TokenAuthority/ContactGraph.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/logistics-id/signalhub/internal/engine"
)

type Config struct {
	Server string
	IsDev  bool
}

type HandlerFunc func(*Context) error

type Server struct {
	Router *mux.Router
	config *Config
	logger *zap.Logger
	srv    *http.Server
}

func NewServer(cfg *Config, logger *zap.Logger, register func(*Server)) *Server {
	logger = logger.With(zap.String("component", "transport.rest"))

	r := mux.NewRouter()
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))

	r.HandleFunc("/healthz", healthzHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", readyzHandler).Methods(http.MethodGet)

	s := &Server{Router: r, config: cfg, logger: logger}
	register(s)

	return s
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"host":    os.Getenv("HOSTNAME"),
		"service": "signalhub",
		"time":    time.Now().String(),
	})
}

// readyzHandler reports 503 until engine.DependenciesReady has been
// called, so a load balancer never routes traffic to a pod that hasn't
// finished connecting to Redis/Postgres/the bus.
func readyzHandler(w http.ResponseWriter, r *http.Request) {
	if !engine.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

func (s *Server) handle(method, path string, handler HandlerFunc, mws []func(http.Handler) http.Handler) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := &Context{Context: r.Context(), Request: r, Response: w}
		if err := handler(ctx); err != nil {
			_ = ctx.Error(err)
		}
	})
	s.Router.Handle(path, chainMiddleware(h, mws)).Methods(method)
}

func (s *Server) GET(path string, handler HandlerFunc, mws ...func(http.Handler) http.Handler) {
	s.handle(http.MethodGet, path, handler, mws)
}

func (s *Server) POST(path string, handler HandlerFunc, mws ...func(http.Handler) http.Handler) {
	s.handle(http.MethodPost, path, handler, mws)
}

// Start launches the HTTP server in the background.
func (s *Server) Start(ctx context.Context) {
	s.srv = &http.Server{
		Addr:         s.config.Server,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("rest server started", zap.String("addr", s.config.Server))
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("rest server failed", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("rest server shutdown error", zap.Error(err))
	}
}
