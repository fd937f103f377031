package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/compass/internal/catalog"
	"github.com/ziadkadry99/compass/internal/explorer"
	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/logger"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool          // allow all CORS origins (dev mode)
	RequestTimeout time.Duration // applies to /api and /map, never to websockets
	RelatedLimit   int
	MapTitle       string
	Layout         layout.Options
	MapWidth       float64
	MapHeight      float64
}

// Server serves the catalog graph, the static map and the interactive views.
type Server struct {
	cfg        Config
	catalog    *catalog.Store
	views      *explorer.Manager
	router     chi.Router
	httpServer *http.Server
	log        *zap.Logger
}

// New creates a server over the given catalog and view manager.
func New(cfg Config, store *catalog.Store, views *explorer.Manager) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		catalog: store,
		views:   views,
		log:     logger.Get().Named("server"),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		RegisterGraphRoutes(r, s.catalog, s.cfg.RelatedLimit)
		r.Get("/map", s.mapHandler)
	})

	if s.views != nil {
		explorer.RegisterRoutes(r, s.views, s.catalog)
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Catalog returns the resource catalog.
func (s *Server) Catalog() *catalog.Store { return s.catalog }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("compass server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes every open view.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.views != nil {
		s.views.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
