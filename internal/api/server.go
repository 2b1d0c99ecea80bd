// SPDX-License-Identifier: MIT

// Package api exposes the scraped catalog and scrape controls over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/alexx-ftw/km77-scraper/internal/jobs"
	"github.com/alexx-ftw/km77-scraper/internal/plugins"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// CatalogReader is the slice of the store the API reads from.
type CatalogReader interface {
	LoadCatalog(ctx context.Context) ([]*catalog.Make, error)
	Counts(ctx context.Context) (catalog.Summary, error)
}

// Config holds server settings.
type Config struct {
	Version         string
	ManifestVersion string        // manifest schema version, empty without a manifest
	CLIVersion      string        // cli.version pin from the manifest
	RateLimit       int           // requests per window per client, 0 disables
	RateWindow      time.Duration // defaults to one minute
	ReadinessPing   func(ctx context.Context) error
}

// Deps holds the server's collaborators.
type Deps struct {
	Runner   *jobs.Runner
	Store    CatalogReader
	Resolver plugins.Resolver
	Logger   zerolog.Logger
}

// Server is the HTTP API server.
type Server struct {
	cfg    Config
	deps   Deps
	router *chi.Mux
}

// New builds the router with the full middleware stack and routes.
func New(cfg Config, deps Deps) *Server {
	s := &Server{cfg: cfg, deps: deps}

	r := chi.NewRouter()
	r.Use(recoverer(deps.Logger))
	r.Use(requestID)
	r.Use(requestLogger(deps.Logger))
	if cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(rateLimit(cfg.RateLimit, window))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/makes", s.handleMakes)
		r.Get("/makes/{slug}", s.handleMake)
		r.Get("/trims", s.handleTrims)
		r.Get("/plugins", s.handlePlugins)
		r.Post("/scrape", s.handleScrape)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
