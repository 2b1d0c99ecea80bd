// SPDX-License-Identifier: MIT

// km77d is the scraper daemon: it walks the km77.com catalog on demand,
// persists the results and serves them over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/actions"
	"github.com/alexx-ftw/km77-scraper/internal/api"
	"github.com/alexx-ftw/km77-scraper/internal/cache"
	"github.com/alexx-ftw/km77-scraper/internal/config"
	"github.com/alexx-ftw/km77-scraper/internal/jobs"
	"github.com/alexx-ftw/km77-scraper/internal/km77"
	"github.com/alexx-ftw/km77-scraper/internal/lint"
	kmlog "github.com/alexx-ftw/km77-scraper/internal/log"
	"github.com/alexx-ftw/km77-scraper/internal/manifest"
	"github.com/alexx-ftw/km77-scraper/internal/metrics"
	"github.com/alexx-ftw/km77-scraper/internal/plugins"
	"github.com/alexx-ftw/km77-scraper/internal/store"
	"github.com/alexx-ftw/km77-scraper/internal/validate"
	"github.com/rs/zerolog"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	kmlog.Configure(kmlog.Config{
		Level:   "info",
		Service: "km77",
		Version: version,
	})
	logger := kmlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	kmlog.Configure(kmlog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	m := loadManifest(cfg, logger)
	checkRuntimePins(m, logger)

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().Err(err).Str(kmlog.FieldPath, cfg.DataDir).Msg("create data dir")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str(kmlog.FieldPath, cfg.DBPath).Msg("open store")
	}
	defer func() { _ = st.Close() }()

	pageCache := buildCache(cfg, logger)
	defer func() {
		if mc, ok := pageCache.(*cache.MemoryCache); ok {
			mc.Stop()
		}
	}()

	linters, err := lint.Select(m.Lint.Enabled)
	if err != nil {
		logger.Fatal().Err(err).Msg("manifest lint.enabled")
	}
	acts, err := actions.Select(m.Actions.Enabled)
	if err != nil {
		logger.Fatal().Err(err).Msg("manifest actions.enabled")
	}

	fetcher := km77.New(cfg.BaseURL, km77.Options{
		Timeout:     cfg.FetchTimeout,
		Retries:     cfg.FetchRetries,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		MaxBodySize: m.Lint.MaxFileSize(cfg.MaxPageSize),
		UserAgent:   "km77-scraper/" + version,
	})

	runner := jobs.NewRunner(jobs.Deps{
		Config: jobs.Config{
			DataDir:  cfg.DataDir,
			Workers:  cfg.Workers,
			CacheTTL: cfg.CacheTTL,
		},
		Fetcher: fetcher,
		Cache:   pageCache,
		Store:   st,
		Linters: linters,
		Actions: acts,
		Logger:  kmlog.WithComponent("jobs"),
	})

	apiServer := api.New(api.Config{
		Version:         version,
		ManifestVersion: m.Version,
		CLIVersion:      m.CLI.Version,
		RateLimit:       int(cfg.RateLimit * 60),
		RateWindow:      time.Minute,
		ReadinessPing: func(ctx context.Context) error {
			return st.DB().PingContext(ctx)
		},
	}, api.Deps{
		Runner:   runner,
		Store:    st,
		Resolver: plugins.NewStaticResolver(m.Plugins.Sources),
		Logger:   kmlog.WithComponent("api"),
	})

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("addr", cfg.ListenAddr).
		Str(kmlog.FieldBaseURL, cfg.BaseURL).
		Int("workers", cfg.Workers).
		Msg("starting km77d")

	if cfg.ScrapeOnStart {
		if _, err := runner.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("initial scrape failed to start")
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Str("event", "shutdown").Msg("signal received, shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// loadManifest reads the manifest named in the config. A missing manifest
// is only fatal when the operator pointed at one explicitly.
func loadManifest(cfg config.AppConfig, logger zerolog.Logger) *manifest.Document {
	path := cfg.ManifestPath
	explicit := path != manifest.DefaultPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.DataDir, path)
	}

	doc, err := manifest.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, manifest.ErrNotFound) {
			logger.Info().Str(kmlog.FieldPath, path).Msg("no manifest, using defaults")
			return &manifest.Document{}
		}
		var verr validate.ValidationError
		if errors.As(err, &verr) {
			metrics.IncManifestValidationError()
		}
		logger.Fatal().Err(err).Str(kmlog.FieldPath, path).Msg("load manifest")
	}

	logger.Info().
		Str("event", "manifest.loaded").
		Str(kmlog.FieldPath, path).
		Strs("linters", doc.Lint.Enabled).
		Strs("actions", doc.Actions.Enabled).
		Msg("manifest loaded")
	return doc
}

// checkRuntimePins warns when a runtimes.enabled pin disagrees with the
// running binary. Pins are advisory.
func checkRuntimePins(m *manifest.Document, logger zerolog.Logger) {
	for _, pin := range m.Runtimes.Enabled {
		name, want, ok := strings.Cut(pin, "@")
		if !ok || name != "go" {
			continue
		}
		have := strings.TrimPrefix(runtime.Version(), "go")
		if !strings.HasPrefix(have, want) {
			logger.Warn().
				Str("pinned", want).
				Str("running", have).
				Msg("go runtime differs from manifest pin")
		}
	}
}

func buildCache(cfg config.AppConfig, logger zerolog.Logger) cache.Cache {
	switch cfg.CacheBackend {
	case "redis":
		c, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, kmlog.WithComponent("cache"))
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, falling back to memory cache")
			return cache.NewMemory(10 * time.Minute)
		}
		return c
	default:
		return cache.NewMemory(10 * time.Minute)
	}
}
