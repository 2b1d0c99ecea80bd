// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/manifest"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence ENV > File > Defaults.
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader. configPath may be empty,
// in which case only defaults and environment variables apply.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envInt64(key string, defaultVal int64) int64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt64(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

// Load assembles the configuration: defaults, then file, then environment,
// then validation.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	l.mergeEnvConfig(&cfg)

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "km77.db")
	}
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() AppConfig {
	return AppConfig{
		DataDir:      "/var/lib/km77",
		ManifestPath: manifest.DefaultPath,
		BaseURL:      "https://www.km77.com",
		ListenAddr:   ":8080",
		LogLevel:     "info",
		LogService:   "km77",

		Workers:       4,
		RateLimit:     2.0,
		RateBurst:     4,
		FetchTimeout:  30 * time.Second,
		FetchRetries:  3,
		MaxPageSize:   4 << 20,
		ScrapeOnStart: true,

		CacheBackend: "memory",
		CacheTTL:     24 * time.Hour,
		RedisAddr:    "localhost:6379",
	}
}

// loadFile parses a YAML config file with STRICT decoding; unknown keys
// fail fast to surface misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if err == io.EOF {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, file *FileConfig) {
	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	if file.ManifestPath != "" {
		cfg.ManifestPath = file.ManifestPath
	}
	if file.DBPath != "" {
		cfg.DBPath = file.DBPath
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.ListenAddr != "" {
		cfg.ListenAddr = file.ListenAddr
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogService != "" {
		cfg.LogService = file.LogService
	}

	if file.Scrape.Workers > 0 {
		cfg.Workers = file.Scrape.Workers
	}
	if file.Scrape.RateLimit > 0 {
		cfg.RateLimit = file.Scrape.RateLimit
	}
	if file.Scrape.RateBurst > 0 {
		cfg.RateBurst = file.Scrape.RateBurst
	}
	if file.Scrape.FetchTimeout != "" {
		if d, err := time.ParseDuration(file.Scrape.FetchTimeout); err == nil {
			cfg.FetchTimeout = d
		}
	}
	if file.Scrape.FetchRetries > 0 {
		cfg.FetchRetries = file.Scrape.FetchRetries
	}
	if file.Scrape.MaxPageSize > 0 {
		cfg.MaxPageSize = file.Scrape.MaxPageSize
	}
	if file.Scrape.OnStart != nil {
		cfg.ScrapeOnStart = *file.Scrape.OnStart
	}

	if file.Cache.Backend != "" {
		cfg.CacheBackend = file.Cache.Backend
	}
	if file.Cache.TTL != "" {
		if d, err := time.ParseDuration(file.Cache.TTL); err == nil {
			cfg.CacheTTL = d
		}
	}
	if file.Cache.Redis != "" {
		cfg.RedisAddr = file.Cache.Redis
	}
	if file.Cache.Password != "" {
		cfg.RedisPassword = file.Cache.Password
	}
	if file.Cache.DB != 0 {
		cfg.RedisDB = file.Cache.DB
	}
}

// mergeEnvConfig applies environment overrides, the highest priority.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.DataDir = l.envString("KM77_DATA", cfg.DataDir)
	cfg.ManifestPath = l.envString("KM77_MANIFEST", cfg.ManifestPath)
	cfg.DBPath = l.envString("KM77_DB", cfg.DBPath)
	cfg.BaseURL = l.envString("KM77_BASE_URL", cfg.BaseURL)
	cfg.ListenAddr = l.envString("KM77_LISTEN", cfg.ListenAddr)
	cfg.LogLevel = l.envString("KM77_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("KM77_LOG_SERVICE", cfg.LogService)

	cfg.Workers = l.envInt("KM77_WORKERS", cfg.Workers)
	cfg.RateLimit = l.envFloat("KM77_RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = l.envInt("KM77_RATE_BURST", cfg.RateBurst)
	cfg.FetchTimeout = l.envDuration("KM77_FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FetchRetries = l.envInt("KM77_FETCH_RETRIES", cfg.FetchRetries)
	cfg.MaxPageSize = l.envInt64("KM77_MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.ScrapeOnStart = l.envBool("KM77_SCRAPE_ON_START", cfg.ScrapeOnStart)

	cfg.CacheBackend = l.envString("KM77_CACHE", cfg.CacheBackend)
	cfg.CacheTTL = l.envDuration("KM77_CACHE_TTL", cfg.CacheTTL)
	cfg.RedisAddr = l.envString("KM77_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = l.envString("KM77_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = l.envInt("KM77_REDIS_DB", cfg.RedisDB)
}
