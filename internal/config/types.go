// SPDX-License-Identifier: MIT

// Package config provides process configuration for the scraper daemon
// with precedence ENV > file > defaults.
package config

import "time"

// AppConfig is the effective daemon configuration. It is assembled once at
// startup and passed explicitly to collaborators; there is no global
// configuration singleton.
type AppConfig struct {
	DataDir      string
	ManifestPath string
	DBPath       string
	BaseURL      string
	ListenAddr   string
	LogLevel     string
	LogService   string
	Version      string

	// Scrape pipeline
	Workers       int
	RateLimit     float64 // requests per second against km77.com
	RateBurst     int
	FetchTimeout  time.Duration
	FetchRetries  int
	MaxPageSize   int64 // fallback when the manifest sets no lint.default_max_file_size
	ScrapeOnStart bool

	// Page source cache
	CacheBackend  string // "memory" or "redis"
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// FileConfig is the YAML representation of AppConfig. All fields are
// optional; absent values fall back to defaults.
type FileConfig struct {
	DataDir      string `yaml:"dataDir,omitempty"`
	ManifestPath string `yaml:"manifestPath,omitempty"`
	DBPath       string `yaml:"dbPath,omitempty"`
	BaseURL      string `yaml:"baseUrl,omitempty"`
	ListenAddr   string `yaml:"listenAddr,omitempty"`
	LogLevel     string `yaml:"logLevel,omitempty"`
	LogService   string `yaml:"logService,omitempty"`

	Scrape ScrapeFileConfig `yaml:"scrape,omitempty"`
	Cache  CacheFileConfig  `yaml:"cache,omitempty"`
}

// ScrapeFileConfig holds pipeline tuning knobs. Durations are Go duration
// strings ("30s", "1m") parsed during merge.
type ScrapeFileConfig struct {
	Workers      int     `yaml:"workers,omitempty"`
	RateLimit    float64 `yaml:"rateLimit,omitempty"`
	RateBurst    int     `yaml:"rateBurst,omitempty"`
	FetchTimeout string  `yaml:"fetchTimeout,omitempty"`
	FetchRetries int     `yaml:"fetchRetries,omitempty"`
	MaxPageSize  int64   `yaml:"maxPageSize,omitempty"`
	OnStart      *bool   `yaml:"onStart,omitempty"`
}

// CacheFileConfig holds page-source cache settings.
type CacheFileConfig struct {
	Backend  string `yaml:"backend,omitempty"`
	TTL      string `yaml:"ttl,omitempty"`
	Redis    string `yaml:"redis,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}
