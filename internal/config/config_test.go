// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewLoader("", "test-version")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "https://www.km77.com" {
		t.Errorf("expected BaseURL=https://www.km77.com, got %s", cfg.BaseURL)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Workers)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("expected FetchTimeout=30s, got %v", cfg.FetchTimeout)
	}
	if cfg.FetchRetries != 3 {
		t.Errorf("expected FetchRetries=3, got %d", cfg.FetchRetries)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("expected CacheBackend=memory, got %s", cfg.CacheBackend)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.DBPath != filepath.Join(cfg.DataDir, "km77.db") {
		t.Errorf("expected DBPath derived from DataDir, got %s", cfg.DBPath)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := fmt.Sprintf(`
dataDir: %s
baseUrl: http://km77.test
listenAddr: ":9090"
scrape:
  workers: 8
  rateLimit: 0.5
  fetchTimeout: 20s
cache:
  backend: redis
  redis: redis.local:6379
`, tmpDir)

	if err := os.WriteFile(configPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoader(configPath, "1.0.0")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "http://km77.test" {
		t.Errorf("expected BaseURL=http://km77.test, got %s", cfg.BaseURL)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Workers)
	}
	if cfg.RateLimit != 0.5 {
		t.Errorf("expected RateLimit=0.5, got %f", cfg.RateLimit)
	}
	if cfg.FetchTimeout != 20*time.Second {
		t.Errorf("expected FetchTimeout=20s, got %v", cfg.FetchTimeout)
	}
	if cfg.CacheBackend != "redis" {
		t.Errorf("expected CacheBackend=redis, got %s", cfg.CacheBackend)
	}
	if cfg.RedisAddr != "redis.local:6379" {
		t.Errorf("expected RedisAddr=redis.local:6379, got %s", cfg.RedisAddr)
	}
}

func TestENVOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := fmt.Sprintf(`
dataDir: %s
baseUrl: http://file.local
scrape:
  workers: 2
`, tmpDir)

	if err := os.WriteFile(configPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("KM77_BASE_URL", "http://env.local")
	t.Setenv("KM77_WORKERS", "6")

	loader := NewLoader(configPath, "1.0.0")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "http://env.local" {
		t.Errorf("expected ENV to override file: got %s", cfg.BaseURL)
	}
	if cfg.Workers != 6 {
		t.Errorf("expected ENV to override file: got %d", cfg.Workers)
	}
	if _, ok := loader.ConsumedEnvKeys["KM77_BASE_URL"]; !ok {
		t.Error("expected KM77_BASE_URL to be tracked as consumed")
	}
}

func TestStrictFileParsing(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("bogusKey: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(configPath, "1.0.0")
	if _, err := loader.Load(); err == nil {
		t.Error("unknown keys in the config file must fail strict parsing")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad base url", func(c *AppConfig) { c.BaseURL = "ftp://example.com" }},
		{"zero workers", func(c *AppConfig) { c.Workers = 0 }},
		{"negative rate", func(c *AppConfig) { c.RateLimit = -1 }},
		{"bad cache backend", func(c *AppConfig) { c.CacheBackend = "etcd" }},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "verbose" }},
		{"zero page size", func(c *AppConfig) { c.MaxPageSize = 0 }},
		{"negative redis db", func(c *AppConfig) {
			c.CacheBackend = "redis"
			c.RedisAddr = "localhost:6379"
			c.RedisDB = -1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.DBPath = "/tmp/km77.db"
			tt.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
