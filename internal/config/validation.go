// SPDX-License-Identifier: MIT

package config

import (
	"github.com/alexx-ftw/km77-scraper/internal/validate"
)

// Validate checks an AppConfig for consistency before the daemon starts.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.URL("BaseURL", cfg.BaseURL, []string{"http", "https"})
	v.NotEmpty("DataDir", cfg.DataDir)
	v.NotEmpty("DBPath", cfg.DBPath)
	v.NotEmpty("ListenAddr", cfg.ListenAddr)

	v.Custom("LogLevel", cfg.LogLevel, func(interface{}) error {
		_, err := validate.ParseLogLevel(cfg.LogLevel)
		return err
	})

	v.Range("Workers", cfg.Workers, 1, 64)
	if cfg.RateLimit <= 0 {
		v.AddError("RateLimit", "must be > 0 requests per second", cfg.RateLimit)
	}
	v.Positive("RateBurst", int64(cfg.RateBurst))
	v.Range("FetchRetries", cfg.FetchRetries, 0, 10)
	if cfg.FetchTimeout <= 0 {
		v.AddError("FetchTimeout", "must be positive", cfg.FetchTimeout)
	}
	v.Positive("MaxPageSize", cfg.MaxPageSize)

	v.OneOf("CacheBackend", cfg.CacheBackend, []string{"memory", "redis"})
	if cfg.CacheBackend == "redis" {
		v.NotEmpty("RedisAddr", cfg.RedisAddr)
		v.NonNegative("RedisDB", int64(cfg.RedisDB))
	}

	if !v.IsValid() {
		return v.Err()
	}
	return nil
}
