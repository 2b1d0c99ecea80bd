// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/google/renameio/v2"
)

// reportProgress logs a catalog summary after every stage and at the end
// of a scrape.
type reportProgress struct{}

func (reportProgress) Name() string { return "report-progress" }

func (reportProgress) Events() []string { return []string{EventStageComplete, EventScrapeDone} }

func (reportProgress) Run(_ context.Context, env *Env) error {
	sum := catalog.Summarize(env.Makes)
	evt := env.Logger.Info().
		Int("makes", sum.Makes).
		Int("models", sum.Models).
		Int("trims", sum.Trims).
		Int("options", sum.Options)
	if env.Stage != "" {
		evt = evt.Str("stage", env.Stage)
	}
	evt.Msg("scrape progress")
	return nil
}

// verifyDB runs the store integrity checks.
type verifyDB struct{}

func (verifyDB) Name() string { return "verify-db" }

func (verifyDB) Events() []string { return []string{EventScrapeDone} }

func (verifyDB) Run(ctx context.Context, env *Env) error {
	if env.Store == nil {
		return errors.New("no store configured")
	}
	return env.Store.VerifyIntegrity(ctx)
}

// exportJSON writes the catalog to catalog.json. The write is atomic so
// readers never see a partial file.
type exportJSON struct{}

func (exportJSON) Name() string { return "export-json" }

func (exportJSON) Events() []string { return []string{EventScrapeDone} }

func (exportJSON) Run(_ context.Context, env *Env) error {
	data, err := json.MarshalIndent(env.Makes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	path := filepath.Join(env.DataDir, "catalog.json")
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
