// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/actions"
	"github.com/alexx-ftw/km77-scraper/internal/cache"
	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/alexx-ftw/km77-scraper/internal/lint"
	"github.com/rs/zerolog"
)

// Fetcher retrieves pages from the catalog site.
type Fetcher interface {
	FetchPage(ctx context.Context, pageURL string) ([]byte, error)
	Base() string
	MakesURL() string
}

// CatalogStore is the slice of the store the scrape pipeline needs.
type CatalogStore interface {
	SaveCatalog(ctx context.Context, makes []*catalog.Make) error
	Counts(ctx context.Context) (catalog.Summary, error)
	VerifyIntegrity(ctx context.Context) error
}

// Config holds scrape pipeline settings.
type Config struct {
	DataDir  string
	Workers  int
	CacheTTL time.Duration
}

// Deps holds all dependencies of a scrape run.
type Deps struct {
	Config  Config
	Fetcher Fetcher
	Cache   cache.Cache
	Store   CatalogStore
	Linters []lint.Linter
	Actions []actions.Action
	Logger  zerolog.Logger

	// OnStage is called as each stage begins. The runner uses it to
	// surface progress in Status.
	OnStage func(stage string)
}

// Job states.
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Scrape stages, in execution order.
const (
	StageMakes  = "makes"
	StageModels = "models"
	StageTrims  = "trims"
	StageSpecs  = "specs"
	StageSave   = "save"
	StageLint   = "lint"
	StageAction = "actions"
)

// Status describes the current or last scrape run.
type Status struct {
	JobID      string          `json:"job_id,omitempty"`
	State      string          `json:"state"`
	Stage      string          `json:"stage,omitempty"`
	StartedAt  time.Time       `json:"started_at,omitzero"`
	FinishedAt time.Time       `json:"finished_at,omitzero"`
	Summary    catalog.Summary `json:"summary"`
	Findings   []lint.Finding  `json:"findings,omitempty"`
	Error      string          `json:"error,omitempty"`
}
