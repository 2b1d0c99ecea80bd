// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/actions"
	"github.com/alexx-ftw/km77-scraper/internal/cache"
	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/alexx-ftw/km77-scraper/internal/km77"
	"github.com/alexx-ftw/km77-scraper/internal/km77/km77test"
	"github.com/alexx-ftw/km77-scraper/internal/lint"
	"github.com/alexx-ftw/km77-scraper/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps(t *testing.T, base string) Deps {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	fetcher := km77.New(base, km77.Options{RateLimit: 1000, RateBurst: 100})

	return Deps{
		Config: Config{
			DataDir:  t.TempDir(),
			Workers:  4,
			CacheTTL: time.Minute,
		},
		Fetcher: fetcher,
		Cache:   cache.NewMemory(0),
		Store:   s,
		Logger:  zerolog.Nop(),
	}
}

func TestScrapeFullSite(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	deps := testDeps(t, srv.URL)
	makes, findings, err := Scrape(context.Background(), deps)
	require.NoError(t, err)
	assert.Empty(t, findings)

	sum := catalog.Summarize(makes)
	assert.Equal(t, km77test.MakeCount, sum.Makes)
	assert.Equal(t, km77test.ModelCount, sum.Models)
	assert.Equal(t, km77test.TrimCount, sum.Trims)

	trims := catalog.AllTrims(makes)
	require.NotEmpty(t, trims)
	power, ok := trims[0].SpecValue(catalog.SpecPower)
	require.True(t, ok)
	assert.Contains(t, power, "CV")
}

func TestScrapePersistsCatalog(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	deps := testDeps(t, srv.URL)
	_, _, err := Scrape(context.Background(), deps)
	require.NoError(t, err)

	loaded, err := deps.Store.(*store.Store).LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, km77test.MakeCount, len(loaded))
}

func TestScrapeRunsLintersAndActions(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	deps := testDeps(t, srv.URL)

	linters, err := lint.Select([]string{"missing-power", "empty-models"})
	require.NoError(t, err)
	deps.Linters = linters

	acts, err := actions.Select([]string{"verify-db", "export-json"})
	require.NoError(t, err)
	deps.Actions = acts

	_, findings, err := Scrape(context.Background(), deps)
	require.NoError(t, err)
	assert.Empty(t, findings, "fixture site has complete specs")

	_, statErr := os.Stat(filepath.Join(deps.Config.DataDir, "catalog.json"))
	assert.NoError(t, statErr)
}

type recordingAction struct {
	events []string
	stages []string
}

func (r *recordingAction) Name() string { return "recording" }

func (r *recordingAction) Events() []string {
	return []string{actions.EventScrapeStart, actions.EventStageComplete, actions.EventScrapeDone}
}

func (r *recordingAction) Run(_ context.Context, env *actions.Env) error {
	r.events = append(r.events, env.Event)
	if env.Stage != "" {
		r.stages = append(r.stages, env.Stage)
	}
	return nil
}

func TestScrapeDispatchesLifecycleEvents(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	rec := &recordingAction{}
	deps := testDeps(t, srv.URL)
	deps.Actions = []actions.Action{rec}

	var seen []string
	deps.OnStage = func(stage string) { seen = append(seen, stage) }

	_, _, err := Scrape(context.Background(), deps)
	require.NoError(t, err)

	assert.Equal(t, []string{StageMakes, StageModels, StageTrims, StageSpecs, StageSave}, seen)
	assert.Equal(t, actions.EventScrapeStart, rec.events[0])
	assert.Equal(t, actions.EventScrapeDone, rec.events[len(rec.events)-1])
	assert.Equal(t, seen, rec.stages)
}

func TestScrapeUsesPageCache(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	deps := testDeps(t, srv.URL)

	_, _, err := Scrape(context.Background(), deps)
	require.NoError(t, err)

	stats := deps.Cache.Stats()
	firstSets := stats.Sets
	require.Positive(t, firstSets)

	// Second run should hit the cache instead of refetching.
	_, _, err = Scrape(context.Background(), deps)
	require.NoError(t, err)

	stats = deps.Cache.Stats()
	assert.Equal(t, firstSets, stats.Sets)
	assert.Positive(t, stats.Hits)
}

func TestScrapeFailsOnUnreachableSite(t *testing.T) {
	srv := km77test.NewServer()
	base := srv.URL
	srv.Close()

	deps := testDeps(t, base)
	_, _, err := Scrape(context.Background(), deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), StageMakes)
}
