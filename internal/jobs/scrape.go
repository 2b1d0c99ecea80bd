// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/actions"
	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/alexx-ftw/km77-scraper/internal/km77"
	"github.com/alexx-ftw/km77-scraper/internal/lint"
	"github.com/alexx-ftw/km77-scraper/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Scrape walks the whole catalog: makes, then each make's models, each
// model's trims and each trim's spec pages. Stages after the first run
// with bounded parallelism.
func Scrape(ctx context.Context, deps Deps) ([]*catalog.Make, []lint.Finding, error) {
	workers := deps.Config.Workers
	if workers < 1 {
		workers = 1
	}

	// Start and stage hooks never fail the run; failures are logged and
	// counted inside actions.Run. Only completion hooks do.
	var makes []*catalog.Make
	fireActions(ctx, deps, actions.EventScrapeStart, "", nil)
	stage := func(name string, fn func(context.Context) error) error {
		if err := runStage(ctx, deps, name, fn); err != nil {
			return err
		}
		fireActions(ctx, deps, actions.EventStageComplete, name, makes)
		return nil
	}

	if err := stage(StageMakes, func(ctx context.Context) error {
		var err error
		makes, err = scrapeMakes(ctx, deps)
		return err
	}); err != nil {
		return nil, nil, err
	}

	if err := stage(StageModels, func(ctx context.Context) error {
		return scrapeModels(ctx, deps, makes, workers)
	}); err != nil {
		return nil, nil, err
	}
	if err := stage(StageTrims, func(ctx context.Context) error {
		return scrapeTrims(ctx, deps, makes, workers)
	}); err != nil {
		return nil, nil, err
	}
	if err := stage(StageSpecs, func(ctx context.Context) error {
		return scrapeSpecs(ctx, deps, makes, workers)
	}); err != nil {
		return nil, nil, err
	}

	if deps.Store != nil {
		if err := stage(StageSave, func(ctx context.Context) error {
			return deps.Store.SaveCatalog(ctx, makes)
		}); err != nil {
			return nil, nil, err
		}
	}

	sum := catalog.Summarize(makes)
	metrics.RecordCatalogCounts(sum.Makes, sum.Models, sum.Trims)

	findings := lint.Run(deps.Linters, makes)
	for _, f := range findings {
		metrics.IncLintFinding(f.Linter)
	}

	if err := completionActions(ctx, deps, makes); err != nil {
		metrics.IncScrapeFailure(StageAction)
		return makes, findings, err
	}

	return makes, findings, nil
}

func fireActions(ctx context.Context, deps Deps, event, stage string, makes []*catalog.Make) {
	if len(deps.Actions) == 0 {
		return
	}
	_ = actions.Run(ctx, deps.Actions, &actions.Env{
		Event:   event,
		Stage:   stage,
		DataDir: deps.Config.DataDir,
		Makes:   makes,
		Store:   deps.Store,
		Logger:  deps.Logger,
	})
}

func completionActions(ctx context.Context, deps Deps, makes []*catalog.Make) error {
	if len(deps.Actions) == 0 {
		return nil
	}
	return actions.Run(ctx, deps.Actions, &actions.Env{
		Event:   actions.EventScrapeDone,
		DataDir: deps.Config.DataDir,
		Makes:   makes,
		Store:   deps.Store,
		Logger:  deps.Logger,
	})
}

func runStage(ctx context.Context, deps Deps, stage string, fn func(context.Context) error) error {
	if deps.OnStage != nil {
		deps.OnStage(stage)
	}
	start := time.Now()
	err := fn(ctx)
	metrics.ObserveStageDuration(stage, time.Since(start).Seconds())
	if err != nil {
		metrics.IncScrapeFailure(stage)
		return fmt.Errorf("%s: %w", stage, err)
	}
	deps.Logger.Info().
		Str("stage", stage).
		Dur("took", time.Since(start)).
		Msg("stage completed")
	return nil
}

func scrapeMakes(ctx context.Context, deps Deps) ([]*catalog.Make, error) {
	page, err := fetchCached(ctx, deps, deps.Fetcher.MakesURL())
	if err != nil {
		return nil, err
	}

	makes, err := km77.ParseMakes(page, deps.Fetcher.Base())
	if err != nil {
		metrics.IncParseFailure(StageMakes)
		return nil, err
	}
	for _, mk := range makes {
		mk.ID = catalog.StableID(mk.Name, mk.URL)
	}

	deps.Logger.Info().Int("makes", len(makes)).Msg("makes discovered")
	return makes, nil
}

func scrapeModels(ctx context.Context, deps Deps, makes []*catalog.Make, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, mk := range makes {
		g.Go(func() error {
			page, err := fetchCached(ctx, deps, mk.URL)
			if err != nil {
				return fmt.Errorf("make %s: %w", mk.Slug, err)
			}
			models, err := km77.ParseModels(page, deps.Fetcher.Base())
			if err != nil {
				metrics.IncParseFailure(StageModels)
				return fmt.Errorf("make %s: %w", mk.Slug, err)
			}
			for _, mdl := range models {
				mdl.ID = catalog.StableID(mdl.Name, mdl.URL)
				mdl.MakeID = mk.ID
				mk.AddModel(mdl)
			}
			return nil
		})
	}
	return g.Wait()
}

func scrapeTrims(ctx context.Context, deps Deps, makes []*catalog.Make, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, mk := range makes {
		for _, mdl := range mk.Models {
			g.Go(func() error {
				page, err := fetchCached(ctx, deps, mdl.URL)
				if err != nil {
					return fmt.Errorf("model %s: %w", mdl.Slug, err)
				}
				trims, err := km77.ParseTrims(page, deps.Fetcher.Base())
				if err != nil {
					metrics.IncParseFailure(StageTrims)
					return fmt.Errorf("model %s: %w", mdl.Slug, err)
				}
				for _, tr := range trims {
					tr.ID = catalog.StableID(tr.Name, tr.URL)
					tr.ModelID = mdl.ID
					mdl.AddTrim(tr)
				}
				return nil
			})
		}
	}
	return g.Wait()
}

func scrapeSpecs(ctx context.Context, deps Deps, makes []*catalog.Make, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, tr := range catalog.AllTrims(makes) {
		g.Go(func() error {
			specPage, err := fetchCached(ctx, deps, tr.URL)
			if err != nil {
				return fmt.Errorf("trim %s: %w", tr.Slug, err)
			}
			specs, _, err := km77.ParseSpecGroups(specPage)
			if err != nil {
				metrics.IncParseFailure(StageSpecs)
				return fmt.Errorf("trim %s: %w", tr.Slug, err)
			}
			tr.Specs = specs

			// Options live on a separate equipment page. A trim without
			// one is not an error.
			optionsPage, err := fetchCached(ctx, deps, tr.URL+"/equipamiento")
			if err != nil {
				deps.Logger.Debug().Err(err).Str("trim", tr.Slug).Msg("no equipment page")
				return nil
			}
			_, options, err := km77.ParseSpecGroups(optionsPage)
			if err != nil {
				metrics.IncParseFailure(StageSpecs)
				return fmt.Errorf("trim %s equipment: %w", tr.Slug, err)
			}
			tr.Options = options
			return nil
		})
	}
	return g.Wait()
}

func fetchCached(ctx context.Context, deps Deps, pageURL string) ([]byte, error) {
	if deps.Cache != nil {
		if page, ok := deps.Cache.Get(pageURL); ok {
			metrics.RecordCacheHit(true)
			metrics.IncPageFetched("cached")
			return page, nil
		}
		metrics.RecordCacheHit(false)
	}

	start := time.Now()
	page, err := deps.Fetcher.FetchPage(ctx, pageURL)
	metrics.ObserveFetchDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.IncPageFetched("error")
		return nil, err
	}
	metrics.IncPageFetched("success")

	if deps.Cache != nil {
		deps.Cache.Set(pageURL, page, deps.Config.CacheTTL)
	}
	return page, nil
}
