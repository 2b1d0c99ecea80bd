// SPDX-License-Identifier: MIT

// Package actions runs lifecycle hooks around a scrape. Which hooks run
// is chosen in the manifest; when they fire is declared per action.
package actions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/alexx-ftw/km77-scraper/internal/metrics"
	"github.com/rs/zerolog"
)

// Lifecycle events. The scrape pipeline dispatches once when a run
// starts, after every completed stage and once at the end.
const (
	EventScrapeStart   = "scrape.start"
	EventStageComplete = "stage.complete"
	EventScrapeDone    = "scrape.complete"
)

// Env is everything an action may need.
type Env struct {
	Event   string // lifecycle event being dispatched
	Stage   string // completed stage, set for stage.complete
	DataDir string
	Makes   []*catalog.Make
	Store   Verifier
	Logger  zerolog.Logger
}

// Verifier is the slice of the store actions depend on.
type Verifier interface {
	VerifyIntegrity(ctx context.Context) error
	Counts(ctx context.Context) (catalog.Summary, error)
}

// Action is a single lifecycle hook. Events lists the lifecycle events
// the action fires on.
type Action interface {
	Name() string
	Events() []string
	Run(ctx context.Context, env *Env) error
}

var registry = map[string]Action{}

func register(a Action) {
	registry[a.Name()] = a
}

func init() {
	register(reportProgress{})
	register(verifyDB{})
	register(exportJSON{})
}

// Names lists the registered actions, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves manifest entries to actions, preserving order.
func Select(enabled []string) ([]Action, error) {
	acts := make([]Action, 0, len(enabled))
	for _, entry := range enabled {
		name, _, _ := strings.Cut(entry, "@")
		a, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown action %q (available: %s)", name, strings.Join(Names(), ", "))
		}
		acts = append(acts, a)
	}
	return acts, nil
}

// Run executes the actions subscribed to env.Event in order. A failing
// action is logged and counted but does not stop the ones after it.
func Run(ctx context.Context, acts []Action, env *Env) error {
	var firstErr error
	for _, a := range acts {
		if !subscribed(a, env.Event) {
			continue
		}
		err := a.Run(ctx, env)
		metrics.IncActionRun(a.Name(), err)
		if err != nil {
			env.Logger.Error().Err(err).Str("action", a.Name()).Msg("action failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("action %s: %w", a.Name(), err)
			}
			continue
		}
		env.Logger.Debug().Str("action", a.Name()).Msg("action completed")
	}
	return firstErr
}

func subscribed(a Action, event string) bool {
	for _, e := range a.Events() {
		if e == event {
			return true
		}
	}
	return false
}
