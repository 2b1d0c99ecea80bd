// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/catalog"
	"github.com/alexx-ftw/km77-scraper/internal/log"
	"github.com/google/uuid"
)

// ErrAlreadyRunning is returned when a scrape is requested while one is
// still in flight.
var ErrAlreadyRunning = errors.New("scrape already running")

// Runner serializes scrape runs and tracks the last status.
type Runner struct {
	deps Deps

	mu     sync.Mutex
	status Status
	active bool
}

// NewRunner creates a runner for the given dependencies.
func NewRunner(deps Deps) *Runner {
	return &Runner{
		deps:   deps,
		status: Status{State: StateIdle},
	}
}

// Status returns a copy of the current status.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Start launches a scrape in the background. It returns the job id, or
// ErrAlreadyRunning when one is in flight.
func (r *Runner) Start(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return "", ErrAlreadyRunning
	}
	jobID := uuid.NewString()
	r.active = true
	r.status = Status{
		JobID:     jobID,
		State:     StateRunning,
		StartedAt: time.Now().UTC(),
	}
	r.mu.Unlock()

	go r.run(log.ContextWithJobID(ctx, jobID), jobID)
	return jobID, nil
}

// Run executes a scrape synchronously and returns its final status.
func (r *Runner) Run(ctx context.Context) (Status, error) {
	jobID, err := r.Start(ctx)
	if err != nil {
		return r.Status(), err
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return r.Status(), ctx.Err()
		case <-ticker.C:
			st := r.Status()
			if st.JobID == jobID && st.State != StateRunning {
				if st.Error != "" {
					return st, errors.New(st.Error)
				}
				return st, nil
			}
		}
	}
}

func (r *Runner) run(ctx context.Context, jobID string) {
	logger := r.deps.Logger.With().Str(log.FieldJobID, jobID).Logger()
	logger.Info().Str("event", "scrape.start").Msg("starting scrape")

	deps := r.deps
	deps.Logger = logger
	deps.OnStage = func(stage string) {
		r.mu.Lock()
		r.status.Stage = stage
		r.mu.Unlock()
	}

	makes, findings, err := Scrape(ctx, deps)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	r.status.Stage = ""
	r.status.FinishedAt = time.Now().UTC()
	r.status.Findings = findings
	if err != nil {
		r.status.State = StateFailed
		r.status.Error = err.Error()
		logger.Error().Err(err).Str("event", "scrape.failed").Msg("scrape failed")
		return
	}
	r.status.State = StateCompleted
	r.status.Summary = catalog.Summarize(makes)
	logger.Info().
		Str("event", "scrape.done").
		Int("makes", r.status.Summary.Makes).
		Int("trims", r.status.Summary.Trims).
		Int("findings", len(findings)).
		Msg("scrape completed")
}
