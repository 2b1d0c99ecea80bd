// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alexx-ftw/km77-scraper/internal/km77/km77test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRunCompletes(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	r := NewRunner(testDeps(t, srv.URL))

	status, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, status.State)
	assert.Equal(t, km77test.MakeCount, status.Summary.Makes)
	assert.NotEmpty(t, status.JobID)
	assert.False(t, status.FinishedAt.IsZero())
	assert.Empty(t, status.Stage, "stage clears once the run ends")
}

func TestRunnerRejectsConcurrentRuns(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	deps := testDeps(t, srv.URL)
	r := NewRunner(deps)

	_, err := r.Start(context.Background())
	require.NoError(t, err)

	_, err = r.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	// Wait for the first run so the temp dirs stay alive until it ends.
	require.Eventually(t, func() bool {
		return r.Status().State != StateRunning
	}, 10*time.Second, 20*time.Millisecond)
}

func TestRunnerRecordsFailure(t *testing.T) {
	srv := km77test.NewServer()
	base := srv.URL
	srv.Close()

	r := NewRunner(testDeps(t, base))

	status, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, status.State)
	assert.NotEmpty(t, status.Error)
}

func TestRunnerInitialStatusIdle(t *testing.T) {
	srv := km77test.NewServer()
	defer srv.Close()

	r := NewRunner(testDeps(t, srv.URL))
	assert.Equal(t, StateIdle, r.Status().State)
}
