package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockcast/backend/internal/batch"
)

type slowRunner struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (r *slowRunner) Run(ctx context.Context) (*batch.Summary, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.release != nil {
		<-r.release
	}
	return &batch.Summary{Total: 1, Succeeded: 1}, nil
}

func TestBatchTrigger(t *testing.T) {
	runner := &slowRunner{}
	h := NewBatchHandler(runner, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/batch/run", nil)
	rec := httptest.NewRecorder()
	h.Trigger(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "started")

	// Wait for the background run to release the in-flight flag.
	require.Eventually(t, func() bool {
		return !h.running.Load()
	}, time.Second, 10*time.Millisecond)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, 1, runner.calls)
}

func TestBatchTriggerConflictWhileRunning(t *testing.T) {
	runner := &slowRunner{release: make(chan struct{})}
	h := NewBatchHandler(runner, testLogger())

	rec := httptest.NewRecorder()
	h.Trigger(rec, httptest.NewRequest(http.MethodPost, "/api/batch/run", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Second trigger while the first is still in flight.
	rec2 := httptest.NewRecorder()
	h.Trigger(rec2, httptest.NewRequest(http.MethodPost, "/api/batch/run", nil))
	assert.Equal(t, http.StatusConflict, rec2.Code)

	close(runner.release)
	require.Eventually(t, func() bool {
		return !h.running.Load()
	}, time.Second, 10*time.Millisecond)
}
