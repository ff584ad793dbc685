package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/wonny/stockcast/backend/internal/batch"
	"github.com/wonny/stockcast/backend/pkg/logger"
)

// BatchRunner triggers a batch prediction run.
type BatchRunner interface {
	Run(ctx context.Context) (*batch.Summary, error)
}

// BatchHandler triggers batch runs on demand. At most one run is in flight
// at a time.
type BatchHandler struct {
	runner  BatchRunner
	logger  *logger.Logger
	running atomic.Bool
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(runner BatchRunner, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		runner: runner,
		logger: log,
	}
}

// Trigger handles POST /api/batch/run. The run happens in the background;
// progress is observable on the stream endpoint.
func (h *BatchHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "batch run already in progress")
		return
	}

	go func() {
		defer h.running.Store(false)

		summary, err := h.runner.Run(context.Background())
		if err != nil {
			h.logger.WithError(err).Error("Triggered batch run failed")
			return
		}

		h.logger.WithFields(map[string]interface{}{
			"succeeded": summary.Succeeded,
			"skipped":   summary.Skipped,
		}).Info("Triggered batch run finished")
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
	})
}
