package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/stockcast/backend/internal/batch"
)

// batchRunner is the subset of the batch runner the job needs.
type batchRunner interface {
	Run(ctx context.Context) (*batch.Summary, error)
}

// PredictionJob runs the daily batch forecast over the ticker universe,
// scheduled for weekday evenings after the US close.
type PredictionJob struct {
	runner   batchRunner
	schedule string
}

// NewPredictionJob creates the daily prediction job.
func NewPredictionJob(runner batchRunner, schedule string) *PredictionJob {
	return &PredictionJob{runner: runner, schedule: schedule}
}

func (j *PredictionJob) Name() string {
	return "daily-predictions"
}

func (j *PredictionJob) Schedule() string {
	return j.schedule
}

func (j *PredictionJob) Run(ctx context.Context) error {
	summary, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	// A run that produced nothing is a failure worth retrying.
	if summary.Succeeded == 0 && summary.Total > 0 {
		return fmt.Errorf("batch run produced no predictions (%d tickers skipped)", summary.Skipped)
	}

	return nil
}
