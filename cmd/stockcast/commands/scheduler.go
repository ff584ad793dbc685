package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/stockcast/backend/internal/scheduler"
	"github.com/wonny/stockcast/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the cron scheduler daemon",
	Long: `Start the scheduler and register the daily prediction job.

Registered jobs:
  daily-predictions - weekday evenings after the US close (BATCH_SCHEDULE)

Example:
  go run ./cmd/stockcast scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	d, closeDeps, err := buildDeps()
	if err != nil {
		return err
	}
	defer closeDeps()

	sched := scheduler.New(d.log.WithComponent("scheduler"))

	job := jobs.NewPredictionJob(d.runner, d.cfg.Batch.Schedule)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("register job: %w", err)
	}

	sched.Start()
	fmt.Printf("Scheduler running with jobs: %v\n", sched.GetAllJobs())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
