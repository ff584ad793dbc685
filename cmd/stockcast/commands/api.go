package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockcast/backend/internal/api"
	"github.com/wonny/stockcast/backend/internal/api/handlers"
	"github.com/wonny/stockcast/backend/internal/regress"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the HTTP API server.

Endpoints:
  GET  /health                    - Health check
  POST /api/predict               - Train and predict on supplied observations
  GET  /api/predictions           - Latest stored batch predictions
  GET  /api/predictions/{ticker}  - Stored predictions for one ticker
  POST /api/batch/run             - Trigger a batch run
  GET  /api/batch/stream          - Websocket batch progress feed

Example:
  go run ./cmd/stockcast api
  go run ./cmd/stockcast api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "override the configured API port")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, closeDeps, err := buildDeps()
	if err != nil {
		return err
	}
	defer closeDeps()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	log := d.log
	log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	predictor := regress.NewPredictor(log.WithComponent("regress").Zerolog())

	router := api.NewRouter(
		handlers.NewPredictHandler(predictor, log.WithComponent("api")),
		handlers.NewPredictionsHandler(d.repo, log.WithComponent("api")),
		handlers.NewBatchHandler(d.runner, log.WithComponent("api")),
		handlers.NewStreamHandler(d.runner.Broker(), log.WithComponent("api")),
		log,
	)

	server := api.New(d.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", d.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
